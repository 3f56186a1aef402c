package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"smallcase/internal/models"
	"smallcase/internal/pagination"
)

// InstrumentInput is one instrument to register through the pipeline.
type InstrumentInput struct {
	Symbol string
	Name   string
}

// PriceInput is one price pushed by the pipeline.
type PriceInput struct {
	Symbol     string
	Price      decimal.Decimal
	RecordedAt time.Time
}

// RefreshResult summarises a price refresh.
type RefreshResult struct {
	Source    string   `json:"source"`
	Requested int      `json:"requested"`
	Updated   int      `json:"updated"`
	Failed    []string `json:"failed,omitempty"`
}

// InstrumentServicer defines the contract for instrument and price logic.
type InstrumentServicer interface {
	CreateInstruments(inputs []InstrumentInput) ([]models.Instrument, error)
	GetInstrumentBySymbol(symbol string) (*models.Instrument, error)
	GetInstrumentsBySymbols(symbols []string) ([]models.Instrument, error)
	ListInstruments(search string, page pagination.PageRequest) (*pagination.PageResponse[models.Instrument], error)
	RecordPrices(prices []PriceInput) (int, error)
	RefreshPrices(ctx context.Context, symbols []string) (*RefreshResult, error)
}

// CreateBasketInput holds the fields needed to create a basket.
type CreateBasketInput struct {
	Name             string
	Description      string
	Currency         string
	InvestmentAmount decimal.Decimal
	Symbols          []string
}

// BasketServicer defines the contract for basket logic. Every method is
// scoped to the owning user; other users' baskets are reported as not found.
type BasketServicer interface {
	PreviewBasket(symbols []string, amount decimal.Decimal, currency string) (*AllocationPreview, error)
	CreateBasket(userID string, input CreateBasketInput) (*BasketView, error)
	GetBasket(ctx context.Context, userID, basketID string) (*BasketView, error)
	ListBaskets(userID string, page pagination.PageRequest) (*pagination.PageResponse[BasketView], error)
	UpdateItemWeight(userID, basketID, itemID string, weight decimal.Decimal) (*BasketView, error)
	UpdateItemQuantity(userID, basketID, itemID string, quantity int64) (*BasketView, error)
	UpdateInvestmentAmount(userID, basketID string, amount decimal.Decimal) (*BasketView, error)
	RemoveItem(userID, basketID, itemID string) (*RemovalResult, error)
	DuplicateBasket(userID, basketID string) (*BasketView, error)
	DeleteBasket(userID, basketID string) error
}

// AuditEntry describes one audited user operation.
type AuditEntry struct {
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	IPAddress    string
	RequestID    string
	Changes      map[string]any
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(entry AuditEntry)
}
