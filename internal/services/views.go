package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"smallcase/internal/allocation"
	"smallcase/internal/models"
	"smallcase/internal/valuation"
)

// ItemView is a basket item valued at its instrument's current price.
type ItemView struct {
	ID              string              `json:"id"`
	InstrumentID    string              `json:"instrument_id"`
	Symbol          string              `json:"symbol"`
	Name            string              `json:"name"`
	WeightPercent   decimal.Decimal     `json:"weight_percent" swaggertype:"string"`
	Quantity        int64               `json:"quantity"`
	AllocatedAmount decimal.Decimal     `json:"allocated_amount" swaggertype:"string"`
	PurchasePrice   decimal.Decimal     `json:"purchase_price" swaggertype:"string"`
	PurchaseDate    time.Time           `json:"purchase_date"`
	CurrentPrice    decimal.NullDecimal `json:"current_price" swaggertype:"string"`
	CurrentValue    decimal.Decimal     `json:"current_value" swaggertype:"string"`
	ProfitLoss      decimal.Decimal     `json:"profit_loss" swaggertype:"string"`
}

// BasketView is a basket with its items and valuation totals.
type BasketView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Currency    string `json:"currency"`
	Version     int64  `json:"version"`
	valuation.Summary
	Items []ItemView `json:"items"`
	// SkippedSymbols lists instruments left out of a new basket because
	// they had no price.
	SkippedSymbols []string  `json:"skipped_symbols,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PreviewItem is one line of an allocation preview.
type PreviewItem struct {
	Symbol          string          `json:"symbol"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price" swaggertype:"string"`
	Quantity        int64           `json:"quantity"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount" swaggertype:"string"`
	WeightPercent   decimal.Decimal `json:"weight_percent" swaggertype:"string"`
}

// AllocationPreview is the allocation a basket would get, without saving it.
type AllocationPreview struct {
	Currency         string          `json:"currency"`
	RequestedAmount  decimal.Decimal `json:"requested_amount" swaggertype:"string"`
	InvestmentAmount decimal.Decimal `json:"investment_amount" swaggertype:"string"`
	Uninvested       decimal.Decimal `json:"uninvested" swaggertype:"string"`
	Items            []PreviewItem   `json:"items"`
	SkippedSymbols   []string        `json:"skipped_symbols,omitempty"`
}

// RemovalResult is returned when an item is removed from a basket.
type RemovalResult struct {
	Basket  *BasketView `json:"basket"`
	Removed ItemView    `json:"removed"`
	Message string      `json:"message"`
}

// newBasketView values b at its instruments' current prices. Items must have
// their Instrument loaded.
func newBasketView(b *models.Basket) *BasketView {
	view := &BasketView{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Currency:    b.Currency,
		Version:     b.Version,
		Items:       make([]ItemView, 0, len(b.Items)),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}

	positions := make([]valuation.Position, 0, len(b.Items))
	for _, item := range b.Items {
		pos := toPosition(item)
		positions = append(positions, pos)
		view.Items = append(view.Items, newItemView(item, pos))
	}
	view.Summary = valuation.Summarize(b.InvestmentAmount, positions)
	return view
}

func newItemView(item models.BasketItem, pos valuation.Position) ItemView {
	return ItemView{
		ID:              item.ID,
		InstrumentID:    item.InstrumentID,
		Symbol:          item.Instrument.Symbol,
		Name:            item.Instrument.Name,
		WeightPercent:   item.WeightPercent,
		Quantity:        item.Quantity,
		AllocatedAmount: item.AllocatedAmount,
		PurchasePrice:   item.PurchasePrice,
		PurchaseDate:    item.PurchaseDate,
		CurrentPrice:    item.Instrument.CurrentPrice,
		CurrentValue:    valuation.CurrentValue(pos),
		ProfitLoss:      valuation.ProfitLoss(pos),
	}
}

// toEngineBasket converts a stored basket for the allocation engine.
func toEngineBasket(b *models.Basket) allocation.Basket {
	out := allocation.Basket{
		InvestmentAmount: b.InvestmentAmount,
		Items:            make([]allocation.Item, len(b.Items)),
	}
	for i, item := range b.Items {
		out.Items[i] = allocation.Item{
			ID:              item.ID,
			Symbol:          item.Instrument.Symbol,
			WeightPercent:   item.WeightPercent,
			Quantity:        item.Quantity,
			AllocatedAmount: item.AllocatedAmount,
			PurchasePrice:   item.PurchasePrice,
		}
	}
	return out
}

// sortItems orders items by symbol so responses are stable.
func sortItems(items []models.BasketItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Instrument.Symbol < items[j].Instrument.Symbol
	})
}
