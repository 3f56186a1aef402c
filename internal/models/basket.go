package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Basket is a user's weighted collection of instrument holdings.
//
// InvestmentAmount always equals the sum of the items' allocated amounts.
// Version is bumped on every rebalance and guards against lost updates.
type Basket struct {
	Base
	UserID           string          `gorm:"not null;index" json:"user_id"`
	Name             string          `gorm:"not null" json:"name"`
	Description      string          `json:"description,omitempty"`
	Currency         string          `gorm:"not null;default:'INR'" json:"currency"`
	InvestmentAmount decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"investment_amount" swaggertype:"string"`
	Version          int64           `gorm:"not null;default:1" json:"version"`
	Items            []BasketItem    `gorm:"foreignKey:BasketID" json:"items,omitempty"`
}

// BasketItem is one instrument held in a basket. AllocatedAmount is always
// Quantity times PurchasePrice.
type BasketItem struct {
	Base
	BasketID        string          `gorm:"not null;uniqueIndex:uq_basket_items_basket_instrument" json:"basket_id"`
	InstrumentID    string          `gorm:"not null;uniqueIndex:uq_basket_items_basket_instrument" json:"instrument_id"`
	Instrument      Instrument      `gorm:"foreignKey:InstrumentID" json:"instrument"`
	WeightPercent   decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"weight_percent" swaggertype:"string"`
	Quantity        int64           `gorm:"not null" json:"quantity"`
	AllocatedAmount decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"allocated_amount" swaggertype:"string"`
	PurchasePrice   decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"purchase_price" swaggertype:"string"`
	PurchaseDate    time.Time       `gorm:"not null" json:"purchase_date"`
}
