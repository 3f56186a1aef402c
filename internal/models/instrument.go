package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Instrument is a tradable symbol with its latest known price.
type Instrument struct {
	Base
	Symbol       string              `gorm:"not null;uniqueIndex" json:"symbol"`
	Name         string              `gorm:"not null" json:"name"`
	CurrentPrice decimal.NullDecimal `gorm:"type:numeric(18,2)" json:"current_price" swaggertype:"string"`
	LastUpdated  *time.Time          `json:"last_updated,omitempty"`
}

// IsStale reports whether the price is missing or older than maxAge.
func (i *Instrument) IsStale(now time.Time, maxAge time.Duration) bool {
	if !i.CurrentPrice.Valid || i.LastUpdated == nil {
		return true
	}
	return now.Sub(*i.LastUpdated) > maxAge
}
