// Package pricing fetches instrument prices from external data sources and
// schedules periodic refreshes.
package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a successfully fetched price for a symbol.
type Quote struct {
	Symbol     string
	Price      decimal.Decimal
	Currency   string
	RecordedAt time.Time
}

// FetchError is a failed price fetch for a specific symbol.
type FetchError struct {
	Symbol string
	Err    error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch price for %s: %v", e.Symbol, e.Err)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error { return e.Err }

// Source fetches current market prices for a set of symbols.
type Source interface {
	// Name returns the source's display name.
	Name() string

	// FetchPrices returns the prices it could fetch and a FetchError for each
	// symbol it could not. A source returns as many prices as possible even
	// when some symbols fail.
	FetchPrices(ctx context.Context, symbols []string) ([]Quote, []FetchError)
}
