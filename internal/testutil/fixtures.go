package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"smallcase/internal/allocation"
	"smallcase/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// TestUserID returns a unique user id for a test.
func TestUserID() string {
	return fmt.Sprintf("user-%d", nextID())
}

// CreateTestInstrument creates an instrument priced at price, last updated now.
func CreateTestInstrument(t *testing.T, db *gorm.DB, symbol, price string) *models.Instrument {
	t.Helper()

	now := time.Now().UTC()
	inst := &models.Instrument{
		Symbol:       symbol,
		Name:         symbol + " Ltd",
		CurrentPrice: decimal.NewNullDecimal(decimal.RequireFromString(price)),
		LastUpdated:  &now,
	}
	if err := db.Create(inst).Error; err != nil {
		t.Fatalf("failed to create test instrument: %v", err)
	}
	return inst
}

// CreateTestUnpricedInstrument creates an instrument that has never been priced.
func CreateTestUnpricedInstrument(t *testing.T, db *gorm.DB, symbol string) *models.Instrument {
	t.Helper()

	inst := &models.Instrument{Symbol: symbol, Name: symbol + " Ltd"}
	if err := db.Create(inst).Error; err != nil {
		t.Fatalf("failed to create test instrument: %v", err)
	}
	return inst
}

// CreateTestBasket allocates amount equally across instruments at their
// current prices and stores the basket for userID.
func CreateTestBasket(t *testing.T, db *gorm.DB, userID, amount string, instruments ...*models.Instrument) *models.Basket {
	t.Helper()

	quotes := make([]allocation.Quote, len(instruments))
	bySymbol := make(map[string]*models.Instrument, len(instruments))
	for i, inst := range instruments {
		quotes[i] = allocation.Quote{Symbol: inst.Symbol, Price: inst.CurrentPrice}
		bySymbol[inst.Symbol] = inst
	}
	alloc, err := allocation.Allocate(quotes, decimal.RequireFromString(amount))
	if err != nil {
		t.Fatalf("failed to allocate test basket: %v", err)
	}

	basket := &models.Basket{
		UserID:           userID,
		Name:             fmt.Sprintf("Basket %d", nextID()),
		Currency:         "INR",
		InvestmentAmount: alloc.InvestmentAmount,
		Version:          1,
	}
	now := time.Now().UTC()
	for _, it := range alloc.Items {
		basket.Items = append(basket.Items, models.BasketItem{
			InstrumentID:    bySymbol[it.Symbol].ID,
			WeightPercent:   it.WeightPercent,
			Quantity:        it.Quantity,
			AllocatedAmount: it.AllocatedAmount,
			PurchasePrice:   it.PurchasePrice,
			PurchaseDate:    now,
		})
	}
	if err := db.Create(basket).Error; err != nil {
		t.Fatalf("failed to create test basket: %v", err)
	}
	return basket
}
