// Package allocation computes whole-share basket allocations and rebalances them.
//
// Every function is pure: inputs are never mutated and a new Basket is returned.
// Amounts and weights use decimal arithmetic; quantities are whole shares.
package allocation

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// MinInstruments is the smallest number of instruments a basket can be created with.
const MinInstruments = 2

// MaxAmount is the exclusive upper bound of any amount a basket holds. It
// matches the NUMERIC(18,2) amount columns.
var MaxAmount = decimal.New(1, 16)

var (
	ErrInsufficientInstruments = errors.New("allocation: at least two priced instruments are required")
	ErrInvalidAmount           = errors.New("allocation: amount must be greater than zero and below 1e16")
	ErrInvalidWeight           = errors.New("allocation: weight must be greater than 0 and at most 100")
	ErrInvalidQuantity         = errors.New("allocation: quantity must be greater than zero and keep the basket below 1e16")
	ErrItemNotFound            = errors.New("allocation: item not found in basket")
	ErrDuplicateInstrument     = errors.New("allocation: instrument appears more than once")
)

var (
	hundred  = decimal.NewFromInt(100)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

// Quote is an instrument offered for initial allocation. A null, zero or
// negative price means the instrument is unpriced.
type Quote struct {
	Symbol string
	Price  decimal.NullDecimal
}

// Item is one holding of a basket.
type Item struct {
	ID              string
	Symbol          string
	WeightPercent   decimal.Decimal
	Quantity        int64
	AllocatedAmount decimal.Decimal
	PurchasePrice   decimal.Decimal
}

// Basket is the engine's view of a basket: its invested total and its items.
type Basket struct {
	InvestmentAmount decimal.Decimal
	Items            []Item
}

// Allocation is the result of an initial allocation.
type Allocation struct {
	Basket
	// Skipped lists the symbols dropped because they had no usable price.
	Skipped []string
}

// Total returns the sum of allocated amounts.
func (b Basket) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range b.Items {
		total = total.Add(it.AllocatedAmount)
	}
	return total
}

// WeightSum returns the sum of item weights.
func (b Basket) WeightSum() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range b.Items {
		sum = sum.Add(it.WeightPercent)
	}
	return sum
}

// Item returns the item with the given id.
func (b Basket) Item(id string) (Item, bool) {
	if i := b.indexOf(id); i >= 0 {
		return b.Items[i], true
	}
	return Item{}, false
}

func (b Basket) indexOf(id string) int {
	for i, it := range b.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (b Basket) clone() Basket {
	items := make([]Item, len(b.Items))
	copy(items, b.Items)
	return Basket{InvestmentAmount: b.InvestmentAmount, Items: items}
}

// resize sets the whole-share quantity and re-derives amount and weight against base.
func (it *Item) resize(quantity int64, base decimal.Decimal) {
	it.Quantity = quantity
	it.AllocatedAmount = it.PurchasePrice.Mul(decimal.NewFromInt(quantity))
	it.WeightPercent = weightOf(it.AllocatedAmount, base)
}

// wholeShares returns floor(num / den) as a share count, or 0 when either side
// is not positive. ok is false when the count does not fit in an int64.
func wholeShares(num, den decimal.Decimal) (shares int64, ok bool) {
	if !num.IsPositive() || !den.IsPositive() {
		return 0, true
	}
	q, _ := num.QuoRem(den, 0)
	if q.GreaterThan(maxInt64) {
		return 0, false
	}
	return q.IntPart(), true
}

// validAmount reports whether amount is positive and below MaxAmount.
func validAmount(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.LessThan(MaxAmount)
}

// weightOf returns amount as a percentage of base rounded to WeightPrecision.
func weightOf(amount, base decimal.Decimal) decimal.Decimal {
	if !base.IsPositive() {
		return decimal.Zero
	}
	return amount.Mul(hundred).DivRound(base, WeightPrecision)
}

func priced(p decimal.NullDecimal) bool {
	return p.Valid && p.Decimal.IsPositive()
}
