package allocation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// WeightPrecision is the number of decimal places weights are stored with.
	WeightPrecision = 2
)

// WeightTolerance is the rounding error one stored weight can carry.
var WeightTolerance = decimal.New(1, -WeightPrecision)

// MaxWeightDrift bounds how far the weight sum of b may sit from 100 after
// whole-share rounding against base. Each item can fall short of its target
// by less than one share, plus the rounding of its stored weight.
func MaxWeightDrift(b Basket, base decimal.Decimal) decimal.Decimal {
	drift := WeightTolerance.Mul(decimal.NewFromInt(int64(len(b.Items))))
	if !base.IsPositive() {
		return drift
	}
	for _, it := range b.Items {
		drift = drift.Add(it.PurchasePrice.Mul(hundred).Div(base))
	}
	return drift
}

// WithinTolerance reports whether the weight sum of b is within MaxWeightDrift
// of 100. An empty basket has nothing to weigh and is always within tolerance.
func WithinTolerance(b Basket, base decimal.Decimal) bool {
	if len(b.Items) == 0 {
		return true
	}
	return b.WeightSum().Sub(hundred).Abs().LessThanOrEqual(MaxWeightDrift(b, base))
}

// Verify checks the exact invariants of a basket: every amount equals its
// quantity times purchase price, and the amounts sum to InvestmentAmount.
func Verify(b Basket) error {
	for _, it := range b.Items {
		if it.Quantity < 0 {
			return fmt.Errorf("allocation: item %s has negative quantity %d", it.Symbol, it.Quantity)
		}
		want := it.PurchasePrice.Mul(decimal.NewFromInt(it.Quantity))
		if !it.AllocatedAmount.Equal(want) {
			return fmt.Errorf("allocation: item %s amount %s != %d x %s",
				it.Symbol, it.AllocatedAmount, it.Quantity, it.PurchasePrice)
		}
	}
	if total := b.Total(); !total.Equal(b.InvestmentAmount) {
		return fmt.Errorf("allocation: items total %s != investment amount %s", total, b.InvestmentAmount)
	}
	return nil
}
