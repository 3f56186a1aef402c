// Package valuation values basket holdings at current prices.
package valuation

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Position is one basket item as seen by the valuation.
type Position struct {
	Quantity        int64
	AllocatedAmount decimal.Decimal
	// CurrentPrice is the instrument's latest price; null when never priced.
	CurrentPrice decimal.NullDecimal
}

// Summary holds basket level totals.
type Summary struct {
	InvestmentAmount  decimal.Decimal `json:"investment_amount"`
	CurrentValue      decimal.Decimal `json:"current_value"`
	ProfitLoss        decimal.Decimal `json:"profit_loss"`
	ProfitLossPercent decimal.Decimal `json:"profit_loss_percent"`
}

// CurrentValue returns quantity times the current price. Without a usable
// price the position is valued at its allocated amount.
func CurrentValue(p Position) decimal.Decimal {
	if !p.CurrentPrice.Valid || p.CurrentPrice.Decimal.IsZero() {
		return p.AllocatedAmount
	}
	return p.CurrentPrice.Decimal.Mul(decimal.NewFromInt(p.Quantity))
}

// ProfitLoss returns the position's gain over its allocated amount.
func ProfitLoss(p Position) decimal.Decimal {
	return CurrentValue(p).Sub(p.AllocatedAmount)
}

// Summarize totals positions against the basket's investment amount.
//
// Profit and loss is computed in whole currency units: both the current value
// and the investment are truncated before subtracting. The percentage is
// rounded to two places and is zero when nothing is invested.
func Summarize(investment decimal.Decimal, positions []Position) Summary {
	current := decimal.Zero
	for _, p := range positions {
		current = current.Add(CurrentValue(p))
	}

	pl := current.Truncate(0).Sub(investment.Truncate(0))
	pct := decimal.Zero
	if investment.IsPositive() {
		pct = pl.Mul(hundred).DivRound(investment, 2)
	}

	return Summary{
		InvestmentAmount:  investment,
		CurrentValue:      current,
		ProfitLoss:        pl,
		ProfitLossPercent: pct,
	}
}
