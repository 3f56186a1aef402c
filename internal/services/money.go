package services

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// formatMoney renders amount in the currency's display format, e.g. ₹1,234.50.
func formatMoney(amount decimal.Decimal, currency string) string {
	// money.New always resolves a currency, even an unknown code.
	cur := money.New(0, currency).Currency()
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}
