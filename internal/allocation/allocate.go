package allocation

import "github.com/shopspring/decimal"

// Allocate splits totalAmount equally across quotes and buys whole shares.
//
// Each instrument targets totalAmount/N where N counts every supplied quote,
// priced or not. Unpriced quotes are skipped and listed in Skipped; a priced
// quote that cannot afford a single share is kept with quantity 0. The
// returned InvestmentAmount is the realized total, never more than totalAmount.
// totalAmount must be below MaxAmount.
func Allocate(quotes []Quote, totalAmount decimal.Decimal) (*Allocation, error) {
	if len(quotes) < MinInstruments {
		return nil, ErrInsufficientInstruments
	}
	if !validAmount(totalAmount) {
		return nil, ErrInvalidAmount
	}

	seen := make(map[string]struct{}, len(quotes))
	for _, q := range quotes {
		if _, dup := seen[q.Symbol]; dup {
			return nil, ErrDuplicateInstrument
		}
		seen[q.Symbol] = struct{}{}
	}

	n := decimal.NewFromInt(int64(len(quotes)))
	result := &Allocation{}
	for _, q := range quotes {
		if !priced(q.Price) {
			result.Skipped = append(result.Skipped, q.Symbol)
			continue
		}
		it := Item{Symbol: q.Symbol, PurchasePrice: q.Price.Decimal}
		shares, ok := wholeShares(totalAmount, n.Mul(it.PurchasePrice))
		if !ok {
			return nil, ErrInvalidAmount
		}
		it.resize(shares, totalAmount)
		result.Items = append(result.Items, it)
	}
	if len(result.Items) == 0 {
		return nil, ErrInsufficientInstruments
	}

	result.InvestmentAmount = result.Total()
	return result, nil
}
