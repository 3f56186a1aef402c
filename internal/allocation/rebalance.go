package allocation

import "github.com/shopspring/decimal"

// RebalanceByWeight pins one item to newWeight and spreads what is left over
// the other items in proportion to their current weights.
//
// Target amounts are taken against the basket's current InvestmentAmount. The
// edited item is rounded down to whole shares first, and the remaining weight
// is measured from its rounded weight. When the other items hold no weight at
// all the remainder is split equally. No normalization follows the rounding,
// so the weight sum may fall short of 100 by at most MaxWeightDrift.
func RebalanceByWeight(b Basket, itemID string, newWeight decimal.Decimal) (Basket, error) {
	if !newWeight.IsPositive() || newWeight.GreaterThan(hundred) {
		return Basket{}, ErrInvalidWeight
	}
	idx := b.indexOf(itemID)
	if idx < 0 {
		return Basket{}, ErrItemNotFound
	}

	base := b.InvestmentAmount
	out := b.clone()
	edited := &out.Items[idx]
	shares, ok := wholeShares(newWeight.Mul(base), hundred.Mul(edited.PurchasePrice))
	if !ok {
		return Basket{}, ErrInvalidWeight
	}
	edited.resize(shares, base)

	remaining := hundred.Sub(edited.WeightPercent)
	if remaining.IsNegative() {
		return Basket{}, ErrInvalidWeight
	}

	otherWeight := decimal.Zero
	for i, it := range b.Items {
		if i != idx {
			otherWeight = otherWeight.Add(it.WeightPercent)
		}
	}
	others := decimal.NewFromInt(int64(len(b.Items) - 1))

	for i := range out.Items {
		if i == idx {
			continue
		}
		it := &out.Items[i]
		// shares = remaining/100 * base * share / price, share being the
		// item's fraction of the other items' weight.
		var num, den decimal.Decimal
		if otherWeight.IsPositive() {
			num = remaining.Mul(it.WeightPercent).Mul(base)
			den = otherWeight.Mul(hundred).Mul(it.PurchasePrice)
		} else {
			num = remaining.Mul(base)
			den = others.Mul(hundred).Mul(it.PurchasePrice)
		}
		shares, ok := wholeShares(num, den)
		if !ok {
			return Basket{}, ErrInvalidWeight
		}
		it.resize(shares, base)
	}

	out.InvestmentAmount = out.Total()
	return out, nil
}

// RebalanceByQuantity sets one item's quantity. Other quantities stay as they
// are; the investment amount becomes the new holdings total and every weight
// is recomputed against it.
func RebalanceByQuantity(b Basket, itemID string, newQuantity int64) (Basket, error) {
	if newQuantity <= 0 {
		return Basket{}, ErrInvalidQuantity
	}
	idx := b.indexOf(itemID)
	if idx < 0 {
		return Basket{}, ErrItemNotFound
	}

	out := b.clone()
	edited := &out.Items[idx]
	edited.Quantity = newQuantity
	edited.AllocatedAmount = edited.PurchasePrice.Mul(decimal.NewFromInt(newQuantity))

	out.renormalize()
	if !out.InvestmentAmount.LessThan(MaxAmount) {
		return Basket{}, ErrInvalidQuantity
	}
	return out, nil
}

// RebalanceByInvestment changes the investment amount while keeping each
// item's weight. Quantities are recomputed in whole shares against amount, so
// the resulting InvestmentAmount is at most amount.
func RebalanceByInvestment(b Basket, amount decimal.Decimal) (Basket, error) {
	if !validAmount(amount) {
		return Basket{}, ErrInvalidAmount
	}

	out := b.clone()
	for i := range out.Items {
		it := &out.Items[i]
		shares, ok := wholeShares(it.WeightPercent.Mul(amount), hundred.Mul(it.PurchasePrice))
		if !ok {
			return Basket{}, ErrInvalidAmount
		}
		it.resize(shares, amount)
	}

	out.InvestmentAmount = out.Total()
	return out, nil
}

// RemoveItem drops one item. The remaining items keep their quantities, the
// investment amount shrinks by the removed amount and weights are recomputed.
// Removing the last item leaves an empty basket with a zero investment.
func RemoveItem(b Basket, itemID string) (Basket, Item, error) {
	idx := b.indexOf(itemID)
	if idx < 0 {
		return Basket{}, Item{}, ErrItemNotFound
	}

	removed := b.Items[idx]
	out := Basket{Items: make([]Item, 0, len(b.Items)-1)}
	out.Items = append(out.Items, b.Items[:idx]...)
	out.Items = append(out.Items, b.Items[idx+1:]...)

	out.renormalize()
	return out, removed, nil
}

// renormalize sets InvestmentAmount to the holdings total and re-derives every
// weight from it.
func (b *Basket) renormalize() {
	b.InvestmentAmount = b.Total()
	for i := range b.Items {
		b.Items[i].WeightPercent = weightOf(b.Items[i].AllocatedAmount, b.InvestmentAmount)
	}
}
