package ledger

import "time"

// Valuer projects a balance into a single commodity.
type Valuer interface {
	// ValueIn returns the value of b in target. The second result is false
	// when some commodity of b has no known price in target.
	ValueIn(b Balance, target *Commodity) (Amount, bool)
}

type priceValuer struct {
	prices *PriceGraph
	date   *time.Time
}

// ValueIn converts each entry with the most recent price on or before the
// valuer's date. Bare numbers count as target.
func (v *priceValuer) ValueIn(b Balance, target *Commodity) (Amount, bool) {
	total := NewAmount(b.Get(target.Symbol()), target)
	for _, a := range b.entries {
		symbol := a.Commodity.Symbol()
		if symbol == target.Symbol() {
			continue
		}
		if symbol == "" {
			total.Quantity = total.Quantity.Add(a.Quantity)
			continue
		}

		rate, ok := v.prices.LookupPrice(v.date, symbol, target.Symbol())
		if !ok {
			return Amount{}, false
		}
		total.Quantity = total.Quantity.Add(a.Quantity.Mul(rate))
	}
	return total, true
}
