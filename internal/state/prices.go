package state

import "math"

// Prices assigns unit prices to drinks. The recipe API carries no prices, so
// every drink costs Default unless Overrides names it.
type Prices struct {
	Default   float64
	Overrides map[int64]float64
}

// Price returns the unit price for id. Negative and non-finite prices are
// treated as zero.
func (p Prices) Price(id int64) float64 {
	price := p.Default
	if v, ok := p.Overrides[id]; ok {
		price = v
	}
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0
	}
	return price
}
