package normalize

import "math"

// PriceToRentRatio computes the price-to-rent ratio for a listing.
//
// Precedence:
//  1. rent and priceChange present: (price + priceChange) / rent — the
//     ratio using the most recently adjusted price.
//  2. rent present alone: price / rent.
//  3. otherwise nil.
//
// A zero rent estimate yields nil, never Inf or NaN: downstream consumers
// cannot rely on float NaN surviving a text round trip unambiguously.
func PriceToRentRatio(price, priceChange, rent *float64) *float64 {
	if price == nil || rent == nil || *rent == 0 {
		return nil
	}

	p := *price
	if priceChange != nil {
		p += *priceChange
	}

	ratio := p / *rent
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return nil
	}
	return &ratio
}
