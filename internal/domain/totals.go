package domain

import "math"

// Totals is the derived monetary view of a cart for a given tax and discount
// rate. All amounts are int64 minor currency units (CLP has no decimals).
type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Discount int64 `json:"discount"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
}

// ComputeTotals derives totals from a subtotal: the discount is capped at the
// subtotal and never negative, tax applies to the discounted base, and the
// total is subtotal - discount + tax. Rate products round half away from zero.
func ComputeTotals(subtotal int64, taxRate, discountRate float64) Totals {
	discount := mulRate(subtotal, discountRate)
	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}

	tax := mulRate(subtotal-discount, taxRate)
	if tax < 0 {
		tax = 0
	}

	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    subtotal - discount + tax,
	}
}

// mulRate multiplies an amount by a rate, rounding half away from zero.
func mulRate(amount int64, rate float64) int64 {
	return int64(math.Round(float64(amount) * rate))
}
