package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotals_ChileanVAT(t *testing.T) {
	// Cart: 1000 x2 + 500 x1 = 2500, IVA 19%, no discount.
	got := ComputeTotals(2500, 0.19, 0)

	assert.Equal(t, int64(2500), got.Subtotal)
	assert.Equal(t, int64(0), got.Discount)
	assert.Equal(t, int64(475), got.Tax)
	assert.Equal(t, int64(2975), got.Total)
}

func TestComputeTotals_WithDiscount(t *testing.T) {
	got := ComputeTotals(10000, 0.19, 0.10)

	assert.Equal(t, int64(1000), got.Discount)
	// Tax applies to the discounted base: (10000-1000)*0.19 = 1710.
	assert.Equal(t, int64(1710), got.Tax)
	assert.Equal(t, int64(10710), got.Total)
}

func TestComputeTotals_FullDiscount(t *testing.T) {
	got := ComputeTotals(5000, 0.19, 1.0)

	assert.Equal(t, int64(5000), got.Discount)
	assert.Equal(t, int64(0), got.Tax)
	assert.Equal(t, int64(0), got.Total)
}

func TestComputeTotals_EmptyCart(t *testing.T) {
	got := ComputeTotals(0, 0.19, 0.5)

	assert.Equal(t, Totals{}, got)
}

func TestComputeTotals_Rounding(t *testing.T) {
	// 99 * 0.19 = 18.81, rounds to 19.
	got := ComputeTotals(99, 0.19, 0)

	assert.Equal(t, int64(19), got.Tax)
	assert.Equal(t, int64(118), got.Total)
}

func TestComputeTotals_Invariants(t *testing.T) {
	subtotals := []int64{0, 1, 99, 2500, 123456789}
	rates := []float64{0, 0.05, 0.19, 0.5, 1}

	for _, subtotal := range subtotals {
		for _, taxRate := range rates {
			for _, discountRate := range rates {
				got := ComputeTotals(subtotal, taxRate, discountRate)

				assert.GreaterOrEqual(t, got.Discount, int64(0),
					"subtotal=%d tax=%v discount=%v", subtotal, taxRate, discountRate)
				assert.LessOrEqual(t, got.Discount, subtotal,
					"subtotal=%d tax=%v discount=%v", subtotal, taxRate, discountRate)
				assert.GreaterOrEqual(t, got.Total, int64(0),
					"subtotal=%d tax=%v discount=%v", subtotal, taxRate, discountRate)
			}
		}
	}
}
