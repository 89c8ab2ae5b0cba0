// Package money holds the fixed-point helpers shared by the installment
// schedule generator and the payment allocator. All customer-facing amounts
// are carried with three decimal places, rounded half-up.
package money

import "github.com/shopspring/decimal"

const places = 3

// Round3 rounds an amount to three decimal places using half-up semantics.
func Round3(amount float64) float64 {
	v, _ := decimal.NewFromFloat(amount).Round(places).Float64()
	return v
}

// Sub returns a-b without accumulating binary float error.
func Sub(a, b float64) float64 {
	v, _ := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Float64()
	return v
}

// Split divides an amount into n shares of round3(amount/n) each, with the
// final share absorbing the rounding remainder so the shares sum back to the
// amount exactly. n must be >= 1.
func Split(amount float64, n int) []float64 {
	if n <= 1 {
		return []float64{Round3(amount)}
	}

	total := decimal.NewFromFloat(amount)
	share := total.Div(decimal.NewFromInt(int64(n))).Round(places)

	shares := make([]float64, 0, n)
	remaining := total
	for i := 1; i < n; i++ {
		v, _ := share.Float64()
		shares = append(shares, v)
		remaining = remaining.Sub(share)
	}

	last, _ := remaining.Round(places).Float64()
	return append(shares, last)
}
