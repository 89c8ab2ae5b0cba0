package money_test

import (
	"testing"

	"github.com/fazamuttaqien/lending/pkg/money"
	"github.com/stretchr/testify/assert"
)

func TestRound3(t *testing.T) {
	assert.Equal(t, 33.333, money.Round3(33.33333))
	assert.Equal(t, 33.334, money.Round3(33.3335))
	assert.Equal(t, 0.001, money.Round3(0.0005))
	assert.Equal(t, 200.0, money.Round3(200))
}

func TestSub(t *testing.T) {
	assert.Equal(t, 300.0, money.Sub(500, 200))
	assert.Equal(t, 66.667, money.Sub(100, 33.333))
	assert.Equal(t, -100.0, money.Sub(100, 200))
}

func TestSplit(t *testing.T) {
	t.Run("Single share", func(t *testing.T) {
		assert.Equal(t, []float64{100}, money.Split(100, 1))
	})

	t.Run("Even split", func(t *testing.T) {
		assert.Equal(t, []float64{200, 200, 200}, money.Split(600, 3))
	})

	t.Run("Remainder goes to the last share", func(t *testing.T) {
		shares := money.Split(100, 3)
		assert.Equal(t, []float64{33.333, 33.333, 33.334}, shares)
	})

	t.Run("Shares always sum back to the amount", func(t *testing.T) {
		for _, tc := range []struct {
			amount float64
			n      int
		}{
			{100, 3}, {999.999, 7}, {1, 13}, {5000, 12}, {0.01, 2},
		} {
			shares := money.Split(tc.amount, tc.n)
			assert.Len(t, shares, tc.n)

			sum := 0.0
			for _, s := range shares {
				sum = money.Round3(sum + s)
			}
			assert.Equal(t, money.Round3(tc.amount), sum,
				"amount=%v n=%d shares=%v", tc.amount, tc.n, shares)
		}
	})
}
