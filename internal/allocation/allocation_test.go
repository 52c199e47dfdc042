package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundToUnit(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected int
	}{
		{"exact unit", 500, 500},
		{"rounds down", 549, 500},
		{"rounds up", 550, 600},
		{"floors at one unit", 0, 100},
		{"negative floors at one unit", -300, 100},
		{"tiny positive floors at one unit", 49, 100},
		{"large amount", 123456, 123500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RoundToUnit(tt.amount))
		})
	}
}

func TestProportionalSplit(t *testing.T) {
	t.Run("splits proportionally to weights", func(t *testing.T) {
		allocs := ProportionalSplit(10000, []float64{0.5, 0.3, 0.2})
		assert.Equal(t, []int{5000, 3000, 2000}, allocs)
	})

	t.Run("total always reconciles to budget", func(t *testing.T) {
		cases := [][]float64{
			{0.5, 0.3, 0.2},
			{0.41, 0.33, 0.26},
			{1, 1, 1},
			{0.97, 0.02, 0.01},
			{0.2},
		}
		for _, weights := range cases {
			allocs := ProportionalSplit(10000, weights)
			sum := 0
			for _, a := range allocs {
				sum += a
			}
			assert.Equal(t, 10000, sum, "weights %v", weights)
		}
	})

	t.Run("every allocation is a unit multiple", func(t *testing.T) {
		allocs := ProportionalSplit(10000, []float64{0.41, 0.33, 0.26})
		for i, a := range allocs {
			assert.Zerof(t, a%Unit, "allocation %d = %d", i, a)
		}
	})

	t.Run("zero weights fall back to equal split", func(t *testing.T) {
		allocs := ProportionalSplit(9000, []float64{0, 0, 0})
		assert.Equal(t, []int{3000, 3000, 3000}, allocs)
	})

	t.Run("empty weights", func(t *testing.T) {
		assert.Nil(t, ProportionalSplit(10000, nil))
	})

	t.Run("residual lands on the first allocation", func(t *testing.T) {
		// Each share rounds to 3300, leaving 100 for the head.
		allocs := ProportionalSplit(10000, []float64{1, 1, 1})
		assert.Equal(t, []int{3400, 3300, 3300}, allocs)
	})
}

func TestEqualSplit(t *testing.T) {
	t.Run("residual lands on the last allocation", func(t *testing.T) {
		assert.Equal(t, []int{3333, 3333, 3334}, EqualSplit(10000, 3))
	})

	t.Run("even division", func(t *testing.T) {
		assert.Equal(t, []int{5000, 5000}, EqualSplit(10000, 2))
	})

	t.Run("invalid count", func(t *testing.T) {
		assert.Nil(t, EqualSplit(10000, 0))
	})
}
