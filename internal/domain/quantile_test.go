package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeBreakpoints(t *testing.T) {
	global := Breakpoints{-2, -1, 1, 2}

	t.Run("rank-based quintiles for ten values", func(t *testing.T) {
		values := []float64{-10, -5, 0, 5, 10, 15, 20, 25, 30, 35}
		bp, small := ComputeBreakpoints(values, global, 5)

		assert.Equal(t, Breakpoints{0, 10, 20, 30}, bp)
		assert.False(t, small)
	})

	t.Run("order does not matter", func(t *testing.T) {
		values := []float64{-10, -5, 0, 5, 10, 15, 20, 25, 30, 35}
		shuffled := make([]float64, len(values))
		copy(shuffled, values)
		rng := rand.New(rand.NewSource(1))
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		bp1, _ := ComputeBreakpoints(values, global, 5)
		bp2, _ := ComputeBreakpoints(shuffled, global, 5)

		assert.Equal(t, bp1, bp2)
	})

	t.Run("input slice is not mutated", func(t *testing.T) {
		values := []float64{35, -10, 20, 0, 5, 10, 15, -5, 30, 25}
		ComputeBreakpoints(values, global, 5)

		assert.Equal(t, []float64{35, -10, 20, 0, 5, 10, 15, -5, 30, 25}, values)
	})

	t.Run("small sample interpolates min to max", func(t *testing.T) {
		bp, small := ComputeBreakpoints([]float64{0, 10, 50}, global, 5)

		assert.InDelta(t, 10, bp[0], 1e-9)
		assert.InDelta(t, 20, bp[1], 1e-9)
		assert.InDelta(t, 30, bp[2], 1e-9)
		assert.InDelta(t, 40, bp[3], 1e-9)
		assert.True(t, small)
	})

	t.Run("pair of values still interpolates", func(t *testing.T) {
		bp, small := ComputeBreakpoints([]float64{0, 100}, global, 5)

		assert.InDelta(t, 20, bp[0], 1e-9)
		assert.InDelta(t, 40, bp[1], 1e-9)
		assert.InDelta(t, 60, bp[2], 1e-9)
		assert.InDelta(t, 80, bp[3], 1e-9)
		assert.True(t, small)
	})

	t.Run("singleton falls back to global", func(t *testing.T) {
		bp, small := ComputeBreakpoints([]float64{42}, global, 5)

		assert.Equal(t, global, bp)
		assert.False(t, small)
	})

	t.Run("empty falls back to global", func(t *testing.T) {
		bp, small := ComputeBreakpoints(nil, global, 5)

		assert.Equal(t, global, bp)
		assert.False(t, small)
	})

	t.Run("identical values collapse to a flat band", func(t *testing.T) {
		bp, small := ComputeBreakpoints([]float64{7, 7, 7}, global, 5)

		assert.Equal(t, Breakpoints{7, 7, 7, 7}, bp)
		assert.True(t, small)
	})
}

func TestGlobalBreakpoints(t *testing.T) {
	results := make([]ComparisonResult, 0, 10)
	for _, v := range []float64{-10, -5, 0, 5, 10, 15, 20, 25, 30, 35} {
		results = append(results, ComparisonResult{ChangePct: v})
	}

	bp := GlobalBreakpoints(results, 5)

	assert.Equal(t, Breakpoints{0, 10, 20, 30}, bp)
}
