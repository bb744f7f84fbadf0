package aggregate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeanSumMode(t *testing.T) {
	assert.True(t, math.IsNaN(Mean(nil)))
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-12)
	assert.Equal(t, 10.0, Sum([]float64{1, 2, 3, 4}))
	assert.Equal(t, 0.0, Sum(nil))

	assert.Equal(t, 4.0, Mode([]float64{3, 4, 4, 24}))
	// ties resolve to the smallest code
	assert.Equal(t, 3.0, Mode([]float64{24, 3, 24, 3}))
	assert.True(t, math.IsNaN(Mode(nil)))
}

func TestCountSelect(t *testing.T) {
	good := []bool{true, false, true, true}
	assert.Equal(t, 3, Count(good))
	assert.Equal(t, []float64{1, 3, 4}, Select([]float64{1, 2, 3, 4}, good))
	assert.Empty(t, Select([]float64{1}, []bool{false}))
}

func TestHeightUncertStd(t *testing.T) {
	x := []float64{1, 2, 3, 4, 100}
	good := []bool{true, true, true, true, false}
	rare := []float64{4, 4, 4, 4, 4}
	med := []float64{1, 1, 1, 1, 1}

	// sample std of 1..4 is sqrt(5/3); 16 rare looks over 1 medium look
	want := math.Sqrt(5.0/3.0) / 4
	assert.InDelta(t, want, HeightUncertStd(x, good, rare, med), 1e-12)

	// fewer independent looks than one leaves the std unscaled
	want = math.Sqrt(5.0 / 3.0)
	assert.InDelta(t, want, HeightUncertStd(x, good, []float64{0.1, 0.1, 0.1, 0.1, 0}, med), 1e-12)

	assert.True(t, math.IsNaN(HeightUncertStd(x, []bool{true, false, false, false, false}, rare, med)))
}
