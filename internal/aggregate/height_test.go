package aggregate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPixelHeightStd(t *testing.T) {
	tests := []struct {
		name          string
		noise, dhDphi float64
		want          float64
	}{
		{"normal", 0.1, -20, 2},
		{"zero", 0, 5, BadHeightStd},
		{"nan", math.NaN(), 5, BadHeightStd},
		{"inf", math.Inf(1), 5, BadHeightStd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PixelHeightStd(tt.noise, tt.dhDphi), 1e-12)
		})
	}
}

func uniformInputs(heights []float64, std []float64) HeightInputs {
	n := len(heights)
	in := HeightInputs{
		Height:          heights,
		Good:            make([]bool, n),
		RareLooks:       make([]float64, n),
		MediumLooks:     make([]float64, n),
		FlatIfgram:      make([]complex128, n),
		PowerMinusY:     make([]float64, n),
		PowerPlusY:      make([]float64, n),
		DhDphi:          make([]float64, n),
		DlatDphi:        make([]float64, n),
		DlonDphi:        make([]float64, n),
		HeightStd:       std,
		LooksToEfflooks: 1,
	}
	for i := range heights {
		in.Good[i] = true
		in.RareLooks[i] = 4
		in.MediumLooks[i] = 1
		in.FlatIfgram[i] = complex(0.8, 0)
		in.PowerMinusY[i] = 1
		in.PowerPlusY[i] = 1
		in.DhDphi[i] = 10
		in.DlatDphi[i] = 1e-4
		in.DlonDphi[i] = -2e-4
	}
	return in
}

func TestHeightWithUncertsSimpleMean(t *testing.T) {
	in := uniformInputs([]float64{1, 2, 3, 6}, []float64{1, 1, 1, 1})
	res := HeightWithUncerts(in, HeightSimple)
	require.Equal(t, 4, res.Count)
	assert.InDelta(t, 3.0, res.Height, 1e-12)

	// coherence 0.8 over 16 looks
	phaseStd := math.Sqrt((1 - 0.64) / (2 * 16 * 0.64))
	assert.InDelta(t, phaseStd*10, res.Uncert, 1e-12)
	assert.InDelta(t, phaseStd*1e-4, res.LatUncert, 1e-16)
	assert.InDelta(t, phaseStd*2e-4, res.LonUncert, 1e-16)
}

func TestHeightWithUncertsWeighted(t *testing.T) {
	in := uniformInputs([]float64{10, 20}, []float64{1, 2})
	res := HeightWithUncerts(in, HeightWeighted)
	// weights 1 and 1/4
	assert.InDelta(t, (10*1+20*0.25)/1.25, res.Height, 1e-12)

	simple := HeightWithUncerts(in, HeightSimple)
	assert.InDelta(t, 15.0, simple.Height, 1e-12)
}

func TestHeightWithUncertsDeweightsBadPixels(t *testing.T) {
	in := uniformInputs([]float64{5, 1000}, []float64{0.5, BadHeightStd})
	res := HeightWithUncerts(in, HeightWeighted)
	assert.InDelta(t, 5.0, res.Height, 1e-4)
}

func TestHeightWithUncertsNoGood(t *testing.T) {
	in := uniformInputs([]float64{5, 6}, []float64{1, 1})
	in.Good = []bool{false, false}
	res := HeightWithUncerts(in, HeightWeighted)
	assert.Equal(t, 0, res.Count)
	assert.True(t, math.IsNaN(res.Height))
	assert.True(t, math.IsNaN(res.Uncert))
}

func TestHeightWithUncertsGoodSubset(t *testing.T) {
	in := uniformInputs([]float64{5, 6, 700}, []float64{1, 1, 1})
	in.Good[2] = false
	res := HeightWithUncerts(in, HeightSimple)
	assert.Equal(t, 2, res.Count)
	assert.InDelta(t, 5.5, res.Height, 1e-12)
}

func TestHeightWithUncertsZeroCoherence(t *testing.T) {
	in := uniformInputs([]float64{5, 6}, []float64{1, 1})
	in.FlatIfgram = []complex128{complex(1, 0), complex(-1, 0)}
	res := HeightWithUncerts(in, HeightSimple)
	assert.InDelta(t, 5.5, res.Height, 1e-12)
	assert.True(t, math.IsInf(res.Uncert, 1), "zero coherence gives unbounded uncertainty")
}
