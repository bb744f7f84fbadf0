package aggregate

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedTrack struct {
	plus, minus []r3.Vector
}

func (f fixedTrack) Len() int               { return len(f.plus) }
func (f fixedTrack) PlusY(i int) r3.Vector  { return f.plus[i] }
func (f fixedTrack) MinusY(i int) r3.Vector { return f.minus[i] }

func TestSensorIndex(t *testing.T) {
	tvp := []float64{0, 10, 20, 30}
	got := SensorIndex([]float64{-5, 0, 4, 5, 6, 29, 31, math.NaN()}, tvp)
	assert.Equal(t, []int{0, 0, 0, 0, 1, 3, 3, -1}, got)

	assert.Equal(t, []int{-1, -1}, SensorIndex([]float64{1, 2}, nil))
}

func TestFlattenInterferogram(t *testing.T) {
	wavelength := 0.0084
	track := fixedTrack{
		plus:  []r3.Vector{{X: 0, Y: 5, Z: 800e3}},
		minus: []r3.Vector{{X: 0, Y: -5, Z: 800e3}},
	}
	target := []r3.Vector{{X: 1000, Y: 20e3, Z: 0}, {X: 0, Y: 0, Z: 0}}

	rp := target[0].Sub(track.plus[0]).Norm()
	rm := target[0].Sub(track.minus[0]).Norm()
	phase := 2 * math.Pi / wavelength * (rp - rm)
	raw := cmplx.Rect(2, phase)

	flat := FlattenInterferogram([]complex128{raw, complex(1, 1)}, track, target, []int{0, -1}, wavelength)
	require.Len(t, flat, 2)
	assert.InDelta(t, 2.0, real(flat[0]), 1e-6)
	assert.InDelta(t, 0.0, imag(flat[0]), 1e-6)
	// no sensor sample: untouched
	assert.Equal(t, complex(1, 1), flat[1])
}

func TestFlattenInterferogramSymmetricTarget(t *testing.T) {
	track := fixedTrack{
		plus:  []r3.Vector{{Y: 5, Z: 800e3}},
		minus: []r3.Vector{{Y: -5, Z: 800e3}},
	}
	// equidistant from both antennas: zero reference phase
	flat := FlattenInterferogram([]complex128{complex(0.3, 0.4)}, track, []r3.Vector{{}}, []int{0}, 0.0084)
	assert.InDelta(t, 0.3, real(flat[0]), 1e-12)
	assert.InDelta(t, 0.4, imag(flat[0]), 1e-12)
}
