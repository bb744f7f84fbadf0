package aggregate

import (
	"math"
	"math/cmplx"
	"sort"

	"github.com/golang/geo/r3"
)

// Track gives the two antenna phase-centre positions of a sensor sample.
type Track interface {
	Len() int
	PlusY(i int) r3.Vector
	MinusY(i int) r3.Vector
}

// SensorIndex returns, for every illumination time, the index of the
// nearest track time. tvpTime must be ascending (pixc.Normalize checks
// it). All indices are -1 when the track is empty or a time is NaN.
func SensorIndex(illumTime, tvpTime []float64) []int {
	idx := make([]int, len(illumTime))
	for i, t := range illumTime {
		if len(tvpTime) == 0 || math.IsNaN(t) {
			idx[i] = -1
			continue
		}
		k := sort.SearchFloat64s(tvpTime, t)
		switch {
		case k == 0:
		case k == len(tvpTime):
			k = len(tvpTime) - 1
		case t-tvpTime[k-1] <= tvpTime[k]-t:
			k--
		}
		idx[i] = k
	}
	return idx
}

// FlattenInterferogram removes the reference phase of each target from
// the interferogram: the two-way range difference between the target and
// the two antennas at the pixel's sensor sample. Pixels with no sensor
// sample keep their raw interferogram.
func FlattenInterferogram(ifgram []complex128, track Track, target []r3.Vector, sensorIdx []int, wavelength float64) []complex128 {
	flat := make([]complex128, len(ifgram))
	k := 2 * math.Pi / wavelength
	for i, z := range ifgram {
		s := sensorIdx[i]
		if s < 0 || s >= track.Len() || wavelength == 0 {
			flat[i] = z
			continue
		}
		rangePlus := target[i].Sub(track.PlusY(s)).Norm()
		rangeMinus := target[i].Sub(track.MinusY(s)).Norm()
		phase := k * (rangePlus - rangeMinus)
		flat[i] = z * cmplx.Exp(complex(0, -phase))
	}
	return flat
}
