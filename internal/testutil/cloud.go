package testutil

import (
	"math"

	"github.com/banshee-data/water.raster/internal/pixc"
)

// Pixel is the geolocation and class of one synthetic pixel.
type Pixel struct {
	Lat, Lon, Height float64
	Class            float64
}

// Default per-pixel values of synthetic clouds.
const (
	DefaultPixelArea     = 100.0
	DefaultPhaseNoiseStd = 0.1
	DefaultSig0          = 10.0
	DefaultWavelength    = 0.008385803020979
	DefaultIllumTime     = 1000.0
	DefaultTAIOffset     = 37.0
)

// NewCloud builds a normalized pixel cloud with one pixel per entry and
// plausible values in every other channel. The scene bounds are the
// extent of the pixels. There is no sensor track, so the interferogram is
// used unflattened.
func NewCloud(pixels []Pixel) *pixc.PixelCloud {
	n := len(pixels)
	pc := &pixc.PixelCloud{
		Latitude:       make(pixc.Float64s, n),
		Longitude:      make(pixc.Float64s, n),
		Height:         make(pixc.Float64s, n),
		Classification: make(pixc.Float64s, n),

		PixelArea:           constant(n, DefaultPixelArea),
		WaterFrac:           constant(n, 1),
		WaterFracUncert:     constant(n, 0.1),
		DareaDheight:        constant(n, 0),
		FalseDetectionRate:  constant(n, 0.01),
		MissedDetectionRate: constant(n, 0.01),

		InterferogramReal: constant(n, 1),
		InterferogramImag: constant(n, 0),
		PowerPlusY:        constant(n, 1),
		PowerMinusY:       constant(n, 1),
		DheightDphase:     constant(n, 1),
		DlatitudeDphase:   constant(n, 1e-6),
		DlongitudeDphase:  constant(n, 1e-6),
		PhaseNoiseStd:     constant(n, DefaultPhaseNoiseStd),
		EffNumRareLooks:   constant(n, 4),
		EffNumMediumLooks: constant(n, 1),

		Sig0:                constant(n, DefaultSig0),
		Inc:                 constant(n, 0.05),
		CrossTrack:          constant(n, 10000),
		IlluminationTime:    constant(n, DefaultIllumTime),
		IlluminationTimeTAI: constant(n, DefaultIllumTime+DefaultTAIOffset),

		Meta: pixc.Metadata{
			CycleNumber:     1,
			PassNumber:      2,
			Wavelength:      DefaultWavelength,
			LooksToEfflooks: 1,
		},
	}
	for i, p := range pixels {
		pc.Latitude[i] = p.Lat
		pc.Longitude[i] = p.Lon
		pc.Height[i] = p.Height
		pc.Classification[i] = p.Class
	}
	FitBounds(pc)
	if err := pc.Normalize(); err != nil {
		panic(err)
	}
	return pc
}

// FitBounds sets the scene bounds to the extent of the finite pixel
// positions.
func FitBounds(pc *pixc.PixelCloud) {
	latMin, latMax := math.Inf(1), math.Inf(-1)
	lonMin, lonMax := math.Inf(1), math.Inf(-1)
	for i := range pc.Latitude {
		lat, lon := pc.Latitude[i], pc.Longitude[i]
		if math.IsNaN(lat) || math.IsNaN(lon) {
			continue
		}
		latMin, latMax = math.Min(latMin, lat), math.Max(latMax, lat)
		lonMin, lonMax = math.Min(lonMin, lon), math.Max(lonMax, lon)
	}
	if math.IsInf(latMin, 0) {
		latMin, latMax, lonMin, lonMax = 0, 0, 0, 0
	}
	SetBounds(pc, latMin, latMax, lonMin, lonMax)
}

// SetBounds sets the scene bounding box.
func SetBounds(pc *pixc.PixelCloud, latMin, latMax, lonMin, lonMax float64) {
	pc.Meta.GeospatialLatMin = latMin
	pc.Meta.GeospatialLatMax = latMax
	pc.Meta.GeospatialLonMin = lonMin
	pc.Meta.GeospatialLonMax = lonMax
}

// Grid returns rows×cols pixels spaced step degrees apart from (lat0, lon0),
// all with the given class and height.
func Grid(lat0, lon0, step float64, rows, cols int, class, height float64) []Pixel {
	out := make([]Pixel, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out = append(out, Pixel{
				Lat:    lat0 + float64(r)*step,
				Lon:    lon0 + float64(c)*step,
				Height: height,
				Class:  class,
			})
		}
	}
	return out
}

func constant(n int, v float64) pixc.Float64s {
	out := make(pixc.Float64s, n)
	for i := range out {
		out[i] = v
	}
	return out
}
