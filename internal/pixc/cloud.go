// Package pixc holds the geolocated radar pixel cloud consumed by the
// rasterizer, its on-disk JSON form, and the per-point validity and
// classification rules.
package pixc

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"github.com/banshee-data/water.raster/internal/crs"
)

// ErrLengthMismatch is returned when a per-point channel does not have one
// entry per pixel.
var ErrLengthMismatch = errors.New("channel length mismatch")

// ErrUnsortedTrack is returned when sensor track times are not ascending.
var ErrUnsortedTrack = errors.New("sensor track times not ascending")

// PixelCloud holds parallel per-point channels. Every non-nil channel has
// Len() entries. Missing samples are NaN.
type PixelCloud struct {
	Latitude            Float64s `json:"latitude"`
	Longitude           Float64s `json:"longitude"`
	Height              Float64s `json:"height"`
	Classification      Float64s `json:"classification"`
	PixelArea           Float64s `json:"pixel_area"`
	WaterFrac           Float64s `json:"water_frac"`
	WaterFracUncert     Float64s `json:"water_frac_uncert"`
	DareaDheight        Float64s `json:"darea_dheight"`
	FalseDetectionRate  Float64s `json:"false_detection_rate"`
	MissedDetectionRate Float64s `json:"missed_detection_rate"`

	InterferogramReal Float64s `json:"interferogram_real"`
	InterferogramImag Float64s `json:"interferogram_imag"`
	PowerPlusY        Float64s `json:"power_plus_y"`
	PowerMinusY       Float64s `json:"power_minus_y"`
	DheightDphase     Float64s `json:"dheight_dphase"`
	DlatitudeDphase   Float64s `json:"dlatitude_dphase"`
	DlongitudeDphase  Float64s `json:"dlongitude_dphase"`
	PhaseNoiseStd     Float64s `json:"phase_noise_std"`
	EffNumRareLooks   Float64s `json:"eff_num_rare_looks"`
	EffNumMediumLooks Float64s `json:"eff_num_medium_looks"`

	Sig0                Float64s `json:"sig0"`
	Inc                 Float64s `json:"inc"`
	CrossTrack          Float64s `json:"cross_track"`
	IlluminationTime    Float64s `json:"illumination_time"`
	IlluminationTimeTAI Float64s `json:"illumination_time_tai"`

	Geoid            Float64s `json:"geoid"`
	SolidEarthTide   Float64s `json:"solid_earth_tide"`
	LoadTideSol1     Float64s `json:"load_tide_sol1"`
	LoadTideSol2     Float64s `json:"load_tide_sol2"`
	PoleTide         Float64s `json:"pole_tide"`
	ModelDryTropoCor Float64s `json:"model_dry_tropo_cor"`
	ModelWetTropoCor Float64s `json:"model_wet_tropo_cor"`
	IonoCorGimKa     Float64s `json:"iono_cor_gim_ka"`

	TVP  TVP      `json:"tvp"`
	Meta Metadata `json:"metadata"`
}

// TVP is the sensor track: antenna phase-centre positions (ECEF metres)
// sampled at Time.
type TVP struct {
	Time           Float64s `json:"time"`
	PlusYAntennaX  Float64s `json:"plus_y_antenna_x"`
	PlusYAntennaY  Float64s `json:"plus_y_antenna_y"`
	PlusYAntennaZ  Float64s `json:"plus_y_antenna_z"`
	MinusYAntennaX Float64s `json:"minus_y_antenna_x"`
	MinusYAntennaY Float64s `json:"minus_y_antenna_y"`
	MinusYAntennaZ Float64s `json:"minus_y_antenna_z"`
}

// Len is the number of track samples.
func (t *TVP) Len() int { return len(t.Time) }

// PlusY returns the plus-y antenna position of sample i.
func (t *TVP) PlusY(i int) r3.Vector {
	return r3.Vector{X: t.PlusYAntennaX[i], Y: t.PlusYAntennaY[i], Z: t.PlusYAntennaZ[i]}
}

// MinusY returns the minus-y antenna position of sample i.
func (t *TVP) MinusY(i int) r3.Vector {
	return r3.Vector{X: t.MinusYAntennaX[i], Y: t.MinusYAntennaY[i], Z: t.MinusYAntennaZ[i]}
}

// Metadata carries the scene attributes copied into the raster product.
type Metadata struct {
	CycleNumber       int    `json:"cycle_number"`
	PassNumber        int    `json:"pass_number"`
	TileNumbers       []int  `json:"tile_numbers,omitempty"`
	TileNames         string `json:"tile_names,omitempty"`
	TilePolarizations string `json:"tile_polarizations,omitempty"`
	TimeCoverageStart string `json:"time_coverage_start,omitempty"`
	TimeCoverageEnd   string `json:"time_coverage_end,omitempty"`

	GeospatialLonMin float64 `json:"geospatial_lon_min"`
	GeospatialLonMax float64 `json:"geospatial_lon_max"`
	GeospatialLatMin float64 `json:"geospatial_lat_min"`
	GeospatialLatMax float64 `json:"geospatial_lat_max"`

	LeftFirst  crs.LatLon `json:"left_first"`
	LeftLast   crs.LatLon `json:"left_last"`
	RightFirst crs.LatLon `json:"right_first"`
	RightLast  crs.LatLon `json:"right_last"`

	Wavelength      float64 `json:"wavelength"`
	LooksToEfflooks float64 `json:"looks_to_efflooks"`
}

// BoundingCorners returns the scene bounding box as lower-left,
// lower-right, upper-right, upper-left.
func (m *Metadata) BoundingCorners() [4]crs.LatLon {
	return [4]crs.LatLon{
		{Lat: m.GeospatialLatMin, Lon: m.GeospatialLonMin},
		{Lat: m.GeospatialLatMin, Lon: m.GeospatialLonMax},
		{Lat: m.GeospatialLatMax, Lon: m.GeospatialLonMax},
		{Lat: m.GeospatialLatMax, Lon: m.GeospatialLonMin},
	}
}

// Len is the number of pixels.
func (p *PixelCloud) Len() int { return len(p.Latitude) }

// Interferogram returns the complex interferogram sample of pixel i.
func (p *PixelCloud) Interferogram(i int) complex128 {
	return complex(p.InterferogramReal[i], p.InterferogramImag[i])
}

// WithGeolocation returns a shallow copy of p whose latitude, longitude and
// height are replaced. The caller guarantees the slices have p.Len() entries.
func (p *PixelCloud) WithGeolocation(lat, lon, height []float64) *PixelCloud {
	out := *p
	out.Latitude = Float64s(lat)
	out.Longitude = Float64s(lon)
	out.Height = Float64s(height)
	return &out
}

// corrections are the channels that default to zero when absent.
func (p *PixelCloud) corrections() []*Float64s {
	return []*Float64s{
		&p.Geoid, &p.SolidEarthTide, &p.LoadTideSol1, &p.LoadTideSol2,
		&p.PoleTide, &p.ModelDryTropoCor, &p.ModelWetTropoCor, &p.IonoCorGimKa,
	}
}

func (p *PixelCloud) measurements() []*Float64s {
	return []*Float64s{
		&p.Longitude, &p.Height, &p.Classification, &p.PixelArea,
		&p.WaterFrac, &p.WaterFracUncert, &p.DareaDheight,
		&p.FalseDetectionRate, &p.MissedDetectionRate,
		&p.InterferogramReal, &p.InterferogramImag,
		&p.PowerPlusY, &p.PowerMinusY,
		&p.DheightDphase, &p.DlatitudeDphase, &p.DlongitudeDphase,
		&p.PhaseNoiseStd, &p.EffNumRareLooks, &p.EffNumMediumLooks,
		&p.Sig0, &p.Inc, &p.CrossTrack,
		&p.IlluminationTime, &p.IlluminationTimeTAI,
	}
}

// Normalize checks that every present channel has Len() entries and fills
// absent ones: corrections with zeros, everything else with NaN. The track
// channels must all match the length of TVP.Time, and the times must be
// ascending.
func (p *PixelCloud) Normalize() error {
	n := p.Len()
	if p.Latitude == nil {
		p.Latitude = Float64s{}
	}
	for _, ch := range p.measurements() {
		if *ch == nil {
			*ch = filled(n, math.NaN())
			continue
		}
		if len(*ch) != n {
			return fmt.Errorf("%w: got %d values for %d pixels", ErrLengthMismatch, len(*ch), n)
		}
	}
	for _, ch := range p.corrections() {
		if *ch == nil {
			*ch = make(Float64s, n)
			continue
		}
		if len(*ch) != n {
			return fmt.Errorf("%w: correction has %d values for %d pixels", ErrLengthMismatch, len(*ch), n)
		}
	}

	m := p.TVP.Len()
	for _, ch := range []*Float64s{
		&p.TVP.PlusYAntennaX, &p.TVP.PlusYAntennaY, &p.TVP.PlusYAntennaZ,
		&p.TVP.MinusYAntennaX, &p.TVP.MinusYAntennaY, &p.TVP.MinusYAntennaZ,
	} {
		if *ch == nil {
			*ch = filled(m, math.NaN())
			continue
		}
		if len(*ch) != m {
			return fmt.Errorf("%w: tvp channel has %d values for %d samples", ErrLengthMismatch, len(*ch), m)
		}
	}
	for i := 1; i < m; i++ {
		if !(p.TVP.Time[i] >= p.TVP.Time[i-1]) {
			return fmt.Errorf("%w: sample %d at %g follows %g", ErrUnsortedTrack, i, p.TVP.Time[i], p.TVP.Time[i-1])
		}
	}
	return nil
}
