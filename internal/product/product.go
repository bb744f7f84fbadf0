// Package product assembles rasterization results into the output water
// raster product and writes it in the supported formats.
package product

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/water.raster/internal/crs"
	"github.com/banshee-data/water.raster/internal/pixc"
	"github.com/banshee-data/water.raster/internal/raster"
	"github.com/banshee-data/water.raster/internal/timeutil"
	"github.com/banshee-data/water.raster/internal/version"
)

// Fill values written for no-data cells.
const (
	FillFloat          = 9.969209968386869e36
	FillCount          = 4294967295
	FillClassification = 255
)

// ErrUnknownChannel is returned when a product does not carry the
// requested channel.
var ErrUnknownChannel = errors.New("unknown channel")

// FillValue returns the fill value of the named channel.
func FillValue(name string) float64 {
	switch name {
	case raster.ChannelNWSEPix, raster.ChannelNAreaPix:
		return FillCount
	case raster.ChannelClassification:
		return FillClassification
	}
	return FillFloat
}

var channelUnits = map[string]string{
	raster.ChannelLatitude:            "degrees_north",
	raster.ChannelLongitude:           "degrees_east",
	raster.ChannelWSE:                 "m",
	raster.ChannelWSEUncert:           "m",
	raster.ChannelWaterArea:           "m^2",
	raster.ChannelWaterAreaUncert:     "m^2",
	raster.ChannelWaterFrac:           "1",
	raster.ChannelWaterFracUncert:     "1",
	raster.ChannelSig0:                "1",
	raster.ChannelSig0Uncert:          "1",
	raster.ChannelInc:                 "degrees",
	raster.ChannelCrossTrack:          "m",
	raster.ChannelIlluminationTime:    "s",
	raster.ChannelIlluminationTimeTAI: "s",
	raster.ChannelNWSEPix:             "1",
	raster.ChannelNAreaPix:            "1",
	raster.ChannelDarkFrac:            "1",
	raster.ChannelGeoid:               "m",
	raster.ChannelSolidEarthTide:      "m",
	raster.ChannelLoadTideSol1:        "m",
	raster.ChannelLoadTideSol2:        "m",
	raster.ChannelPoleTide:            "m",
	raster.ChannelModelDryTropoCor:    "m",
	raster.ChannelModelWetTropoCor:    "m",
	raster.ChannelIonoCorGimKa:        "m",
	raster.ChannelClassification:      "1",
}

// Raster is the water raster product. Projection and Debug select the
// channel set and coordinate names: x/y in metres for utm,
// longitude/latitude in degrees for geo.
type Raster struct {
	Projection raster.Projection `json:"projection"`
	Debug      bool              `json:"debug"`
	Metadata   Metadata          `json:"metadata"`

	XName string    `json:"x_name"`
	YName string    `json:"y_name"`
	X     []float64 `json:"x"`
	Y     []float64 `json:"y"`

	Channels []Channel `json:"channels"`
}

// Channel is one product variable, row-major SizeY×SizeX. No-data cells
// hold FillValue.
type Channel struct {
	Name      string    `json:"name"`
	Units     string    `json:"units,omitempty"`
	FillValue float64   `json:"fill_value"`
	Data      []float64 `json:"data"`
}

// Metadata are the global attributes of a product.
type Metadata struct {
	History         string `json:"history"`
	ProducerVersion string `json:"producer_version"`

	CycleNumber       int    `json:"cycle_number"`
	PassNumber        int    `json:"pass_number"`
	TileNumbers       []int  `json:"tile_numbers,omitempty"`
	TileNames         string `json:"tile_names,omitempty"`
	TilePolarizations string `json:"tile_polarizations,omitempty"`
	TimeCoverageStart string `json:"time_coverage_start,omitempty"`
	TimeCoverageEnd   string `json:"time_coverage_end,omitempty"`

	GeospatialLonMin float64    `json:"geospatial_lon_min"`
	GeospatialLonMax float64    `json:"geospatial_lon_max"`
	GeospatialLatMin float64    `json:"geospatial_lat_min"`
	GeospatialLatMax float64    `json:"geospatial_lat_max"`
	LeftFirst        crs.LatLon `json:"left_first"`
	LeftLast         crs.LatLon `json:"left_last"`
	RightFirst       crs.LatLon `json:"right_first"`
	RightLast        crs.LatLon `json:"right_last"`

	Resolution float64 `json:"resolution"`
	XMin       float64 `json:"x_min"`
	XMax       float64 `json:"x_max"`
	YMin       float64 `json:"y_min"`
	YMax       float64 `json:"y_max"`
	SizeX      int     `json:"size_x"`
	SizeY      int     `json:"size_y"`
	UTM        *UTM    `json:"utm,omitempty"`

	CRSName       string `json:"crs_name"`
	CRSDefinition string `json:"crs_definition"`

	// TAIUTCDifference is FillFloat when no cell carries both times.
	TAIUTCDifference float64 `json:"tai_utc_difference"`
}

// UTM describes the projection of a utm product.
type UTM struct {
	Zone            int     `json:"zone"`
	Band            string  `json:"mgrs_latitude_band"`
	Hemisphere      string  `json:"hemisphere"`
	FalseEasting    float64 `json:"false_easting"`
	FalseNorthing   float64 `json:"false_northing"`
	CentralMeridian float64 `json:"central_meridian"`
}

// Assemble builds the product of res. Scene attributes come from meta and
// the creation date from clock.
func Assemble(res *raster.Result, meta pixc.Metadata, clock timeutil.Clock) *Raster {
	g := res.Grid
	p := &Raster{
		Projection: g.Projection,
		Debug:      res.Debug,
		Metadata:   newMetadata(g, meta, clock),
		X:          linspace(g.XMin, g.XMax, g.SizeX),
		Y:          linspace(g.YMin, g.YMax, g.SizeY),
	}
	p.XName, p.YName = "x", "y"
	if g.Projection == raster.ProjectionGeo {
		p.XName, p.YName = "longitude", "latitude"
	}
	p.Metadata.TAIUTCDifference = FillFloat
	if !math.IsNaN(res.TAIUTCDifference) {
		p.Metadata.TAIUTCDifference = res.TAIUTCDifference
	}

	for _, l := range res.Channels() {
		fill := FillValue(l.Name)
		data := make([]float64, len(l.Values))
		for k, v := range l.Values {
			if l.Valid[k] {
				data[k] = v
			} else {
				data[k] = fill
			}
		}
		p.Channels = append(p.Channels, Channel{
			Name:      l.Name,
			Units:     channelUnits[l.Name],
			FillValue: fill,
			Data:      data,
		})
	}
	return p
}

// Empty returns the all-fill product on grid g.
func Empty(g *raster.GridDescriptor, debug bool, meta pixc.Metadata, clock timeutil.Clock) *Raster {
	return Assemble(raster.NewResult(g, debug), meta, clock)
}

func newMetadata(g *raster.GridDescriptor, meta pixc.Metadata, clock timeutil.Clock) Metadata {
	m := Metadata{
		History:           clock.Now().UTC().Format("2006-01-02T15:04:05Z") + " : Creation",
		ProducerVersion:   version.Version,
		CycleNumber:       meta.CycleNumber,
		PassNumber:        meta.PassNumber,
		TileNumbers:       meta.TileNumbers,
		TileNames:         meta.TileNames,
		TilePolarizations: meta.TilePolarizations,
		TimeCoverageStart: meta.TimeCoverageStart,
		TimeCoverageEnd:   meta.TimeCoverageEnd,
		GeospatialLonMin:  meta.GeospatialLonMin,
		GeospatialLonMax:  meta.GeospatialLonMax,
		GeospatialLatMin:  meta.GeospatialLatMin,
		GeospatialLatMax:  meta.GeospatialLatMax,
		LeftFirst:         meta.LeftFirst,
		LeftLast:          meta.LeftLast,
		RightFirst:        meta.RightFirst,
		RightLast:         meta.RightLast,
		Resolution:        g.Resolution,
		XMin:              g.XMin,
		XMax:              g.XMax,
		YMin:              g.YMin,
		YMax:              g.YMax,
		SizeX:             g.SizeX,
		SizeY:             g.SizeY,
		CRSName:           g.System.Name(),
		CRSDefinition:     g.System.Definition(),
	}
	if utm, ok := g.System.(*crs.UTM); ok {
		m.UTM = &UTM{
			Zone:            utm.Zone,
			Band:            string(utm.Band),
			Hemisphere:      string(g.Hemisphere),
			FalseEasting:    utm.FalseEasting(),
			FalseNorthing:   utm.FalseNorthing(),
			CentralMeridian: utm.CentralMeridian(),
		}
	}
	return m
}

// linspace returns n evenly spaced values from lo to hi inclusive.
func linspace(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// Channel returns the named channel, or nil.
func (r *Raster) Channel(name string) *Channel {
	for i := range r.Channels {
		if r.Channels[i].Name == name {
			return &r.Channels[i]
		}
	}
	return nil
}

// Value returns the value of channel name at row i, column j, with ok
// false for fill cells.
func (r *Raster) Value(name string, i, j int) (v float64, ok bool, err error) {
	c := r.Channel(name)
	if c == nil {
		return 0, false, fmt.Errorf("%w: %s", ErrUnknownChannel, name)
	}
	if i < 0 || j < 0 || i >= r.Metadata.SizeY || j >= r.Metadata.SizeX {
		return 0, false, fmt.Errorf("cell (%d, %d) outside %dx%d grid", i, j, r.Metadata.SizeY, r.Metadata.SizeX)
	}
	v = c.Data[i*r.Metadata.SizeX+j]
	return v, v != c.FillValue, nil
}

// Validate checks that every channel covers the grid.
func (r *Raster) Validate() error {
	n := r.Metadata.SizeX * r.Metadata.SizeY
	if len(r.X) != r.Metadata.SizeX || len(r.Y) != r.Metadata.SizeY {
		return fmt.Errorf("coordinates have %d×%d entries, grid is %d×%d", len(r.X), len(r.Y), r.Metadata.SizeX, r.Metadata.SizeY)
	}
	for _, c := range r.Channels {
		if len(c.Data) != n {
			return fmt.Errorf("channel %s has %d cells, want %d", c.Name, len(c.Data), n)
		}
	}
	return nil
}

// IsEmpty reports whether every channel is fill.
func (r *Raster) IsEmpty() bool {
	for _, c := range r.Channels {
		for _, v := range c.Data {
			if v != c.FillValue {
				return false
			}
		}
	}
	return true
}
