package crs

import (
	"fmt"

	"github.com/ctessum/geom/proj"
)

// System transforms between geodetic coordinates (degrees) and the
// planar coordinates of a grid.
type System interface {
	Forward(lat, lon float64) (x, y float64, err error)
	Inverse(x, y float64) (lat, lon float64, err error)
	// Name is a human-readable CRS name.
	Name() string
	// Definition is the PROJ definition string of the system.
	Definition() string
}

const wgs84Def = "+proj=longlat +datum=WGS84 +no_defs"

// UTM is a fixed-zone Universal Transverse Mercator system on WGS84.
// Points are always projected into the configured zone, even when they
// fall outside it.
type UTM struct {
	Zone int
	Band byte

	def string
	fwd proj.Transformer
	inv proj.Transformer
}

// NewUTM builds the UTM system for zone and the hemisphere implied by band.
func NewUTM(zone int, band byte) (*UTM, error) {
	if zone < 1 || zone > NumZones {
		return nil, fmt.Errorf("utm zone %d out of range", zone)
	}
	def := fmt.Sprintf("+proj=utm +zone=%d +datum=WGS84 +units=m +no_defs", zone)
	if Hemisphere(band) == 'S' {
		def = fmt.Sprintf("+proj=utm +zone=%d +south +datum=WGS84 +units=m +no_defs", zone)
	}

	utmSR, err := proj.Parse(def)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", def, err)
	}
	geoSR, err := proj.Parse(wgs84Def)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", wgs84Def, err)
	}
	fwd, err := geoSR.NewTransform(utmSR)
	if err != nil {
		return nil, fmt.Errorf("utm forward transform: %w", err)
	}
	inv, err := utmSR.NewTransform(geoSR)
	if err != nil {
		return nil, fmt.Errorf("utm inverse transform: %w", err)
	}
	return &UTM{Zone: zone, Band: band, def: def, fwd: fwd, inv: inv}, nil
}

// Forward projects (lat, lon) to easting/northing in metres.
func (u *UTM) Forward(lat, lon float64) (x, y float64, err error) {
	return u.fwd(lon, lat)
}

// Inverse returns the geodetic position of an easting/northing.
func (u *UTM) Inverse(x, y float64) (lat, lon float64, err error) {
	lon, lat, err = u.inv(x, y)
	return lat, lon, err
}

func (u *UTM) Name() string {
	return fmt.Sprintf("WGS 84 / UTM zone %d%c", u.Zone, Hemisphere(u.Band))
}

func (u *UTM) Definition() string { return u.def }

// FalseEasting is the easting of the central meridian.
func (u *UTM) FalseEasting() float64 { return 500000 }

// FalseNorthing is 0 in the northern hemisphere and 10 000 km in the south.
func (u *UTM) FalseNorthing() float64 {
	if Hemisphere(u.Band) == 'S' {
		return 10000000
	}
	return 0
}

// CentralMeridian is the longitude of the zone's central meridian in degrees.
func (u *UTM) CentralMeridian() float64 {
	return float64(6*u.Zone - 183)
}

// Geographic is the identity system on WGS84 longitude/latitude: x is
// longitude and y is latitude, both in degrees.
type Geographic struct{}

func (Geographic) Forward(lat, lon float64) (x, y float64, err error) { return lon, lat, nil }
func (Geographic) Inverse(x, y float64) (lat, lon float64, err error) { return y, x, nil }
func (Geographic) Name() string                                     { return "WGS 84" }
func (Geographic) Definition() string                               { return wgs84Def }

// LatLon is a geodetic position in degrees.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
