// Package geoloc refines pixel geolocation against a coarse water raster.
package geoloc

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/water.raster/internal/config"
	"github.com/banshee-data/water.raster/internal/monitoring"
	"github.com/banshee-data/water.raster/internal/pixc"
	"github.com/banshee-data/water.raster/internal/raster"
)

// ErrUnknownMethod is returned by NewRefiner for an unsupported method name.
var ErrUnknownMethod = errors.New("unknown improved geolocation method")

// NewRefiner returns the refiner for method. "none" returns a nil
// refiner, which disables the coarse pass.
func NewRefiner(method string) (raster.GeolocRefiner, error) {
	switch method {
	case config.GeolocTaylor:
		return TaylorRefiner{}, nil
	case config.GeolocNone:
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
}

// TaylorRefiner moves every pixel along its phase-derivative direction so
// that its height matches the coarse raster's ellipsoid height at the
// pixel's cell, to first order:
//
//	Δh = h_cell - h
//	Δφ = Δh / (dh/dφ)
//	lat += (dlat/dφ)·Δφ, lon += (dlon/dφ)·Δφ, h += Δh
//
// Invalid pixels, pixels in no-data cells and pixels with an unusable
// height sensitivity keep their measured geolocation.
type TaylorRefiner struct{}

// Refine implements raster.GeolocRefiner.
func (TaylorRefiner) Refine(pc *pixc.PixelCloud, coarse *raster.Result) (lat, lon, height []float64, err error) {
	n := pc.Len()
	lat = append([]float64(nil), pc.Latitude...)
	lon = append([]float64(nil), pc.Longitude...)
	height = append([]float64(nil), pc.Height...)

	g := coarse.Grid
	valid := pixc.ValidMask(pc)
	moved := 0
	for p := 0; p < n; p++ {
		if !valid[p] {
			continue
		}
		i, j, ok := g.Locate(pc.Latitude[p], pc.Longitude[p])
		if !ok {
			continue
		}
		target, ok := coarse.EllipsoidHeight(g.Idx(i, j))
		if !ok {
			continue
		}
		dhdphi := pc.DheightDphase[p]
		if dhdphi == 0 || !finite(dhdphi) {
			continue
		}
		dh := target - pc.Height[p]
		dphi := dh / dhdphi
		newLat := pc.Latitude[p] + pc.DlatitudeDphase[p]*dphi
		newLon := pc.Longitude[p] + pc.DlongitudeDphase[p]*dphi
		if !finite(newLat) || !finite(newLon) || !finite(dh) {
			continue
		}
		lat[p], lon[p], height[p] = newLat, newLon, pc.Height[p]+dh
		moved++
	}
	monitoring.Debugf("[geoloc] taylor refinement moved %d of %d pixels", moved, n)
	return lat, lon, height, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
