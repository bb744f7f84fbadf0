package raster

import (
	"fmt"

	"github.com/golang/geo/r3"

	"github.com/banshee-data/water.raster/internal/aggregate"
	"github.com/banshee-data/water.raster/internal/crs"
	"github.com/banshee-data/water.raster/internal/monitoring"
	"github.com/banshee-data/water.raster/internal/pixc"
)

// PassConfig configures a single rasterization pass.
type PassConfig struct {
	Grid      GridParams
	Aggregate AggregateParams
}

// RasterizePass runs one grid/bin/aggregate/correct pass over pc. When
// refined is non-nil its geolocation is used for binning and for the
// target positions that flatten the interferogram, and its own validity
// mask is combined with pc's. All other channels come from pc.
//
// An empty pixel cloud yields an all-no-data result on the scene grid.
func RasterizePass(pc, refined *pixc.PixelCloud, cfg PassConfig) (*Result, error) {
	corners := pc.Meta.BoundingCorners()
	for k := range corners {
		corners[k].Lon = LonTo180(corners[k].Lon)
	}
	g, err := NewGridDescriptor(corners, cfg.Grid)
	if err != nil {
		return nil, err
	}
	monitoring.Logf("[raster] grid %s", g)

	if pc.Len() == 0 {
		monitoring.Logf("[raster] empty pixel cloud: returning empty raster")
		return NewResult(g, cfg.Aggregate.Debug), nil
	}

	mask := cfg.Aggregate.Classes.RecognizedMask(pc, pixc.ValidMask(pc))
	geo := pc
	if refined != nil {
		if refined.Len() != pc.Len() {
			return nil, fmt.Errorf("%w: refined cloud has %d pixels, want %d", ErrRefinerContract, refined.Len(), pc.Len())
		}
		refinedMask := pixc.ValidMask(refined)
		for i := range mask {
			mask[i] = mask[i] && refinedMask[i]
		}
		geo = refined
	}

	bins := NewBinMap(g, geo.Latitude, geo.Longitude, mask)
	monitoring.Debugf("[raster] mapped %d of %d valid pixels (%d total) into %d populated cells",
		bins.Total(), countTrue(mask), pc.Len(), bins.Populated())

	if refined == nil {
		monitoring.Debugf("[raster] no improved geolocation: flattening interferogram with measured geolocation")
	}
	target := make([]r3.Vector, geo.Len())
	for i := range target {
		target[i] = crs.LLHToECEF(geo.Latitude[i], geo.Longitude[i], geo.Height[i])
	}
	ifgram := make([]complex128, pc.Len())
	for i := range ifgram {
		ifgram[i] = pc.Interferogram(i)
	}
	sensor := aggregate.SensorIndex(pc.IlluminationTime, pc.TVP.Time)
	flat := aggregate.FlattenInterferogram(ifgram, &pc.TVP, target, sensor, pc.Meta.Wavelength)

	res := Aggregate(g, bins, pc, mask, flat, cfg.Aggregate)
	return ApplyHeightCorrections(res), nil
}

func countTrue(mask []bool) int {
	n := 0
	for _, m := range mask {
		if m {
			n++
		}
	}
	return n
}
