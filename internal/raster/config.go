package raster

import (
	"fmt"

	"github.com/banshee-data/water.raster/internal/config"
	"github.com/banshee-data/water.raster/internal/pixc"
	"github.com/banshee-data/water.raster/internal/units"
)

// WorkerConfig drives a full rasterization: the final pass and the
// optional coarse pass that feeds geolocation refinement.
type WorkerConfig struct {
	Final PassConfig // final-resolution pass

	DoImprovedGeolocation bool    // run the coarse pass and refiner (default: true)
	SmoothFactor          float64 // coarse resolution multiplier (default: 5)
}

// DefaultWorkerConfig returns a WorkerConfig loaded from the canonical
// defaults file (config/raster.defaults.json). Panics if the file cannot
// be found; intended for tests.
func DefaultWorkerConfig() *WorkerConfig {
	return WorkerConfigFromRaster(config.MustLoadDefaultConfig())
}

// WorkerConfigFromRaster builds a WorkerConfig from a loaded RasterConfig.
// Geographic resolution and buffer are configured in arc-seconds and
// converted to degrees here.
func WorkerConfigFromRaster(cfg *config.RasterConfig) *WorkerConfig {
	proj := Projection(cfg.GetProjectionType())
	res, buffer := cfg.GetResolution(), cfg.GetBufferSize()
	if proj == ProjectionGeo {
		res = units.ToDegrees(res, units.Arcsec)
		buffer = units.ToDegrees(buffer, units.Arcsec)
	}
	return &WorkerConfig{
		Final: PassConfig{
			Grid: GridParams{
				Projection: proj,
				Resolution: res,
				Buffer:     buffer,
				ZoneAdjust: cfg.GetUTMZoneAdjust(),
				BandAdjust: cfg.GetLatitudeBandAdjust(),
			},
			Aggregate: AggregateParams{
				Classes: pixc.ClassSets{
					Interior:  cfg.GetInteriorWaterClasses(),
					WaterEdge: cfg.GetWaterEdgeClasses(),
					LandEdge:  cfg.GetLandEdgeClasses(),
					Dark:      cfg.GetDarkWaterClasses(),
				},
				HeightMethod: cfg.GetHeightAggMethod(),
				AreaMethod:   cfg.GetAreaAggMethod(),
				Debug:        cfg.GetDebugFlag(),
				Workers:      cfg.GetWorkers(),
			},
		},
		DoImprovedGeolocation: cfg.GetDoImprovedGeolocation(),
		SmoothFactor:          cfg.GetImprovedGeolocationSmoothFactor(),
	}
}

// Validate checks if the configuration is valid.
func (c *WorkerConfig) Validate() error {
	g := c.Final.Grid
	if g.Projection != ProjectionUTM && g.Projection != ProjectionGeo {
		return fmt.Errorf("%w: %q", ErrUnknownProjection, g.Projection)
	}
	if !(g.Resolution > 0) {
		return fmt.Errorf("Resolution must be positive, got %g", g.Resolution)
	}
	if g.Buffer < 0 {
		return fmt.Errorf("Buffer must be non-negative, got %g", g.Buffer)
	}
	if c.DoImprovedGeolocation && !(c.SmoothFactor > 0) {
		return fmt.Errorf("SmoothFactor must be positive, got %g", c.SmoothFactor)
	}
	return nil
}

// Coarse returns the pass configuration of the refinement pass: the final
// configuration at Resolution × SmoothFactor.
func (c *WorkerConfig) Coarse() PassConfig {
	p := c.Final
	p.Grid.Resolution *= c.SmoothFactor
	return p
}

// WithDebug sets the debug product flag.
func (c *WorkerConfig) WithDebug(on bool) *WorkerConfig {
	c.Final.Aggregate.Debug = on
	return c
}

// WithWorkers sets the aggregation worker count.
func (c *WorkerConfig) WithWorkers(n int) *WorkerConfig {
	c.Final.Aggregate.Workers = n
	return c
}
