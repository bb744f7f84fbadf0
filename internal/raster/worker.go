package raster

import (
	"errors"
	"fmt"

	"github.com/banshee-data/water.raster/internal/monitoring"
	"github.com/banshee-data/water.raster/internal/pixc"
)

// ErrRefinerContract is returned when a GeolocRefiner's output does not
// have one entry per pixel.
var ErrRefinerContract = errors.New("geolocation refiner returned malformed arrays")

// GeolocRefiner computes improved per-pixel geolocation from a coarse
// raster. lat, lon and height must each have pc.Len() entries.
type GeolocRefiner interface {
	Refine(pc *pixc.PixelCloud, coarse *Result) (lat, lon, height []float64, err error)
}

// Stage identifies a pass of the refinement loop.
type Stage int

const (
	StageCoarse Stage = iota
	StageFinal
)

func (s Stage) String() string {
	if s == StageCoarse {
		return "coarse"
	}
	return "final"
}

// Worker turns a pixel cloud into the final raster, optionally refining
// geolocation against a coarse raster first.
type Worker struct {
	cfg     WorkerConfig
	refiner GeolocRefiner

	// OnPass, when set, is called with every pass result as it completes.
	OnPass func(Stage, *Result)
}

// NewWorker returns a Worker. A nil refiner disables the coarse pass.
func NewWorker(cfg WorkerConfig, refiner GeolocRefiner) *Worker {
	return &Worker{cfg: cfg, refiner: refiner}
}

// Rasterize runs the coarse pass (when enabled), the refiner (when the
// coarse raster has any populated cell) and the final pass, and returns
// the final result only.
func (w *Worker) Rasterize(pc *pixc.PixelCloud) (*Result, error) {
	if err := w.cfg.Validate(); err != nil {
		return nil, err
	}

	var refined *pixc.PixelCloud
	if w.cfg.DoImprovedGeolocation && w.refiner != nil && pc.Len() > 0 {
		monitoring.Logf("[raster] rasterizing for improved geolocation (smooth factor %g)", w.cfg.SmoothFactor)
		coarse, err := RasterizePass(pc, nil, w.cfg.Coarse())
		if err != nil {
			return nil, fmt.Errorf("coarse pass: %w", err)
		}
		w.notify(StageCoarse, coarse)

		if coarse.IsEmpty() {
			monitoring.Logf("[raster] coarse raster is empty: skipping geolocation refinement")
		} else {
			lat, lon, h, err := w.refiner.Refine(pc, coarse)
			if err != nil {
				return nil, fmt.Errorf("refine geolocation: %w", err)
			}
			n := pc.Len()
			if len(lat) != n || len(lon) != n || len(h) != n {
				return nil, fmt.Errorf("%w: got %d/%d/%d values for %d pixels", ErrRefinerContract, len(lat), len(lon), len(h), n)
			}
			refined = pc.WithGeolocation(lat, lon, h)
		}
	}

	monitoring.Logf("[raster] rasterizing")
	final, err := RasterizePass(pc, refined, w.cfg.Final)
	if err != nil {
		return nil, fmt.Errorf("final pass: %w", err)
	}
	w.notify(StageFinal, final)
	return final, nil
}

func (w *Worker) notify(s Stage, r *Result) {
	monitoring.Debugf("[raster] %s pass: %d populated cells, %d valid wse", s, r.Populated, r.Layer(ChannelWSE).ValidCount())
	if w.OnPass != nil {
		w.OnPass(s, r)
	}
}
