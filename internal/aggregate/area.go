package aggregate

import (
	"math"

	"github.com/banshee-data/water.raster/internal/pixc"
)

// Area aggregation methods.
const (
	AreaSimple    = "simple"
	AreaComposite = "composite"
)

// AreaInputs are the per-pixel quantities of one cell.
type AreaInputs struct {
	PixelArea       []float64
	WaterFrac       []float64
	WaterFracUncert []float64
	DareaDheight    []float64
	Pfd             []float64
	Pmd             []float64
	Klass           []pixc.Klass
	Good            []bool

	// HeightUncert is the cell's height uncertainty; it propagates
	// through darea_dheight when finite.
	HeightUncert float64
}

// AreaWithUncert returns the water area of a cell and its 1-sigma
// uncertainty.
//
// composite: interior-water pixels count their full area with detection
// variance A²(pfd(1-pfd)+pmd(1-pmd)); edge pixels (water and land) count
// A·water_frac with variance (A·water_frac_uncert)².
// simple: interior and water-edge pixels count their full area with the
// detection variance; land edge is ignored.
func AreaWithUncert(in AreaInputs, method string) (area, uncert float64) {
	var variance, dAdh float64
	for i, g := range in.Good {
		if !g {
			continue
		}
		a := in.PixelArea[i]
		var contrib, v float64
		switch k := in.Klass[i]; {
		case k == pixc.KlassInteriorWater,
			method == AreaSimple && k == pixc.KlassWaterEdge:
			contrib = a
			pfd, pmd := in.Pfd[i], in.Pmd[i]
			v = a * a * (pfd*(1-pfd) + pmd*(1-pmd))
		case method == AreaComposite && (k == pixc.KlassWaterEdge || k == pixc.KlassLandEdge):
			contrib = a * in.WaterFrac[i]
			su := a * in.WaterFracUncert[i]
			v = su * su
		default:
			continue
		}
		if !isFinite(contrib) {
			continue
		}
		area += contrib
		if isFinite(v) {
			variance += v
		}
		if d := in.DareaDheight[i]; isFinite(d) {
			dAdh += d
		}
	}
	if isFinite(in.HeightUncert) {
		t := dAdh * in.HeightUncert
		variance += t * t
	}
	return area, math.Sqrt(variance)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
