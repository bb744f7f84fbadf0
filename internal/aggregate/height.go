package aggregate

import (
	"math"
	"math/cmplx"
)

// Height aggregation methods.
const (
	HeightSimple   = "simple"
	HeightWeighted = "weighted"
)

// BadHeightStd replaces per-pixel height standard deviations that are
// non-positive or non-finite, so such pixels are deweighted rather than
// dropped.
const BadHeightStd = 1.0e5

// PixelHeightStd is |phase_noise_std * dheight_dphase| with bad values
// replaced by BadHeightStd.
func PixelHeightStd(phaseNoiseStd, dhDphi float64) float64 {
	s := math.Abs(phaseNoiseStd * dhDphi)
	if s <= 0 || math.IsInf(s, 0) || math.IsNaN(s) {
		return BadHeightStd
	}
	return s
}

// HeightInputs are the per-pixel quantities of one cell. All slices have
// the same length; only entries with Good set contribute.
type HeightInputs struct {
	Height      []float64
	Good        []bool
	RareLooks   []float64
	MediumLooks []float64
	FlatIfgram  []complex128
	PowerMinusY []float64
	PowerPlusY  []float64
	DhDphi      []float64
	DlatDphi    []float64
	DlonDphi    []float64
	HeightStd   []float64

	LooksToEfflooks float64
}

// HeightResult is the aggregated height of a cell with its uncertainty
// and the matching latitude/longitude uncertainties (degrees).
type HeightResult struct {
	Height    float64
	Uncert    float64
	LatUncert float64
	LonUncert float64
	Count     int
}

// HeightWithUncerts combines the good pixel heights of a cell. The simple
// method uses unit weights and the weighted method uses inverse height
// variance. The uncertainty comes from the multilooked coherence of the
// flattened interferogram and the effective number of looks. Every field
// is NaN when no pixel is good.
func HeightWithUncerts(in HeightInputs, method string) HeightResult {
	res := HeightResult{
		Height:    math.NaN(),
		Uncert:    math.NaN(),
		LatUncert: math.NaN(),
		LonUncert: math.NaN(),
	}

	weights := make([]float64, len(in.Height))
	var wsum float64
	for i, g := range in.Good {
		if !g {
			continue
		}
		res.Count++
		w := 1.0
		if method == HeightWeighted {
			w = 1 / (in.HeightStd[i] * in.HeightStd[i])
		}
		weights[i] = w
		wsum += w
	}
	if res.Count == 0 || wsum == 0 {
		return res
	}

	var h, dh, dlat, dlon, p1, p2, rare float64
	var ifg complex128
	for i, g := range in.Good {
		if !g {
			continue
		}
		wn := weights[i] / wsum
		h += wn * in.Height[i]
		dh += wn * in.DhDphi[i]
		dlat += wn * in.DlatDphi[i]
		dlon += wn * in.DlonDphi[i]
		p1 += wn * in.PowerPlusY[i]
		p2 += wn * in.PowerMinusY[i]
		ifg += complex(wn, 0) * in.FlatIfgram[i]
		rare += in.RareLooks[i]
	}
	res.Height = h

	coh := cmplx.Abs(ifg) / math.Sqrt(p1*p2)
	if coh > 1 {
		coh = 1
	}
	looksRatio := in.LooksToEfflooks
	if looksRatio <= 0 {
		looksRatio = 1
	}
	looks := rare / looksRatio
	phaseStd := math.Sqrt((1 - coh*coh) / (2 * looks * coh * coh))

	res.Uncert = phaseStd * math.Abs(dh)
	res.LatUncert = phaseStd * math.Abs(dlat)
	res.LonUncert = phaseStd * math.Abs(dlon)
	return res
}
