package raster

import (
	"math"
	"sync"

	"github.com/banshee-data/water.raster/internal/aggregate"
	"github.com/banshee-data/water.raster/internal/pixc"
)

// AggregateParams configure the cell aggregator.
type AggregateParams struct {
	Classes      pixc.ClassSets
	HeightMethod string // aggregate.HeightSimple or aggregate.HeightWeighted
	AreaMethod   string // aggregate.AreaSimple or aggregate.AreaComposite
	Debug        bool
	// Workers is the number of goroutines sharing the rows; values below
	// 2 aggregate sequentially.
	Workers int
}

// record slots, one per aggregated channel
const (
	slotWSE = iota
	slotWSEUncert
	slotNWSEPix
	slotWaterArea
	slotWaterAreaUncert
	slotWaterFrac
	slotWaterFracUncert
	slotNAreaPix
	slotCrossTrack
	slotSig0
	slotSig0Uncert
	slotInc
	slotDarkFrac
	slotIlluminationTime
	slotIlluminationTimeTAI
	slotGeoid
	slotSolidEarthTide
	slotLoadTideSol1
	slotLoadTideSol2
	slotPoleTide
	slotModelDryTropoCor
	slotModelWetTropoCor
	slotIonoCorGimKa
	slotClassification
	slotLatitude
	slotLongitude
	numSlots
)

var slotNames = [numSlots]string{
	slotWSE:                 ChannelWSE,
	slotWSEUncert:           ChannelWSEUncert,
	slotNWSEPix:             ChannelNWSEPix,
	slotWaterArea:           ChannelWaterArea,
	slotWaterAreaUncert:     ChannelWaterAreaUncert,
	slotWaterFrac:           ChannelWaterFrac,
	slotWaterFracUncert:     ChannelWaterFracUncert,
	slotNAreaPix:            ChannelNAreaPix,
	slotCrossTrack:          ChannelCrossTrack,
	slotSig0:                ChannelSig0,
	slotSig0Uncert:          ChannelSig0Uncert,
	slotInc:                 ChannelInc,
	slotDarkFrac:            ChannelDarkFrac,
	slotIlluminationTime:    ChannelIlluminationTime,
	slotIlluminationTimeTAI: ChannelIlluminationTimeTAI,
	slotGeoid:               ChannelGeoid,
	slotSolidEarthTide:      ChannelSolidEarthTide,
	slotLoadTideSol1:        ChannelLoadTideSol1,
	slotLoadTideSol2:        ChannelLoadTideSol2,
	slotPoleTide:            ChannelPoleTide,
	slotModelDryTropoCor:    ChannelModelDryTropoCor,
	slotModelWetTropoCor:    ChannelModelWetTropoCor,
	slotIonoCorGimKa:        ChannelIonoCorGimKa,
	slotClassification:      ChannelClassification,
	slotLatitude:            ChannelLatitude,
	slotLongitude:           ChannelLongitude,
}

// cellRecord holds every channel value of one cell. A record with no good
// pixel is never written.
type cellRecord struct {
	good bool
	v    [numSlots]float64
}

// cellAggregator holds the per-pass inputs shared by all cells.
type cellAggregator struct {
	g      *GridDescriptor
	bins   *BinMap
	pc     *pixc.PixelCloud
	mask   []bool
	flat   []complex128
	params AggregateParams

	klass     []pixc.Klass
	heightOK  []bool
	dark      []bool
	heightStd []float64
}

// Aggregate computes every channel of every populated cell. mask selects
// the points taking part (validity and class recognition already applied)
// and flat is the flattened interferogram of the pass. Cells with no good
// point stay no-data on every channel, and non-finite results are no-data.
func Aggregate(g *GridDescriptor, bins *BinMap, pc *pixc.PixelCloud, mask []bool, flat []complex128, p AggregateParams) *Result {
	n := pc.Len()
	a := &cellAggregator{
		g: g, bins: bins, pc: pc, mask: mask, flat: flat, params: p,
		klass:     make([]pixc.Klass, n),
		heightOK:  make([]bool, n),
		dark:      make([]bool, n),
		heightStd: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		code := pc.Classification[i]
		a.klass[i] = p.Classes.Remap(code)
		a.heightOK[i] = p.Classes.IsHeightClass(code)
		a.dark[i] = p.Classes.IsDark(code)
		a.heightStd[i] = aggregate.PixelHeightStd(pc.PhaseNoiseStd[i], pc.DheightDphase[i])
	}

	res := NewResult(g, p.Debug)
	res.Populated = bins.Populated()

	rows := func(start, step int) {
		for i := start; i < g.SizeY; i += step {
			for j := 0; j < g.SizeX; j++ {
				k := g.Idx(i, j)
				idx := bins.CellAt(k)
				if len(idx) == 0 {
					continue
				}
				rec := a.cell(i, j, idx)
				if rec.good {
					res.write(k, &rec)
				}
			}
		}
	}

	workers := p.Workers
	if workers > g.SizeY {
		workers = g.SizeY
	}
	if workers < 2 {
		rows(0, 1)
	} else {
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func(start int) {
				defer wg.Done()
				rows(start, workers)
			}(w)
		}
		wg.Wait()
	}

	illum, tai := res.Layer(ChannelIlluminationTime), res.Layer(ChannelIlluminationTimeTAI)
	for k := range illum.Valid {
		if illum.Valid[k] && tai.Valid[k] {
			res.TAIUTCDifference = tai.Values[k] - illum.Values[k]
			break
		}
	}
	return res
}

// write stores rec in cell k of every channel the result carries.
func (r *Result) write(k int, rec *cellRecord) {
	for s, name := range slotNames {
		if l := r.layers[name]; l != nil {
			l.Set(k, rec.v[s])
		}
	}
}

func gather(src []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for m, p := range idx {
		out[m] = src[p]
	}
	return out
}

func (a *cellAggregator) cell(i, j int, idx []int) cellRecord {
	var rec cellRecord
	for s := range rec.v {
		rec.v[s] = math.NaN()
	}

	good := make([]bool, len(idx))
	heightGood := make([]bool, len(idx))
	for m, p := range idx {
		good[m] = a.mask[p]
		heightGood[m] = good[m] && a.heightOK[p]
		rec.good = rec.good || good[m]
	}
	if !rec.good {
		return rec
	}
	pc := a.pc

	rare := gather(pc.EffNumRareLooks, idx)
	medium := gather(pc.EffNumMediumLooks, idx)
	flat := make([]complex128, len(idx))
	for m, p := range idx {
		flat[m] = a.flat[p]
	}
	h := aggregate.HeightWithUncerts(aggregate.HeightInputs{
		Height:          gather(pc.Height, idx),
		Good:            heightGood,
		RareLooks:       rare,
		MediumLooks:     medium,
		FlatIfgram:      flat,
		PowerMinusY:     gather(pc.PowerMinusY, idx),
		PowerPlusY:      gather(pc.PowerPlusY, idx),
		DhDphi:          gather(pc.DheightDphase, idx),
		DlatDphi:        gather(pc.DlatitudeDphase, idx),
		DlonDphi:        gather(pc.DlongitudeDphase, idx),
		HeightStd:       gather(a.heightStd, idx),
		LooksToEfflooks: pc.Meta.LooksToEfflooks,
	}, a.params.HeightMethod)
	rec.v[slotWSE] = h.Height
	rec.v[slotWSEUncert] = h.Uncert
	rec.v[slotNWSEPix] = float64(h.Count)

	klass := make([]pixc.Klass, len(idx))
	for m, p := range idx {
		klass[m] = a.klass[p]
	}
	pixelArea := gather(pc.PixelArea, idx)
	waterFrac := gather(pc.WaterFrac, idx)
	area, areaUncert := aggregate.AreaWithUncert(aggregate.AreaInputs{
		PixelArea:       pixelArea,
		WaterFrac:       waterFrac,
		WaterFracUncert: gather(pc.WaterFracUncert, idx),
		DareaDheight:    gather(pc.DareaDheight, idx),
		Pfd:             gather(pc.FalseDetectionRate, idx),
		Pmd:             gather(pc.MissedDetectionRate, idx),
		Klass:           klass,
		Good:            good,
		HeightUncert:    h.Uncert,
	}, a.params.AreaMethod)
	cellArea := a.g.CellArea(i)
	rec.v[slotWaterArea] = area
	rec.v[slotWaterAreaUncert] = areaUncert
	rec.v[slotWaterFrac] = area / cellArea
	rec.v[slotWaterFracUncert] = areaUncert / cellArea
	rec.v[slotNAreaPix] = float64(aggregate.Count(good))

	mean := func(src []float64) float64 {
		return aggregate.Mean(aggregate.Select(gather(src, idx), good))
	}
	sig0 := gather(pc.Sig0, idx)
	rec.v[slotSig0] = aggregate.Mean(aggregate.Select(sig0, good))
	rec.v[slotSig0Uncert] = aggregate.HeightUncertStd(sig0, good, rare, medium)
	rec.v[slotCrossTrack] = mean(pc.CrossTrack)
	rec.v[slotInc] = mean(pc.Inc)
	rec.v[slotIlluminationTime] = mean(pc.IlluminationTime)
	rec.v[slotIlluminationTimeTAI] = mean(pc.IlluminationTimeTAI)
	rec.v[slotGeoid] = mean(pc.Geoid)
	rec.v[slotSolidEarthTide] = mean(pc.SolidEarthTide)
	rec.v[slotLoadTideSol1] = mean(pc.LoadTideSol1)
	rec.v[slotLoadTideSol2] = mean(pc.LoadTideSol2)
	rec.v[slotPoleTide] = mean(pc.PoleTide)
	rec.v[slotModelDryTropoCor] = mean(pc.ModelDryTropoCor)
	rec.v[slotModelWetTropoCor] = mean(pc.ModelWetTropoCor)
	rec.v[slotIonoCorGimKa] = mean(pc.IonoCorGimKa)

	var darkArea, totalArea float64
	for m, p := range idx {
		if !good[m] {
			continue
		}
		w := pixelArea[m] * waterFrac[m]
		totalArea += w
		if a.dark[p] {
			darkArea += w
		}
	}
	rec.v[slotDarkFrac] = 0
	if totalArea != 0 {
		rec.v[slotDarkFrac] = darkArea / totalArea
	}

	if a.params.Debug {
		rec.v[slotClassification] = aggregate.Mode(aggregate.Select(gather(pc.Classification, idx), good))
	}

	if a.g.Projection == ProjectionUTM {
		if lat, lon, err := a.g.System.Inverse(a.g.X(j), a.g.Y(i)); err == nil {
			rec.v[slotLatitude] = lat
			rec.v[slotLongitude] = lon
		}
	}
	return rec
}
