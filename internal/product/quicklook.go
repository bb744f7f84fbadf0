package product

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// maxHTMLCells bounds the number of cells embedded in an HTML quicklook;
// larger grids are decimated.
const maxHTMLCells = 250000

// viridis stops used for the HTML colour scale.
var viridis = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

// channelGrid adapts a product channel to plotter.GridXYZ.
type channelGrid struct {
	p *Raster
	c *Channel
}

func (g channelGrid) Dims() (c, r int) { return g.p.Metadata.SizeX, g.p.Metadata.SizeY }
func (g channelGrid) X(c int) float64  { return g.p.X[c] }
func (g channelGrid) Y(r int) float64  { return g.p.Y[r] }

func (g channelGrid) Z(c, r int) float64 {
	v := g.c.Data[r*g.p.Metadata.SizeX+c]
	if v == g.c.FillValue {
		return math.NaN()
	}
	return v
}

// Min and Max give the data range of the valid cells, widened so the
// palette is never degenerate.
func (g channelGrid) Min() float64 { lo, _ := g.span(); return lo }
func (g channelGrid) Max() float64 { _, hi := g.span(); return hi }

func (g channelGrid) span() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range g.c.Data {
		if v == g.c.FillValue {
			continue
		}
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	switch {
	case math.IsInf(lo, 1):
		return 0, 1
	case lo == hi:
		return lo - 0.5, hi + 0.5
	}
	return lo, hi
}

func axisNames(p *Raster) (x, y string) {
	if p.XName == "longitude" {
		return "Longitude (deg)", "Latitude (deg)"
	}
	return "Easting (m)", "Northing (m)"
}

// WritePNG renders channel of p as a heat map PNG.
func WritePNG(w io.Writer, p *Raster, channel string) error {
	c := p.Channel(channel)
	if c == nil {
		return fmt.Errorf("%w: %s", ErrUnknownChannel, channel)
	}
	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("%s (cycle %d pass %d)", channel, p.Metadata.CycleNumber, p.Metadata.PassNumber)
	pl.X.Label.Text, pl.Y.Label.Text = axisNames(p)

	hm := plotter.NewHeatMap(channelGrid{p: p, c: c}, palette.Heat(16, 1))
	hm.NaN = color.Transparent
	hm.Rasterized = true
	pl.Add(hm)

	wt, err := pl.WriterTo(8*vg.Inch, 8*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", channel, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write %s quicklook: %w", channel, err)
	}
	return nil
}

// WriteHTML renders channel of p as an interactive heat map page.
func WriteHTML(w io.Writer, p *Raster, channel string) error {
	c := p.Channel(channel)
	if c == nil {
		return fmt.Errorf("%w: %s", ErrUnknownChannel, channel)
	}
	g := channelGrid{p: p, c: c}
	sizeX, sizeY := g.Dims()
	stride := 1
	if n := sizeX * sizeY; n > maxHTMLCells {
		stride = int(math.Ceil(math.Sqrt(float64(n) / maxHTMLCells)))
	}

	var xs, ys []string
	for j := 0; j < sizeX; j += stride {
		xs = append(xs, strconv.FormatFloat(p.X[j], 'f', -1, 64))
	}
	for i := 0; i < sizeY; i += stride {
		ys = append(ys, strconv.FormatFloat(p.Y[i], 'f', -1, 64))
	}
	data := make([]opts.HeatMapData, 0, len(xs)*len(ys))
	for i := 0; i < sizeY; i += stride {
		for j := 0; j < sizeX; j += stride {
			v := g.Z(j, i)
			if math.IsNaN(v) {
				continue
			}
			data = append(data, opts.HeatMapData{Value: [3]interface{}{j / stride, i / stride, v}})
		}
	}
	lo, hi := g.span()
	xName, yName := axisNames(p)

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Water raster " + channel, Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: channel, Subtitle: fmt.Sprintf("cycle=%d pass=%d cells=%d stride=%d", p.Metadata.CycleNumber, p.Metadata.PassNumber, len(data), stride)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: xName, NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: ys, Name: yName, NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(lo),
			Max:        float32(hi),
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	hm.SetXAxis(xs).AddSeries(channel, data)
	if err := hm.Render(w); err != nil {
		return fmt.Errorf("failed to render %s: %w", channel, err)
	}
	return nil
}
