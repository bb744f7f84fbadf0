package raster

import "math"

// Channel names.
const (
	ChannelLatitude            = "latitude"
	ChannelLongitude           = "longitude"
	ChannelWSE                 = "wse"
	ChannelWSEUncert           = "wse_uncert"
	ChannelWaterArea           = "water_area"
	ChannelWaterAreaUncert     = "water_area_uncert"
	ChannelWaterFrac           = "water_frac"
	ChannelWaterFracUncert     = "water_frac_uncert"
	ChannelSig0                = "sig0"
	ChannelSig0Uncert          = "sig0_uncert"
	ChannelInc                 = "inc"
	ChannelCrossTrack          = "cross_track"
	ChannelIlluminationTime    = "illumination_time"
	ChannelIlluminationTimeTAI = "illumination_time_tai"
	ChannelNWSEPix             = "n_wse_pix"
	ChannelNAreaPix            = "n_area_pix"
	ChannelDarkFrac            = "dark_frac"
	ChannelGeoid               = "geoid"
	ChannelSolidEarthTide      = "solid_earth_tide"
	ChannelLoadTideSol1        = "load_tide_sol1"
	ChannelLoadTideSol2        = "load_tide_sol2"
	ChannelPoleTide            = "pole_tide"
	ChannelModelDryTropoCor    = "model_dry_tropo_cor"
	ChannelModelWetTropoCor    = "model_wet_tropo_cor"
	ChannelIonoCorGimKa        = "iono_cor_gim_ka"
	ChannelClassification      = "classification"
)

// channelOrder is the product order of every channel.
var channelOrder = []string{
	ChannelLatitude, ChannelLongitude,
	ChannelWSE, ChannelWSEUncert,
	ChannelWaterArea, ChannelWaterAreaUncert,
	ChannelWaterFrac, ChannelWaterFracUncert,
	ChannelSig0, ChannelSig0Uncert,
	ChannelInc, ChannelCrossTrack,
	ChannelIlluminationTime, ChannelIlluminationTimeTAI,
	ChannelNWSEPix, ChannelNAreaPix,
	ChannelDarkFrac,
	ChannelGeoid, ChannelSolidEarthTide,
	ChannelLoadTideSol1, ChannelLoadTideSol2, ChannelPoleTide,
	ChannelModelDryTropoCor, ChannelModelWetTropoCor, ChannelIonoCorGimKa,
	ChannelClassification,
}

// heightCorrections are subtracted from the aggregated ellipsoid height.
var heightCorrections = []string{
	ChannelGeoid, ChannelSolidEarthTide, ChannelLoadTideSol1, ChannelPoleTide,
}

// ChannelNames returns the channels carried by a product of the given
// projection. latitude/longitude exist only for utm and classification
// only in debug products.
func ChannelNames(p Projection, debug bool) []string {
	out := make([]string, 0, len(channelOrder))
	for _, name := range channelOrder {
		switch name {
		case ChannelLatitude, ChannelLongitude:
			if p != ProjectionUTM {
				continue
			}
		case ChannelClassification:
			if !debug {
				continue
			}
		}
		out = append(out, name)
	}
	return out
}

// Result is the aggregated raster of one pass.
type Result struct {
	Grid  *GridDescriptor
	Debug bool

	// Populated is the number of cells that received at least one point.
	Populated int
	// TAIUTCDifference is illumination_time_tai - illumination_time at the
	// first cell holding both, NaN when there is none.
	TAIUTCDifference float64

	layers map[string]*Layer
}

// NewResult returns a result whose channels are all no-data.
func NewResult(g *GridDescriptor, debug bool) *Result {
	r := &Result{
		Grid:             g,
		Debug:            debug,
		TAIUTCDifference: math.NaN(),
		layers:           make(map[string]*Layer),
	}
	for _, name := range ChannelNames(g.Projection, debug) {
		r.layers[name] = NewLayer(name, g.Cells())
	}
	return r
}

// Layer returns the named channel, or nil if the product does not carry it.
func (r *Result) Layer(name string) *Layer { return r.layers[name] }

// Channels returns the carried channels in product order.
func (r *Result) Channels() []*Layer {
	names := ChannelNames(r.Grid.Projection, r.Debug)
	out := make([]*Layer, 0, len(names))
	for _, name := range names {
		out = append(out, r.layers[name])
	}
	return out
}

// IsEmpty reports whether no cell received a point.
func (r *Result) IsEmpty() bool { return r.Populated == 0 }

// EllipsoidHeight returns the aggregated height of cell k before the
// geoid and tide corrections were removed.
func (r *Result) EllipsoidHeight(k int) (float64, bool) {
	h, ok := r.layers[ChannelWSE].At(k)
	if !ok {
		return math.NaN(), false
	}
	for _, name := range heightCorrections {
		c, ok := r.layers[name].At(k)
		if !ok {
			return math.NaN(), false
		}
		h += c
	}
	return h, true
}

// withLayer returns a shallow copy of r with one channel replaced.
func (r *Result) withLayer(l *Layer) *Result {
	out := *r
	out.layers = make(map[string]*Layer, len(r.layers))
	for k, v := range r.layers {
		out.layers[k] = v
	}
	out.layers[l.Name] = l
	return &out
}
