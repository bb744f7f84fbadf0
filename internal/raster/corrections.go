package raster

import "math"

// ApplyHeightCorrections returns a copy of r whose wse channel has the
// geoid, solid earth tide, load tide (solution 1) and pole tide removed.
// Cells where wse or any of those corrections is no-data are no-data.
// r is not modified.
func ApplyHeightCorrections(r *Result) *Result {
	wse := r.Layer(ChannelWSE).Clone()
	for k, ok := range wse.Valid {
		if !ok {
			continue
		}
		v := wse.Values[k]
		for _, name := range heightCorrections {
			c, ok := r.Layer(name).At(k)
			if !ok {
				v = math.NaN()
				break
			}
			v -= c
		}
		wse.Set(k, v)
	}
	return r.withLayer(wse)
}
