package pixc

import (
	"encoding/json"
	"math"
)

// Float64s is a float channel whose missing samples are NaN in memory and
// null on the wire.
type Float64s []float64

func (f Float64s) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("null"), nil
	}
	out := make([]*float64, len(f))
	for i := range f {
		if math.IsNaN(f[i]) || math.IsInf(f[i], 0) {
			continue
		}
		out[i] = &f[i]
	}
	return json.Marshal(out)
}

func (f *Float64s) UnmarshalJSON(data []byte) error {
	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*f = nil
		return nil
	}
	out := make(Float64s, len(raw))
	for i, v := range raw {
		if v == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *v
	}
	*f = out
	return nil
}

func filled(n int, v float64) Float64s {
	out := make(Float64s, n)
	for i := range out {
		out[i] = v
	}
	return out
}
