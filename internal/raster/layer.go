package raster

import "math"

// Layer is one aggregated channel, row-major SizeY×SizeX. Cells with
// Valid false are no-data and carry NaN.
type Layer struct {
	Name   string
	Values []float64
	Valid  []bool
}

// NewLayer returns a layer of n no-data cells.
func NewLayer(name string, n int) *Layer {
	l := &Layer{Name: name, Values: make([]float64, n), Valid: make([]bool, n)}
	for k := range l.Values {
		l.Values[k] = math.NaN()
	}
	return l
}

// Set stores v in cell k. Non-finite values leave the cell no-data.
func (l *Layer) Set(k int, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		l.Values[k] = math.NaN()
		l.Valid[k] = false
		return
	}
	l.Values[k] = v
	l.Valid[k] = true
}

// At returns cell k's value and validity.
func (l *Layer) At(k int) (float64, bool) {
	return l.Values[k], l.Valid[k]
}

// ValidCount is the number of cells holding data.
func (l *Layer) ValidCount() int {
	n := 0
	for _, v := range l.Valid {
		if v {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of l.
func (l *Layer) Clone() *Layer {
	out := &Layer{
		Name:   l.Name,
		Values: make([]float64, len(l.Values)),
		Valid:  make([]bool, len(l.Valid)),
	}
	copy(out.Values, l.Values)
	copy(out.Valid, l.Valid)
	return out
}
