// Package aggregate combines the pixels that fall in one raster cell into
// cell values and their uncertainties.
package aggregate

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean is the arithmetic mean of x, NaN when x is empty.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return stat.Mean(x, nil)
}

// Sum is the sum of x.
func Sum(x []float64) float64 {
	return floats.Sum(x)
}

// Mode is the most frequent value of x; ties resolve to the smallest
// value. NaN when x is empty.
func Mode(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	v, _ := stat.Mode(x, nil)
	return v
}

// Count is the number of true entries in good.
func Count(good []bool) int {
	n := 0
	for _, g := range good {
		if g {
			n++
		}
	}
	return n
}

// Select returns the entries of x at the positions where good is true.
func Select(x []float64, good []bool) []float64 {
	out := make([]float64, 0, len(x))
	for i, g := range good {
		if g {
			out = append(out, x[i])
		}
	}
	return out
}

// HeightUncertStd is the standard error of the good samples of x, with
// the sample standard deviation reduced by the square root of the
// effective number of independent looks (rare looks over medium looks).
// NaN for fewer than two good samples.
func HeightUncertStd(x []float64, good []bool, rareLooks, mediumLooks []float64) float64 {
	v := Select(x, good)
	if len(v) < 2 {
		return math.NaN()
	}
	std := stat.StdDev(v, nil)

	rare := floats.Sum(Select(rareLooks, good))
	med := stat.Mean(Select(mediumLooks, good), nil)
	independent := 1.0
	if med > 0 && rare/med > 1 {
		independent = rare / med
	}
	return std / math.Sqrt(independent)
}
