package crs

import (
	"math"

	"github.com/golang/geo/r3"
)

// WGS84 ellipsoid.
const (
	SemiMajorAxis = 6378137.0
	SemiMinorAxis = 6356752.314245
)

var (
	eccSquared = 1 - (SemiMinorAxis*SemiMinorAxis)/(SemiMajorAxis*SemiMajorAxis)
	ecc        = math.Sqrt(eccSquared)
)

// LLHToECEF converts geodetic latitude/longitude (degrees) and ellipsoid
// height (metres) into earth-centred earth-fixed coordinates.
func LLHToECEF(lat, lon, h float64) r3.Vector {
	phi := lat * math.Pi / 180
	lambda := lon * math.Pi / 180
	sinPhi, cosPhi := math.Sincos(phi)
	sinLambda, cosLambda := math.Sincos(lambda)

	n := SemiMajorAxis / math.Sqrt(1-eccSquared*sinPhi*sinPhi)
	return r3.Vector{
		X: (n + h) * cosPhi * cosLambda,
		Y: (n + h) * cosPhi * sinLambda,
		Z: (n*(1-eccSquared) + h) * sinPhi,
	}
}

// authalicQ is the q(φ) term of the ellipsoidal area between the equator
// and latitude φ.
func authalicQ(phi float64) float64 {
	s := math.Sin(phi)
	es := ecc * s
	return s/(1-es*es) + math.Log((1+es)/(1-es))/(2*ecc)
}

// WGS84CellArea returns the area in square metres of a res×res degree
// cell centred on latitude lat.
func WGS84CellArea(lat, res float64) float64 {
	lo := (lat - res/2) * math.Pi / 180
	hi := (lat + res/2) * math.Pi / 180
	lo = math.Max(lo, -math.Pi/2)
	hi = math.Min(hi, math.Pi/2)
	dLambda := res * math.Pi / 180
	return dLambda * SemiMinorAxis * SemiMinorAxis / 2 * (authalicQ(hi) - authalicQ(lo))
}
