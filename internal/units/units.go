// Package units provides shared constants and conversions for raster resolution units
package units

import "math"

// Unit constants
const (
	Meters  = "m"
	Arcsec  = "arcsec"
	Degrees = "deg"
)

// ArcsecPerDegree is the number of arc-seconds in one degree.
const ArcsecPerDegree = 3600.0

// ValidUnits contains all valid resolution unit values
var ValidUnits = []string{Meters, Arcsec, Degrees}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "m, arcsec, deg"
}

// ToDegrees converts an angular resolution to degrees.
// Geographic grids are configured in arc-seconds but binned in degrees.
func ToDegrees(v float64, unit string) float64 {
	switch unit {
	case Arcsec:
		return v / ArcsecPerDegree
	case Degrees:
		return v
	default:
		return v // metres and unknown units pass through unchanged
	}
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}
