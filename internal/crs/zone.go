// Package crs holds the coordinate reference systems used to grid pixel
// clouds: UTM zone and MGRS latitude band selection, UTM and geographic
// point transforms, and WGS84 geometry helpers.
package crs

import "math"

// NumZones is the number of UTM longitude zones.
const NumZones = 60

// ValidBands lists the MGRS latitude bands from south to north.
// I and O are skipped.
const ValidBands = "CDEFGHJKLMNPQRSTUVWX"

// ZoneNumber returns the UTM zone containing (lat, lon), including the
// Norway (32V) and Svalbard (31X-37X) exceptions.
func ZoneNumber(lat, lon float64) int {
	if lat >= 56 && lat < 64 && lon >= 3 && lon < 12 {
		return 32
	}
	if lat >= 72 && lat <= 84 && lon >= 0 {
		switch {
		case lon < 9:
			return 31
		case lon < 21:
			return 33
		case lon < 33:
			return 35
		case lon < 42:
			return 37
		}
	}
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return int(lon/6)%NumZones + 1
}

// BandLetter returns the MGRS latitude band for lat. Latitudes outside
// [-80, 84] clamp to C and X.
func BandLetter(lat float64) byte {
	idx := int(math.Floor((lat + 80) / 8))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(ValidBands) {
		idx = len(ValidBands) - 1
	}
	return ValidBands[idx]
}

// AdjustZone shifts zone by adj, wrapping within 1..NumZones in both directions.
func AdjustZone(zone, adj int) int {
	z := (zone + adj - 1) % NumZones
	if z < 0 {
		z += NumZones
	}
	return z + 1
}

// AdjustBand shifts band by adj positions in ValidBands. The result clamps
// to the first and last band rather than wrapping. Unknown bands are
// treated as the first band.
func AdjustBand(band byte, adj int) byte {
	idx := bandIndex(band) + adj
	if idx < 0 {
		idx = 0
	}
	if idx >= len(ValidBands) {
		idx = len(ValidBands) - 1
	}
	return ValidBands[idx]
}

func bandIndex(band byte) int {
	for i := 0; i < len(ValidBands); i++ {
		if ValidBands[i] == band {
			return i
		}
	}
	return 0
}

// Hemisphere returns 'N' for bands N and above and 'S' otherwise.
func Hemisphere(band byte) byte {
	if band >= 'N' {
		return 'N'
	}
	return 'S'
}
