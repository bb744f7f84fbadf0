package pixc

import "math"

// Latitude limits outside which UTM gridding is undefined.
const (
	MaxValidLatitude = 84.0
	MinValidLatitude = -80.0
)

// ValidMask reports, per pixel, whether the geolocation, height, pixel
// area and classification are present and the latitude lies strictly
// inside (MinValidLatitude, MaxValidLatitude).
func ValidMask(p *PixelCloud) []bool {
	mask := make([]bool, p.Len())
	for i := range mask {
		lat := p.Latitude[i]
		switch {
		case math.IsNaN(lat), math.IsNaN(p.Longitude[i]):
		case math.IsNaN(p.Height[i]), math.IsNaN(p.PixelArea[i]):
		case math.IsNaN(p.Classification[i]):
		case lat >= MaxValidLatitude, lat <= MinValidLatitude:
		default:
			mask[i] = true
		}
	}
	return mask
}
