package pixc

// Klass is the internal class tag used by area and height aggregation.
type Klass uint8

const (
	KlassNone Klass = iota
	KlassInteriorWater
	KlassWaterEdge
	KlassLandEdge
)

func (k Klass) String() string {
	switch k {
	case KlassInteriorWater:
		return "interior_water"
	case KlassWaterEdge:
		return "water_edge"
	case KlassLandEdge:
		return "land_edge"
	}
	return "none"
}

// Pixel-cloud classification codes.
const (
	ClassLand              = 1
	ClassLandNearWater     = 2
	ClassWaterNearLand     = 3
	ClassOpenWater         = 4
	ClassLandNearDarkWater = 22
	ClassDarkWaterEdge     = 23
	ClassDarkWater         = 24
)

// ClassSets are the operator-configured classification codes for each
// internal class. A code may appear in more than one set.
type ClassSets struct {
	Interior  []int
	WaterEdge []int
	LandEdge  []int
	Dark      []int
}

func contains(set []int, code float64) bool {
	for _, c := range set {
		if float64(c) == code {
			return true
		}
	}
	return false
}

// Remap maps a raw classification code to its internal tag. When a code
// is in several sets, land edge wins over water edge, which wins over
// interior water.
func (s ClassSets) Remap(code float64) Klass {
	switch {
	case contains(s.LandEdge, code):
		return KlassLandEdge
	case contains(s.WaterEdge, code):
		return KlassWaterEdge
	case contains(s.Interior, code):
		return KlassInteriorWater
	}
	return KlassNone
}

// Recognized reports whether code is in any configured set, dark included.
func (s ClassSets) Recognized(code float64) bool {
	return contains(s.Interior, code) || contains(s.WaterEdge, code) ||
		contains(s.LandEdge, code) || contains(s.Dark, code)
}

// IsDark reports whether code is a dark-water class.
func (s ClassSets) IsDark(code float64) bool {
	return contains(s.Dark, code)
}

// IsHeightClass reports whether code contributes to surface elevation:
// interior water and water edge, never land edge.
func (s ClassSets) IsHeightClass(code float64) bool {
	return contains(s.Interior, code) || contains(s.WaterEdge, code)
}

// RecognizedMask combines mask with class recognition.
func (s ClassSets) RecognizedMask(p *PixelCloud, mask []bool) []bool {
	out := make([]bool, len(mask))
	for i, ok := range mask {
		out[i] = ok && s.Recognized(p.Classification[i])
	}
	return out
}
