package pixc

import "testing"

func defaultSets() ClassSets {
	return ClassSets{
		Interior:  []int{ClassOpenWater, ClassDarkWater},
		WaterEdge: []int{ClassWaterNearLand, ClassDarkWaterEdge},
		LandEdge:  []int{ClassLandNearWater, ClassLandNearDarkWater},
		Dark:      []int{ClassDarkWater, ClassDarkWaterEdge, ClassLandNearDarkWater},
	}
}

func TestRemap(t *testing.T) {
	s := defaultSets()
	tests := []struct {
		code float64
		want Klass
	}{
		{4, KlassInteriorWater},
		{24, KlassInteriorWater},
		{3, KlassWaterEdge},
		{23, KlassWaterEdge},
		{2, KlassLandEdge},
		{22, KlassLandEdge},
		{1, KlassNone},
		{5, KlassNone},
	}
	for _, tt := range tests {
		if got := s.Remap(tt.code); got != tt.want {
			t.Errorf("Remap(%g) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestRemapOverlapPrecedence(t *testing.T) {
	s := ClassSets{Interior: []int{7}, WaterEdge: []int{7, 8}, LandEdge: []int{8}}
	if got := s.Remap(7); got != KlassWaterEdge {
		t.Errorf("Remap(7) = %v, want water_edge", got)
	}
	if got := s.Remap(8); got != KlassLandEdge {
		t.Errorf("Remap(8) = %v, want land_edge", got)
	}
}

func TestRecognizedAndDark(t *testing.T) {
	s := ClassSets{Interior: []int{4}, Dark: []int{30}}
	if !s.Recognized(30) {
		t.Error("dark-only code should be recognized")
	}
	if s.Recognized(1) {
		t.Error("land should not be recognized")
	}
	if !s.IsDark(30) || s.IsDark(4) {
		t.Error("IsDark mismatch")
	}
	if !s.IsHeightClass(4) || s.IsHeightClass(30) {
		t.Error("IsHeightClass mismatch")
	}
	if defaultSets().IsHeightClass(ClassLandNearWater) {
		t.Error("land edge must not carry height")
	}
}

func TestRecognizedMask(t *testing.T) {
	s := defaultSets()
	pc := &PixelCloud{Classification: Float64s{4, 1, 3, 2}}
	got := s.RecognizedMask(pc, []bool{true, true, false, true})
	want := []bool{true, false, false, true}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("mask[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestKlassString(t *testing.T) {
	if KlassLandEdge.String() != "land_edge" || KlassNone.String() != "none" {
		t.Error("unexpected Klass names")
	}
}
