package crs

import (
	"math"
	"testing"
)

func TestLLHToECEF(t *testing.T) {
	tests := []struct {
		name         string
		lat, lon, h  float64
		wantX, wantY float64
		wantZ        float64
	}{
		{"equator prime meridian", 0, 0, 0, SemiMajorAxis, 0, 0},
		{"equator 90E with height", 0, 90, 100, 0, SemiMajorAxis + 100, 0},
		{"north pole", 90, 0, 0, 0, 0, SemiMinorAxis},
		{"south pole", -90, 45, 0, 0, 0, -SemiMinorAxis},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := LLHToECEF(tt.lat, tt.lon, tt.h)
			if math.Abs(v.X-tt.wantX) > 1e-6 || math.Abs(v.Y-tt.wantY) > 1e-6 || math.Abs(v.Z-tt.wantZ) > 1e-3 {
				t.Errorf("LLHToECEF = %v, want (%g, %g, %g)", v, tt.wantX, tt.wantY, tt.wantZ)
			}
		})
	}
}

func TestLLHToECEFHeightIsRadial(t *testing.T) {
	base := LLHToECEF(38.5, -121.5, 0)
	up := LLHToECEF(38.5, -121.5, 1000)
	if d := up.Sub(base).Norm(); math.Abs(d-1000) > 1e-6 {
		t.Errorf("1 km height step moved %g m", d)
	}
}

func TestWGS84CellArea(t *testing.T) {
	// one degree at the equator is about 111.32 km by 110.57 km
	got := WGS84CellArea(0, 1)
	want := 111319.49 * 110574.39
	if math.Abs(got-want)/want > 1e-3 {
		t.Errorf("WGS84CellArea(0, 1) = %g, want ~%g", got, want)
	}

	// total ellipsoid surface
	total := 2 * WGS84CellArea(0, 180)
	if math.Abs(total-5.10065622e14) > 1e9 {
		t.Errorf("ellipsoid area = %g, want ~5.10066e14", total)
	}

	// cells shrink towards the poles and are symmetric about the equator
	if WGS84CellArea(60, 1) >= WGS84CellArea(30, 1) {
		t.Error("cell area should decrease with latitude")
	}
	if math.Abs(WGS84CellArea(45, 0.01)-WGS84CellArea(-45, 0.01)) > 1e-6 {
		t.Error("cell area should be symmetric about the equator")
	}
}
