package testutil

import (
	"math"
	"net/http"
	"testing"
)

func TestAssertHelpersPassingPaths(t *testing.T) {
	t.Parallel()

	AssertStatusCode(t, http.StatusOK, http.StatusOK)
	AssertNoError(t, nil)
	AssertNear(t, "x", 1.0000001, 1, 1e-6)
	AssertNear(t, "nan", math.NaN(), math.NaN(), 0)
}

func TestNewLoopbackRequest(t *testing.T) {
	t.Parallel()

	req := NewLoopbackRequest(http.MethodGet, "/debug/tailsql/")
	if req.Method != http.MethodGet || req.URL.Path != "/debug/tailsql/" {
		t.Errorf("unexpected request %s %s", req.Method, req.URL.Path)
	}
	if req.RemoteAddr != "127.0.0.1:12345" {
		t.Errorf("RemoteAddr = %q", req.RemoteAddr)
	}
}

func TestNewCloud(t *testing.T) {
	t.Parallel()

	pc := NewCloud([]Pixel{
		{Lat: 35.0, Lon: -120.0, Height: 5, Class: 4},
		{Lat: 35.2, Lon: -119.5, Height: 6, Class: 3},
	})
	if pc.Len() != 2 {
		t.Fatalf("Len() = %d", pc.Len())
	}
	if pc.Meta.GeospatialLatMin != 35.0 || pc.Meta.GeospatialLatMax != 35.2 {
		t.Errorf("lat bounds = %g..%g", pc.Meta.GeospatialLatMin, pc.Meta.GeospatialLatMax)
	}
	if pc.Meta.GeospatialLonMin != -120.0 || pc.Meta.GeospatialLonMax != -119.5 {
		t.Errorf("lon bounds = %g..%g", pc.Meta.GeospatialLonMin, pc.Meta.GeospatialLonMax)
	}
	if pc.Classification[1] != 3 || pc.Height[0] != 5 {
		t.Errorf("pixels not copied: %v %v", pc.Classification, pc.Height)
	}
	if pc.Geoid[0] != 0 || pc.PixelArea[1] != DefaultPixelArea {
		t.Errorf("defaults not applied")
	}
}

func TestNewCloudEmpty(t *testing.T) {
	t.Parallel()

	pc := NewCloud(nil)
	if pc.Len() != 0 {
		t.Fatalf("Len() = %d", pc.Len())
	}
	if pc.Meta.GeospatialLatMin != 0 || math.IsInf(pc.Meta.GeospatialLonMax, 0) {
		t.Errorf("empty cloud bounds should be zero, got %+v", pc.Meta)
	}
}

func TestGrid(t *testing.T) {
	t.Parallel()

	px := Grid(10, 20, 0.5, 2, 3, 4, 1.5)
	if len(px) != 6 {
		t.Fatalf("len = %d", len(px))
	}
	last := px[5]
	if last.Lat != 10.5 || last.Lon != 21 || last.Class != 4 || last.Height != 1.5 {
		t.Errorf("last pixel = %+v", last)
	}
}
