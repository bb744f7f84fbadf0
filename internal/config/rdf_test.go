package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sampleRDF = `
! raster processing parameters
projection_type           (-) = geo
resolution                (arcsec) = 3
buffer_size               (-) = 6      ! in resolution units
interior_water_classes    (-) = [4, 24]
water_edge_classes        (-) = [3,23]
land_edge_classes         (-) = [2 22]
dark_water_classes        (-) = []
height_agg_method         (-) = weight
area_agg_method           (-) = simple
do_improved_geolocation   (-) = False
improved_geolocation_smooth_factor (-) = 4
utm_zone_adjust           (-) = -1
latitude_band_adjust      (-) = 2.0
debug_flag                = 1
`

func TestParseRDF(t *testing.T) {
	cfg, err := ParseRDF(strings.NewReader(sampleRDF))
	if err != nil {
		t.Fatalf("ParseRDF() = %v", err)
	}

	if cfg.GetProjectionType() != "geo" {
		t.Errorf("projection = %q", cfg.GetProjectionType())
	}
	if cfg.GetResolution() != 3 || cfg.GetBufferSize() != 6 {
		t.Errorf("resolution/buffer = %g/%g", cfg.GetResolution(), cfg.GetBufferSize())
	}
	if !reflect.DeepEqual(cfg.GetInteriorWaterClasses(), []int{4, 24}) {
		t.Errorf("interior = %v", cfg.GetInteriorWaterClasses())
	}
	if !reflect.DeepEqual(cfg.GetWaterEdgeClasses(), []int{3, 23}) {
		t.Errorf("water edge = %v", cfg.GetWaterEdgeClasses())
	}
	if !reflect.DeepEqual(cfg.GetLandEdgeClasses(), []int{2, 22}) {
		t.Errorf("land edge = %v", cfg.GetLandEdgeClasses())
	}
	if got := cfg.GetDarkWaterClasses(); len(got) != 0 {
		t.Errorf("explicit empty dark list should stay empty, got %v", got)
	}
	if cfg.GetHeightAggMethod() != HeightAggWeighted {
		t.Errorf("height method = %q", cfg.GetHeightAggMethod())
	}
	if cfg.GetAreaAggMethod() != AreaAggSimple {
		t.Errorf("area method = %q", cfg.GetAreaAggMethod())
	}
	if cfg.GetDoImprovedGeolocation() {
		t.Error("do_improved_geolocation should be false")
	}
	if cfg.GetImprovedGeolocationSmoothFactor() != 4 {
		t.Errorf("smooth factor = %g", cfg.GetImprovedGeolocationSmoothFactor())
	}
	if cfg.GetUTMZoneAdjust() != -1 || cfg.GetLatitudeBandAdjust() != 2 {
		t.Errorf("adjust = %d/%d", cfg.GetUTMZoneAdjust(), cfg.GetLatitudeBandAdjust())
	}
	if !cfg.GetDebugFlag() {
		t.Error("debug_flag should be true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestParseRDFErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		unknown bool
	}{
		{name: "unknown key", input: "pixel_size (m) = 10", unknown: true},
		{name: "missing equals", input: "resolution 100"},
		{name: "bad number", input: "resolution = ten"},
		{name: "bad bool", input: "debug_flag = maybe"},
		{name: "fractional integer", input: "utm_zone_adjust = 1.5"},
		{name: "bad list entry", input: "interior_water_classes = [4, x]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRDF(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrUnknownKey); got != tt.unknown {
				t.Errorf("errors.Is(ErrUnknownKey) = %v, want %v (%v)", got, tt.unknown, err)
			}
		})
	}
}

func TestLoadRasterConfigRDF(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "raster.rdf")
	if err := os.WriteFile(configPath, []byte("projection_type (-) = utm\nresolution (m) = 250\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadRasterConfig(configPath)
	if err != nil {
		t.Fatalf("LoadRasterConfig() = %v", err)
	}
	if cfg.GetResolution() != 250 {
		t.Errorf("resolution = %g", cfg.GetResolution())
	}
}

func TestLoadRasterConfigRDFValidates(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "raster.rdf")
	if err := os.WriteFile(configPath, []byte("projection_type = sinusoidal\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRasterConfig(configPath); err == nil {
		t.Error("expected validation error for unknown projection")
	}
}
