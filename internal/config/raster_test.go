package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefaultRasterConfig(t *testing.T) {
	cfg := DefaultRasterConfig()

	if cfg.ProjectionType == nil || *cfg.ProjectionType != "utm" {
		t.Errorf("Expected ProjectionType utm, got %v", cfg.ProjectionType)
	}
	if cfg.Resolution == nil || *cfg.Resolution != 100 {
		t.Errorf("Expected Resolution 100, got %v", cfg.Resolution)
	}
	if cfg.DoImprovedGeolocation == nil || !*cfg.DoImprovedGeolocation {
		t.Errorf("Expected DoImprovedGeolocation true, got %v", cfg.DoImprovedGeolocation)
	}
	if cfg.GetHeightAggMethod() != HeightAggWeighted {
		t.Errorf("GetHeightAggMethod() = %q, want weighted", cfg.GetHeightAggMethod())
	}
	if cfg.GetAreaAggMethod() != AreaAggComposite {
		t.Errorf("GetAreaAggMethod() = %q, want composite", cfg.GetAreaAggMethod())
	}
	if cfg.GetImprovedGeolocationSmoothFactor() != 5 {
		t.Errorf("GetImprovedGeolocationSmoothFactor() = %g, want 5", cfg.GetImprovedGeolocationSmoothFactor())
	}
	if !reflect.DeepEqual(cfg.GetDarkWaterClasses(), []int{22, 23, 24}) {
		t.Errorf("GetDarkWaterClasses() = %v", cfg.GetDarkWaterClasses())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestEmptyConfigFallsBackToDefaults(t *testing.T) {
	empty := EmptyRasterConfig()
	def := DefaultRasterConfig()

	if empty.GetProjectionType() != def.GetProjectionType() {
		t.Errorf("projection mismatch")
	}
	if empty.GetWorkers() != 1 || empty.GetBufferSize() != 0 {
		t.Errorf("unexpected workers/buffer defaults: %d %g", empty.GetWorkers(), empty.GetBufferSize())
	}
	if !reflect.DeepEqual(empty.GetInteriorWaterClasses(), []int{4, 24}) {
		t.Errorf("GetInteriorWaterClasses() = %v", empty.GetInteriorWaterClasses())
	}
	if !reflect.DeepEqual(empty.GetWaterEdgeClasses(), []int{3, 23}) {
		t.Errorf("GetWaterEdgeClasses() = %v", empty.GetWaterEdgeClasses())
	}
	if !reflect.DeepEqual(empty.GetLandEdgeClasses(), []int{2, 22}) {
		t.Errorf("GetLandEdgeClasses() = %v", empty.GetLandEdgeClasses())
	}
}

func TestGetHeightAggMethodLegacyNames(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"simple", HeightAggSimple},
		{"mean", HeightAggSimple},
		{"weighted", HeightAggWeighted},
		{"weight", HeightAggWeighted},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cfg := &RasterConfig{HeightAggMethod: ptrString(tt.in)}
			if err := cfg.Validate(); err != nil {
				t.Fatalf("Validate() = %v", err)
			}
			if got := cfg.GetHeightAggMethod(); got != tt.want {
				t.Errorf("GetHeightAggMethod() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *RasterConfig
		wantErr bool
	}{
		{name: "valid config", cfg: DefaultRasterConfig()},
		{name: "empty config is valid", cfg: &RasterConfig{}},
		{name: "geo projection", cfg: &RasterConfig{ProjectionType: ptrString("geo")}},
		{name: "unknown projection", cfg: &RasterConfig{ProjectionType: ptrString("mercator")}, wantErr: true},
		{name: "zero resolution", cfg: &RasterConfig{Resolution: ptrFloat64(0)}, wantErr: true},
		{name: "negative buffer", cfg: &RasterConfig{BufferSize: ptrFloat64(-1)}, wantErr: true},
		{name: "unknown height method", cfg: &RasterConfig{HeightAggMethod: ptrString("median")}, wantErr: true},
		{name: "unknown area method", cfg: &RasterConfig{AreaAggMethod: ptrString("exact")}, wantErr: true},
		{name: "unknown geoloc method", cfg: &RasterConfig{ImprovedGeolocationMethod: ptrString("lsq")}, wantErr: true},
		{name: "zero smooth factor", cfg: &RasterConfig{ImprovedGeolocationSmoothFactor: ptrFloat64(0)}, wantErr: true},
		{name: "zero workers", cfg: &RasterConfig{Workers: ptrInt(0)}, wantErr: true},
		{name: "negative zone adjust", cfg: &RasterConfig{UTMZoneAdjust: ptrInt(-3)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadRasterConfigMissing(t *testing.T) {
	_, err := LoadRasterConfig("/nonexistent/path/to/config.json")
	if err == nil {
		t.Error("Expected error when loading missing file, got nil")
	}
}

func TestLoadRasterConfigInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid_config.json")
	if err := os.WriteFile(configPath, []byte(`{"resolution": "wide"`), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	if _, err := LoadRasterConfig(configPath); err == nil {
		t.Error("Expected error when loading invalid JSON, got nil")
	}
}

func TestLoadRasterConfigPartial(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "partial.json")
	if err := os.WriteFile(configPath, []byte(`{"projection_type": "geo", "resolution": 3}`), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadRasterConfig(configPath)
	if err != nil {
		t.Fatalf("LoadRasterConfig() = %v", err)
	}
	if cfg.GetProjectionType() != "geo" || cfg.GetResolution() != 3 {
		t.Errorf("overrides not applied: %q %g", cfg.GetProjectionType(), cfg.GetResolution())
	}
	if cfg.GetAreaAggMethod() != AreaAggComposite {
		t.Errorf("unset field should keep default, got %q", cfg.GetAreaAggMethod())
	}
}

func TestLoadRasterConfigRejectsUnknownProjection(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bad.json")
	if err := os.WriteFile(configPath, []byte(`{"projection_type": "polar"}`), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	_, err := LoadRasterConfig(configPath)
	if err == nil || !strings.Contains(err.Error(), "projection_type") {
		t.Errorf("expected projection_type error, got %v", err)
	}
}

func TestLoadRasterConfigRejectsOtherExtensions(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("resolution: 100"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRasterConfig(configPath); err == nil {
		t.Error("Expected error for .yaml extension")
	}
}

func TestLoadRasterConfigRejectsLargeFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "huge.json")
	data := make([]byte, maxFileSize+1)
	for i := range data {
		data[i] = ' '
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadRasterConfig(configPath)
	if err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("expected size error, got %v", err)
	}
}

func TestLoadDefaultConfigFile(t *testing.T) {
	cfg, err := LoadRasterConfig("../../config/raster.defaults.json")
	if err != nil {
		t.Fatalf("Failed to load defaults: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultRasterConfig()) {
		t.Errorf("defaults file disagrees with accessor defaults:\n got %+v\nwant %+v", cfg, DefaultRasterConfig())
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	if cfg.GetResolution() != 100 {
		t.Errorf("GetResolution() = %g, want 100", cfg.GetResolution())
	}
}
