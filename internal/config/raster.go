package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultConfigPath is the path to the canonical raster defaults file.
const DefaultConfigPath = "config/raster.defaults.json"

// maxFileSize bounds every configuration file read from disk.
const maxFileSize = 1 * 1024 * 1024 // 1MB

// Projection and method names accepted by the raster processor.
const (
	ProjectionUTM = "utm"
	ProjectionGeo = "geo"

	HeightAggSimple   = "simple"
	HeightAggWeighted = "weighted"

	AreaAggSimple    = "simple"
	AreaAggComposite = "composite"

	GeolocTaylor = "taylor"
	GeolocNone   = "none"
)

// RasterConfig is the operator-facing configuration of a rasterization run.
// Every field is optional; the Get* accessors supply the documented default
// for anything left unset, so partial files are safe.
type RasterConfig struct {
	ProjectionType *string  `json:"projection_type,omitempty"`
	Resolution     *float64 `json:"resolution,omitempty"` // metres (utm) or arc-seconds (geo)
	BufferSize     *float64 `json:"buffer_size,omitempty"`

	HeightAggMethod *string `json:"height_agg_method,omitempty"`
	AreaAggMethod   *string `json:"area_agg_method,omitempty"`

	InteriorWaterClasses []int `json:"interior_water_classes,omitempty"`
	WaterEdgeClasses     []int `json:"water_edge_classes,omitempty"`
	LandEdgeClasses      []int `json:"land_edge_classes,omitempty"`
	DarkWaterClasses     []int `json:"dark_water_classes,omitempty"`

	DoImprovedGeolocation           *bool    `json:"do_improved_geolocation,omitempty"`
	ImprovedGeolocationMethod       *string  `json:"improved_geolocation_method,omitempty"`
	ImprovedGeolocationSmoothFactor *float64 `json:"improved_geolocation_smooth_factor,omitempty"`

	UTMZoneAdjust      *int `json:"utm_zone_adjust,omitempty"`
	LatitudeBandAdjust *int `json:"latitude_band_adjust,omitempty"`

	DebugFlag *bool `json:"debug_flag,omitempty"`
	Workers   *int  `json:"workers,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyRasterConfig returns a RasterConfig with all fields unset.
func EmptyRasterConfig() *RasterConfig {
	return &RasterConfig{}
}

// DefaultRasterConfig returns a RasterConfig with every field populated
// from the accessor defaults.
func DefaultRasterConfig() *RasterConfig {
	e := EmptyRasterConfig()
	return &RasterConfig{
		ProjectionType:                  ptrString(e.GetProjectionType()),
		Resolution:                      ptrFloat64(e.GetResolution()),
		BufferSize:                      ptrFloat64(e.GetBufferSize()),
		HeightAggMethod:                 ptrString(e.GetHeightAggMethod()),
		AreaAggMethod:                   ptrString(e.GetAreaAggMethod()),
		InteriorWaterClasses:            e.GetInteriorWaterClasses(),
		WaterEdgeClasses:                e.GetWaterEdgeClasses(),
		LandEdgeClasses:                 e.GetLandEdgeClasses(),
		DarkWaterClasses:                e.GetDarkWaterClasses(),
		DoImprovedGeolocation:           ptrBool(e.GetDoImprovedGeolocation()),
		ImprovedGeolocationMethod:       ptrString(e.GetImprovedGeolocationMethod()),
		ImprovedGeolocationSmoothFactor: ptrFloat64(e.GetImprovedGeolocationSmoothFactor()),
		UTMZoneAdjust:                   ptrInt(e.GetUTMZoneAdjust()),
		LatitudeBandAdjust:              ptrInt(e.GetLatitudeBandAdjust()),
		DebugFlag:                       ptrBool(e.GetDebugFlag()),
		Workers:                         ptrInt(e.GetWorkers()),
	}
}

// LoadRasterConfig loads a RasterConfig from a .json or .rdf file.
// The file must be under the max file size. The result is validated.
func LoadRasterConfig(path string) (*RasterConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".json" && ext != ".rdf" {
		return nil, fmt.Errorf("config file must have .json or .rdf extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg *RasterConfig
	if ext == ".rdf" {
		cfg, err = ParseRDF(strings.NewReader(string(data)))
		if err != nil {
			return nil, fmt.Errorf("failed to parse config RDF: %w", err)
		}
	} else {
		cfg = EmptyRasterConfig()
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath.
// It searches the current directory and common parent directories and
// panics if the file cannot be loaded. Intended for test setup.
func MustLoadDefaultConfig() *RasterConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/<pkg>/ and cmd/<tool>/
		"../../../" + DefaultConfigPath, // from nested packages
	}
	for _, path := range candidates {
		if cfg, err := LoadRasterConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks the values that are set. Unset fields are not errors.
func (c *RasterConfig) Validate() error {
	if c.ProjectionType != nil {
		switch *c.ProjectionType {
		case ProjectionUTM, ProjectionGeo:
		default:
			return fmt.Errorf("unknown projection_type %q (want utm or geo)", *c.ProjectionType)
		}
	}
	if c.Resolution != nil && *c.Resolution <= 0 {
		return fmt.Errorf("resolution must be positive, got %g", *c.Resolution)
	}
	if c.BufferSize != nil && *c.BufferSize < 0 {
		return fmt.Errorf("buffer_size must be non-negative, got %g", *c.BufferSize)
	}
	if c.HeightAggMethod != nil && normalizeHeightMethod(*c.HeightAggMethod) == "" {
		return fmt.Errorf("unknown height_agg_method %q", *c.HeightAggMethod)
	}
	if c.AreaAggMethod != nil {
		switch *c.AreaAggMethod {
		case AreaAggSimple, AreaAggComposite:
		default:
			return fmt.Errorf("unknown area_agg_method %q", *c.AreaAggMethod)
		}
	}
	if c.ImprovedGeolocationMethod != nil {
		switch *c.ImprovedGeolocationMethod {
		case GeolocTaylor, GeolocNone:
		default:
			return fmt.Errorf("unknown improved_geolocation_method %q", *c.ImprovedGeolocationMethod)
		}
	}
	if c.ImprovedGeolocationSmoothFactor != nil && *c.ImprovedGeolocationSmoothFactor <= 0 {
		return fmt.Errorf("improved_geolocation_smooth_factor must be positive, got %g", *c.ImprovedGeolocationSmoothFactor)
	}
	if c.Workers != nil && *c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", *c.Workers)
	}
	return nil
}

// normalizeHeightMethod maps legacy names onto the canonical ones.
// It returns "" for unknown names.
func normalizeHeightMethod(m string) string {
	switch m {
	case HeightAggSimple, "mean":
		return HeightAggSimple
	case HeightAggWeighted, "weight":
		return HeightAggWeighted
	}
	return ""
}

// GetProjectionType returns the projection_type value or the default.
func (c *RasterConfig) GetProjectionType() string {
	if c.ProjectionType == nil {
		return ProjectionUTM
	}
	return *c.ProjectionType
}

// GetResolution returns the resolution value or the default.
func (c *RasterConfig) GetResolution() float64 {
	if c.Resolution == nil {
		return 100
	}
	return *c.Resolution
}

// GetBufferSize returns the buffer_size value or the default.
func (c *RasterConfig) GetBufferSize() float64 {
	if c.BufferSize == nil {
		return 0
	}
	return *c.BufferSize
}

// GetHeightAggMethod returns the canonical height_agg_method or the default.
func (c *RasterConfig) GetHeightAggMethod() string {
	if c.HeightAggMethod == nil {
		return HeightAggWeighted
	}
	if m := normalizeHeightMethod(*c.HeightAggMethod); m != "" {
		return m
	}
	return HeightAggWeighted
}

// GetAreaAggMethod returns the area_agg_method value or the default.
func (c *RasterConfig) GetAreaAggMethod() string {
	if c.AreaAggMethod == nil {
		return AreaAggComposite
	}
	return *c.AreaAggMethod
}

// GetInteriorWaterClasses returns the interior_water_classes value or the default.
func (c *RasterConfig) GetInteriorWaterClasses() []int {
	if c.InteriorWaterClasses == nil {
		return []int{4, 24}
	}
	return c.InteriorWaterClasses
}

// GetWaterEdgeClasses returns the water_edge_classes value or the default.
func (c *RasterConfig) GetWaterEdgeClasses() []int {
	if c.WaterEdgeClasses == nil {
		return []int{3, 23}
	}
	return c.WaterEdgeClasses
}

// GetLandEdgeClasses returns the land_edge_classes value or the default.
func (c *RasterConfig) GetLandEdgeClasses() []int {
	if c.LandEdgeClasses == nil {
		return []int{2, 22}
	}
	return c.LandEdgeClasses
}

// GetDarkWaterClasses returns the dark_water_classes value or the default.
func (c *RasterConfig) GetDarkWaterClasses() []int {
	if c.DarkWaterClasses == nil {
		return []int{22, 23, 24}
	}
	return c.DarkWaterClasses
}

// GetDoImprovedGeolocation returns the do_improved_geolocation value or the default.
func (c *RasterConfig) GetDoImprovedGeolocation() bool {
	if c.DoImprovedGeolocation == nil {
		return true
	}
	return *c.DoImprovedGeolocation
}

// GetImprovedGeolocationMethod returns the improved_geolocation_method value or the default.
func (c *RasterConfig) GetImprovedGeolocationMethod() string {
	if c.ImprovedGeolocationMethod == nil {
		return GeolocTaylor
	}
	return *c.ImprovedGeolocationMethod
}

// GetImprovedGeolocationSmoothFactor returns the smoothing multiplier or the default.
func (c *RasterConfig) GetImprovedGeolocationSmoothFactor() float64 {
	if c.ImprovedGeolocationSmoothFactor == nil {
		return 5
	}
	return *c.ImprovedGeolocationSmoothFactor
}

// GetUTMZoneAdjust returns the utm_zone_adjust value or the default.
func (c *RasterConfig) GetUTMZoneAdjust() int {
	if c.UTMZoneAdjust == nil {
		return 0
	}
	return *c.UTMZoneAdjust
}

// GetLatitudeBandAdjust returns the latitude_band_adjust value or the default.
func (c *RasterConfig) GetLatitudeBandAdjust() int {
	if c.LatitudeBandAdjust == nil {
		return 0
	}
	return *c.LatitudeBandAdjust
}

// GetDebugFlag returns the debug_flag value or the default.
func (c *RasterConfig) GetDebugFlag() bool {
	if c.DebugFlag == nil {
		return false
	}
	return *c.DebugFlag
}

// GetWorkers returns the workers value or the default.
func (c *RasterConfig) GetWorkers() int {
	if c.Workers == nil {
		return 1
	}
	return *c.Workers
}
