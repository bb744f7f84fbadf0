package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrUnknownKey is returned by ParseRDF for a key that is not a raster option.
var ErrUnknownKey = errors.New("unknown configuration key")

// ParseRDF reads the line-oriented RDF format used by processing
// configuration files:
//
//	projection_type        (-) = utm
//	resolution             (m) = 100      ! trailing comment
//	interior_water_classes (-) = [4, 24]
//
// The parenthesised units field is optional and ignored. Blank lines and
// anything after '!' are skipped.
func ParseRDF(r io.Reader) (*RasterConfig, error) {
	cfg := EmptyRasterConfig()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '!'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			return nil, fmt.Errorf("line %d: missing '='", lineNo)
		}
		key := strings.TrimSpace(line[:eq])
		value := strings.TrimSpace(line[eq+1:])
		if p := strings.IndexByte(key, '('); p >= 0 {
			key = strings.TrimSpace(key[:p])
		}
		if key == "" {
			return nil, fmt.Errorf("line %d: empty key", lineNo)
		}
		if err := cfg.setRDF(key, value); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read RDF: %w", err)
	}
	return cfg, nil
}

func (c *RasterConfig) setRDF(key, value string) error {
	var err error
	switch key {
	case "projection_type":
		c.ProjectionType = ptrString(value)
	case "resolution":
		c.Resolution, err = rdfFloat(key, value)
	case "buffer_size":
		c.BufferSize, err = rdfFloat(key, value)
	case "height_agg_method":
		c.HeightAggMethod = ptrString(value)
	case "area_agg_method":
		c.AreaAggMethod = ptrString(value)
	case "interior_water_classes":
		c.InteriorWaterClasses, err = rdfIntList(key, value)
	case "water_edge_classes":
		c.WaterEdgeClasses, err = rdfIntList(key, value)
	case "land_edge_classes":
		c.LandEdgeClasses, err = rdfIntList(key, value)
	case "dark_water_classes":
		c.DarkWaterClasses, err = rdfIntList(key, value)
	case "do_improved_geolocation":
		c.DoImprovedGeolocation, err = rdfBool(key, value)
	case "improved_geolocation_method":
		c.ImprovedGeolocationMethod = ptrString(value)
	case "improved_geolocation_smooth_factor":
		c.ImprovedGeolocationSmoothFactor, err = rdfFloat(key, value)
	case "utm_zone_adjust":
		c.UTMZoneAdjust, err = rdfInt(key, value)
	case "latitude_band_adjust":
		c.LatitudeBandAdjust, err = rdfInt(key, value)
	case "debug_flag":
		c.DebugFlag, err = rdfBool(key, value)
	case "workers":
		c.Workers, err = rdfInt(key, value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return err
}

func rdfFloat(key, value string) (*float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid number %q", key, value)
	}
	return &v, nil
}

// rdfInt accepts integral floats ("5.0") since RDF files are not typed.
func rdfInt(key, value string) (*int, error) {
	if v, err := strconv.Atoi(value); err == nil {
		return &v, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f != float64(int(f)) {
		return nil, fmt.Errorf("%s: invalid integer %q", key, value)
	}
	v := int(f)
	return &v, nil
}

func rdfBool(key, value string) (*bool, error) {
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return ptrBool(true), nil
	case "false", "0", "no", "off":
		return ptrBool(false), nil
	}
	return nil, fmt.Errorf("%s: invalid boolean %q", key, value)
}

func rdfIntList(key, value string) ([]int, error) {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "[")
	value = strings.TrimSuffix(value, "]")
	out := []int{}
	for _, field := range strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' }) {
		v, err := rdfInt(key, field)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}
