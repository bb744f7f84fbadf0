package db

import (
	"bytes"
	"compress/gzip"
	"database/sql"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/water.raster/internal/product"
	"github.com/banshee-data/water.raster/internal/raster"
)

// ErrRunNotFound is returned when no run carries the requested id.
var ErrRunNotFound = errors.New("raster run not found")

// RunSource describes where a stored product came from.
type RunSource struct {
	SourcePath string
	ConfigJSON string
	Populated  int
}

// RasterRun is the summary row of one stored product.
type RasterRun struct {
	RunID            string            `json:"run_id"`
	CreatedAt        time.Time         `json:"created_at"`
	SourcePath       string            `json:"source_path"`
	ConfigJSON       string            `json:"config_json"`
	Projection       raster.Projection `json:"projection"`
	Debug            bool              `json:"debug"`
	Resolution       float64           `json:"resolution"`
	SizeX            int               `json:"size_x"`
	SizeY            int               `json:"size_y"`
	UTMZone          int               `json:"utm_zone,omitempty"`
	MGRSBand         string            `json:"mgrs_band,omitempty"`
	Populated        int               `json:"populated_cells"`
	TAIUTCDifference *float64          `json:"tai_utc_difference,omitempty"`
	CycleNumber      int               `json:"cycle_number"`
	PassNumber       int               `json:"pass_number"`
}

// layerGrid is the serialized form of one channel.
type layerGrid struct {
	Values []float64
	Valid  []bool
}

func serializeGrid(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	enc := gob.NewEncoder(gz)
	if err := enc.Encode(v); err != nil {
		gz.Close()
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deserializeGrid(blob []byte, v interface{}) error {
	gz, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return err
	}
	defer gz.Close()
	return gob.NewDecoder(gz).Decode(v)
}

// SaveRaster stores p and all of its channels in one transaction and
// returns the new run id.
func (db *DB) SaveRaster(p *product.Raster, src RunSource) (string, error) {
	if err := p.Validate(); err != nil {
		return "", fmt.Errorf("invalid product: %w", err)
	}
	runID := uuid.NewString()

	meta, err := json.Marshal(p.Metadata)
	if err != nil {
		return "", fmt.Errorf("failed to encode metadata: %w", err)
	}
	xBlob, err := serializeGrid(p.X)
	if err != nil {
		return "", fmt.Errorf("failed to encode x coordinates: %w", err)
	}
	yBlob, err := serializeGrid(p.Y)
	if err != nil {
		return "", fmt.Errorf("failed to encode y coordinates: %w", err)
	}
	configJSON := src.ConfigJSON
	if configJSON == "" {
		configJSON = "{}"
	}

	var zone sql.NullInt64
	var band sql.NullString
	if p.Metadata.UTM != nil {
		zone = sql.NullInt64{Int64: int64(p.Metadata.UTM.Zone), Valid: true}
		band = sql.NullString{String: p.Metadata.UTM.Band, Valid: true}
	}
	var taiUTC sql.NullFloat64
	if p.Metadata.TAIUTCDifference != product.FillFloat {
		taiUTC = sql.NullFloat64{Float64: p.Metadata.TAIUTCDifference, Valid: true}
	}

	tx, err := db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO raster_runs (
			run_id, created_unix_nanos, source_path, config_json, projection, debug,
			resolution, size_x, size_y, utm_zone, mgrs_band, populated_cells,
			tai_utc_difference, cycle_number, pass_number, metadata_json, x_blob, y_blob
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, db.clock.Now().UnixNano(), src.SourcePath, configJSON, string(p.Projection), p.Debug,
		p.Metadata.Resolution, p.Metadata.SizeX, p.Metadata.SizeY, zone, band, src.Populated,
		taiUTC, p.Metadata.CycleNumber, p.Metadata.PassNumber, string(meta), xBlob, yBlob,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	for ordinal, c := range p.Channels {
		grid := layerGrid{Values: c.Data, Valid: make([]bool, len(c.Data))}
		valid := 0
		for k, v := range c.Data {
			if v != c.FillValue {
				grid.Valid[k] = true
				valid++
			}
		}
		blob, err := serializeGrid(grid)
		if err != nil {
			return "", fmt.Errorf("failed to encode channel %s: %w", c.Name, err)
		}
		_, err = tx.Exec(`
			INSERT INTO raster_layers (run_id, channel, ordinal, units, fill_value, valid, grid_blob)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, c.Name, ordinal, c.Units, c.FillValue, valid, blob,
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert channel %s: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

const runColumns = `run_id, created_unix_nanos, source_path, config_json, projection, debug,
	resolution, size_x, size_y, utm_zone, mgrs_band, populated_cells,
	tai_utc_difference, cycle_number, pass_number`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(s rowScanner) (RasterRun, error) {
	var r RasterRun
	var created int64
	var projection string
	var zone sql.NullInt64
	var band sql.NullString
	var taiUTC sql.NullFloat64
	err := s.Scan(&r.RunID, &created, &r.SourcePath, &r.ConfigJSON, &projection, &r.Debug,
		&r.Resolution, &r.SizeX, &r.SizeY, &zone, &band, &r.Populated,
		&taiUTC, &r.CycleNumber, &r.PassNumber)
	if err != nil {
		return r, err
	}
	r.CreatedAt = time.Unix(0, created).UTC()
	r.Projection = raster.Projection(projection)
	r.UTMZone = int(zone.Int64)
	r.MGRSBand = band.String
	if taiUTC.Valid {
		v := taiUTC.Float64
		r.TAIUTCDifference = &v
	}
	return r, nil
}

// ListRuns returns stored runs, newest first. limit <= 0 returns all runs.
func (db *DB) ListRuns(limit int) ([]RasterRun, error) {
	query := `SELECT ` + runColumns + ` FROM raster_runs ORDER BY created_unix_nanos DESC, run_id`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RasterRun
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns the summary row of run id.
func (db *DB) GetRun(id string) (*RasterRun, error) {
	r, err := scanRun(db.QueryRow(`SELECT `+runColumns+` FROM raster_runs WHERE run_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// LoadRaster rebuilds the product stored under run id.
func (db *DB) LoadRaster(id string) (*product.Raster, error) {
	var projection, meta string
	var debug bool
	var xBlob, yBlob []byte
	err := db.QueryRow(`SELECT projection, debug, metadata_json, x_blob, y_blob FROM raster_runs WHERE run_id = ?`, id).
		Scan(&projection, &debug, &meta, &xBlob, &yBlob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	p := &product.Raster{Projection: raster.Projection(projection), Debug: debug}
	if err := json.Unmarshal([]byte(meta), &p.Metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if err := deserializeGrid(xBlob, &p.X); err != nil {
		return nil, fmt.Errorf("failed to decode x coordinates: %w", err)
	}
	if err := deserializeGrid(yBlob, &p.Y); err != nil {
		return nil, fmt.Errorf("failed to decode y coordinates: %w", err)
	}
	p.XName, p.YName = "x", "y"
	if p.Projection == raster.ProjectionGeo {
		p.XName, p.YName = "longitude", "latitude"
	}

	rows, err := db.Query(`SELECT channel, units, fill_value, grid_blob FROM raster_layers WHERE run_id = ? ORDER BY ordinal`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var c product.Channel
		var blob []byte
		if err := rows.Scan(&c.Name, &c.Units, &c.FillValue, &blob); err != nil {
			return nil, err
		}
		var grid layerGrid
		if err := deserializeGrid(blob, &grid); err != nil {
			return nil, fmt.Errorf("failed to decode channel %s: %w", c.Name, err)
		}
		c.Data = make([]float64, len(grid.Values))
		for k, v := range grid.Values {
			if k < len(grid.Valid) && grid.Valid[k] {
				c.Data[k] = v
			} else {
				c.Data[k] = c.FillValue
			}
		}
		p.Channels = append(p.Channels, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("stored product is inconsistent: %w", err)
	}
	return p, nil
}

// DeleteRun removes run id and its layers.
func (db *DB) DeleteRun(id string) error {
	res, err := db.Exec(`DELETE FROM raster_runs WHERE run_id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}
