package product

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/banshee-data/water.raster/internal/fsutil"
)

// WriteJSON encodes p to w.
func WriteJSON(w io.Writer, p *Raster) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("failed to encode product: %w", err)
	}
	return nil
}

// ReadJSON decodes a product from r, which may be gzip-compressed.
func ReadJSON(r io.Reader) (*Raster, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read product: %w", err)
	}
	var src io.Reader = bytes.NewReader(data)
	if len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b {
		gz, err := gzip.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		src = gz
	}
	p := &Raster{}
	if err := json.NewDecoder(src).Decode(p); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid product: %w", err)
	}
	return p, nil
}

// Save writes p to path as JSON, gzip-compressed when path ends in ".gz".
func Save(fsys fsutil.FileSystem, path string, p *Raster) error {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	var w io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz = gzip.NewWriter(f)
		w = gz
	}
	if err := WriteJSON(w, p); err != nil {
		f.Close()
		return err
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			f.Close()
			return fmt.Errorf("failed to close gzip writer: %w", err)
		}
	}
	return f.Close()
}

// Load reads a product written by Save.
func Load(fsys fsutil.FileSystem, path string) (*Raster, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read product: %w", err)
	}
	return ReadJSON(bytes.NewReader(data))
}
