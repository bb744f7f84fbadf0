package pixc

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/banshee-data/water.raster/internal/fsutil"
)

// maxCloudSize bounds the decompressed size of a pixel-cloud file.
const maxCloudSize = 4 << 30

// LoadJSON reads a pixel cloud from path. Gzip-compressed files are
// detected by their magic bytes. The returned cloud is normalized.
func LoadJSON(fsys fsutil.FileSystem, path string) (*PixelCloud, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pixel cloud: %w", err)
	}
	return Decode(bytes.NewReader(data))
}

// Decode reads a (possibly gzip-compressed) JSON pixel cloud from r. The
// decompressed stream is bounded by maxCloudSize.
func Decode(r io.Reader) (*PixelCloud, error) {
	br := bufio.NewReader(r)
	var src io.Reader = br
	if magic, _ := br.Peek(2); len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		src = io.LimitReader(gz, maxCloudSize)
	}

	pc := &PixelCloud{}
	if err := json.NewDecoder(src).Decode(pc); err != nil {
		return nil, fmt.Errorf("failed to decode pixel cloud: %w", err)
	}
	if err := pc.Normalize(); err != nil {
		return nil, fmt.Errorf("invalid pixel cloud: %w", err)
	}
	return pc, nil
}

// WriteJSON writes p to path, gzip-compressed when path ends in ".gz".
func WriteJSON(fsys fsutil.FileSystem, path string, p *PixelCloud) error {
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
	if err := json.NewEncoder(w).Encode(p); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode pixel cloud: %w", err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			f.Close()
			return fmt.Errorf("failed to close gzip writer: %w", err)
		}
	}
	return f.Close()
}
