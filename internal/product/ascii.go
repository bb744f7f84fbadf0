package product

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/banshee-data/water.raster/internal/fsutil"
)

// WriteASCIIGrid writes one channel of p as an ESRI ASCII grid. Rows are
// written north to south and no-data cells carry the channel's fill value.
func WriteASCIIGrid(w io.Writer, p *Raster, channel string) error {
	c := p.Channel(channel)
	if c == nil {
		return fmt.Errorf("%w: %s", ErrUnknownChannel, channel)
	}
	m := p.Metadata
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "ncols %d\n", m.SizeX)
	fmt.Fprintf(bw, "nrows %d\n", m.SizeY)
	fmt.Fprintf(bw, "xllcorner %s\n", formatFloat(m.XMin-m.Resolution/2))
	fmt.Fprintf(bw, "yllcorner %s\n", formatFloat(m.YMin-m.Resolution/2))
	fmt.Fprintf(bw, "cellsize %s\n", formatFloat(m.Resolution))
	fmt.Fprintf(bw, "NODATA_value %s\n", formatFloat(c.FillValue))
	for i := m.SizeY - 1; i >= 0; i-- {
		row := c.Data[i*m.SizeX : (i+1)*m.SizeX]
		for j, v := range row {
			if j > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(formatFloat(v))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ExportASCIIGrids writes every channel of p to dir as <channel>.asc and
// returns the written paths.
func ExportASCIIGrids(fsys fsutil.FileSystem, dir string, p *Raster) ([]string, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	var paths []string
	for _, c := range p.Channels {
		path := filepath.Join(dir, c.Name+".asc")
		f, err := fsys.Create(path)
		if err != nil {
			return paths, fmt.Errorf("failed to create %s: %w", path, err)
		}
		if err := WriteASCIIGrid(f, p, c.Name); err != nil {
			f.Close()
			return paths, err
		}
		if err := f.Close(); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
