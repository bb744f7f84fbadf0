package raster

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/water.raster/internal/crs"
)

// Projection selects the grid's coordinate system.
type Projection string

const (
	ProjectionUTM Projection = "utm"
	ProjectionGeo Projection = "geo"
)

// ErrUnknownProjection is returned for a projection other than utm or geo.
var ErrUnknownProjection = errors.New("unknown projection type")

// GridParams are the inputs of the grid projector.
type GridParams struct {
	Projection Projection
	// Resolution is the cell size in metres (utm) or degrees (geo).
	Resolution float64
	// Buffer widens every side of the extent, in Resolution units of measure.
	Buffer float64
	// ZoneAdjust and BandAdjust shift the UTM zone/band picked from the
	// scene centroid.
	ZoneAdjust int
	BandAdjust int
}

// GridDescriptor is a regular grid aligned to the resolution lattice of
// its coordinate system. Cell (i, j) is row i (y) and column j (x), with
// centre (X(j), Y(i)).
type GridDescriptor struct {
	Projection Projection
	Resolution float64
	Buffer     float64

	// UTM only.
	Zone       int
	Band       byte
	Hemisphere byte

	XMin, XMax float64
	YMin, YMax float64
	SizeX      int
	SizeY      int

	System crs.System
}

// LonTo180 wraps a longitude into [-180, 180).
func LonTo180(lon float64) float64 {
	l := math.Mod(lon+180, 360)
	if l < 0 {
		l += 360
	}
	return l - 180
}

// NewGridDescriptor builds the grid covering the four scene corners.
//
// For utm the zone and band come from the corner centroid, adjusted by
// ZoneAdjust (wrapping) and BandAdjust (clamping), and the lower-left and
// upper-right corners of the geodetic bounding box are projected into that
// zone. Extents are then snapped to the nearest multiple of the resolution
// measured from the projection's false origin and widened by the buffer
// rounded to whole cells.
func NewGridDescriptor(corners [4]crs.LatLon, p GridParams) (*GridDescriptor, error) {
	if p.Projection != ProjectionUTM && p.Projection != ProjectionGeo {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProjection, p.Projection)
	}
	if !(p.Resolution > 0) {
		return nil, fmt.Errorf("resolution must be positive, got %g", p.Resolution)
	}

	latMin, latMax := math.Inf(1), math.Inf(-1)
	lonMin, lonMax := math.Inf(1), math.Inf(-1)
	var latSum, lonSum float64
	for _, c := range corners {
		lon := LonTo180(c.Lon)
		latMin = math.Min(latMin, c.Lat)
		latMax = math.Max(latMax, c.Lat)
		lonMin = math.Min(lonMin, lon)
		lonMax = math.Max(lonMax, lon)
		latSum += c.Lat
		lonSum += lon
	}
	if isBad(latMin) || isBad(latMax) || isBad(lonMin) || isBad(lonMax) {
		return nil, fmt.Errorf("scene bounds are not finite: lat [%g, %g] lon [%g, %g]", latMin, latMax, lonMin, lonMax)
	}

	g := &GridDescriptor{
		Projection: p.Projection,
		Resolution: p.Resolution,
		XMin:       lonMin,
		XMax:       lonMax,
		YMin:       latMin,
		YMax:       latMax,
		System:     crs.Geographic{},
	}
	var originX, originY float64

	if p.Projection == ProjectionUTM {
		latMid, lonMid := latSum/4, lonSum/4
		g.Zone = crs.AdjustZone(crs.ZoneNumber(latMid, lonMid), p.ZoneAdjust)
		g.Band = crs.AdjustBand(crs.BandLetter(latMid), p.BandAdjust)
		g.Hemisphere = crs.Hemisphere(g.Band)

		utm, err := crs.NewUTM(g.Zone, g.Band)
		if err != nil {
			return nil, fmt.Errorf("build utm zone %d%c: %w", g.Zone, g.Band, err)
		}
		g.System = utm
		if g.XMin, g.YMin, err = utm.Forward(latMin, lonMin); err != nil {
			return nil, fmt.Errorf("project lower-left corner: %w", err)
		}
		if g.XMax, g.YMax, err = utm.Forward(latMax, lonMax); err != nil {
			return nil, fmt.Errorf("project upper-right corner: %w", err)
		}
		originX, originY = utm.FalseEasting(), utm.FalseNorthing()
	}

	res := p.Resolution
	// whole cells, never less than requested; the epsilon absorbs
	// arc-second conversion error on exact multiples
	g.Buffer = math.Ceil(p.Buffer/res-1e-9) * res
	g.XMin = snap(g.XMin, originX, res) - g.Buffer
	g.XMax = snap(g.XMax, originX, res) + g.Buffer
	g.YMin = snap(g.YMin, originY, res) - g.Buffer
	g.YMax = snap(g.YMax, originY, res) + g.Buffer
	g.SizeX = int(math.Round((g.XMax-g.XMin)/res)) + 1
	g.SizeY = int(math.Round((g.YMax-g.YMin)/res)) + 1
	if g.SizeX < 1 {
		g.SizeX = 1
	}
	if g.SizeY < 1 {
		g.SizeY = 1
	}
	return g, nil
}

// snap rounds v to the nearest lattice point origin + k*res.
func snap(v, origin, res float64) float64 {
	return math.Round((v-origin)/res)*res + origin
}

func isBad(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// Cells is the number of cells in the grid.
func (g *GridDescriptor) Cells() int { return g.SizeX * g.SizeY }

// Idx is the row-major flat index of cell (i, j).
func (g *GridDescriptor) Idx(i, j int) int { return i*g.SizeX + j }

// X is the x coordinate of column j's centre.
func (g *GridDescriptor) X(j int) float64 { return g.XMin + float64(j)*g.Resolution }

// Y is the y coordinate of row i's centre.
func (g *GridDescriptor) Y(i int) float64 { return g.YMin + float64(i)*g.Resolution }

// CellIndex returns the cell containing projected point (x, y), with ok
// false when the point is outside the grid.
func (g *GridDescriptor) CellIndex(x, y float64) (i, j int, ok bool) {
	fi := math.Round((y - g.YMin) / g.Resolution)
	fj := math.Round((x - g.XMin) / g.Resolution)
	if isBad(fi) || isBad(fj) || fi < 0 || fj < 0 || fi >= float64(g.SizeY) || fj >= float64(g.SizeX) {
		return 0, 0, false
	}
	return int(fi), int(fj), true
}

// Locate projects (lat, lon) into the grid's system and returns its cell.
// lon may be given in either [-180, 180) or [0, 360).
func (g *GridDescriptor) Locate(lat, lon float64) (i, j int, ok bool) {
	x, y, err := g.System.Forward(lat, LonTo180(lon))
	if err != nil {
		return 0, 0, false
	}
	return g.CellIndex(x, y)
}

// CellArea is the area in square metres of a cell in row i: res² for utm,
// the WGS84 ellipsoidal area at the row's latitude for geo.
func (g *GridDescriptor) CellArea(i int) float64 {
	if g.Projection == ProjectionGeo {
		return crs.WGS84CellArea(g.Y(i), g.Resolution)
	}
	return g.Resolution * g.Resolution
}

func (g *GridDescriptor) String() string {
	if g.Projection == ProjectionUTM {
		return fmt.Sprintf("utm %d%c res=%g x=[%.1f, %.1f] y=[%.1f, %.1f] size=%dx%d",
			g.Zone, g.Band, g.Resolution, g.XMin, g.XMax, g.YMin, g.YMax, g.SizeX, g.SizeY)
	}
	return fmt.Sprintf("geo res=%g lon=[%.6f, %.6f] lat=[%.6f, %.6f] size=%dx%d",
		g.Resolution, g.XMin, g.XMax, g.YMin, g.YMax, g.SizeX, g.SizeY)
}
