package raster

// BinMap lists, for every cell, the indices of the points that fall in it.
// It is built once per pass and read-only afterwards.
type BinMap struct {
	sizeX, sizeY int
	// offsets[k]:offsets[k+1] bounds cell k's slice of indices.
	offsets []int
	indices []int
}

// NewBinMap assigns every masked point to the cell containing its
// projected position. Points outside the grid, or whose transform fails,
// are dropped. Indices within a cell keep their input order.
func NewBinMap(g *GridDescriptor, lat, lon []float64, mask []bool) *BinMap {
	n := g.Cells()
	cellOf := make([]int, len(lat))
	counts := make([]int, n+1)
	for p := range lat {
		cellOf[p] = -1
		if !mask[p] {
			continue
		}
		i, j, ok := g.Locate(lat[p], lon[p])
		if !ok {
			continue
		}
		k := g.Idx(i, j)
		cellOf[p] = k
		counts[k+1]++
	}
	for k := 1; k <= n; k++ {
		counts[k] += counts[k-1]
	}

	b := &BinMap{
		sizeX:   g.SizeX,
		sizeY:   g.SizeY,
		offsets: counts,
		indices: make([]int, counts[n]),
	}
	next := make([]int, n)
	copy(next, counts[:n])
	for p, k := range cellOf {
		if k < 0 {
			continue
		}
		b.indices[next[k]] = p
		next[k]++
	}
	return b
}

// Cell returns the point indices in cell (i, j). The slice must not be modified.
func (b *BinMap) Cell(i, j int) []int {
	return b.CellAt(i*b.sizeX + j)
}

// CellAt returns the point indices in the cell with flat index k.
func (b *BinMap) CellAt(k int) []int {
	return b.indices[b.offsets[k]:b.offsets[k+1]:b.offsets[k+1]]
}

// Total is the number of mapped points.
func (b *BinMap) Total() int { return len(b.indices) }

// Populated is the number of cells with at least one point.
func (b *BinMap) Populated() int {
	n := 0
	for k := 0; k < b.sizeX*b.sizeY; k++ {
		if b.offsets[k+1] > b.offsets[k] {
			n++
		}
	}
	return n
}
