package main

import "math"

// SpatialCellSize is ~2x the largest body radius (boss 3.0)
const SpatialCellSize = 6.0

// EntityRef identifies an entity in the grid
type EntityRef struct {
	Idx int // roster index
}

// SpatialGrid is a broad-phase grid over the XZ plane centred on the origin.
// Positions outside the covered area land in the border cells.
type SpatialGrid struct {
	cols, rows   int
	halfX, halfZ float64
	cells        [][]EntityRef
}

// NewSpatialGrid covers [-halfX,halfX] x [-halfZ,halfZ]
func NewSpatialGrid(halfX, halfZ float64) *SpatialGrid {
	cols := int(math.Ceil(2 * halfX / SpatialCellSize))
	rows := int(math.Ceil(2 * halfZ / SpatialCellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &SpatialGrid{
		cols:  cols,
		rows:  rows,
		halfX: halfX,
		halfZ: halfZ,
		cells: make([][]EntityRef, cols*rows),
	}
}

// Clear resets all cells (keeps allocated capacity)
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func (g *SpatialGrid) col(x float64) int {
	c := int(math.Floor((x + g.halfX) / SpatialCellSize))
	if c < 0 {
		return 0
	}
	if c >= g.cols {
		return g.cols - 1
	}
	return c
}

func (g *SpatialGrid) row(z float64) int {
	r := int(math.Floor((z + g.halfZ) / SpatialCellSize))
	if r < 0 {
		return 0
	}
	if r >= g.rows {
		return g.rows - 1
	}
	return r
}

// Insert adds an entity reference at the given position
func (g *SpatialGrid) Insert(x, z float64, ref EntityRef) {
	idx := g.row(z)*g.cols + g.col(x)
	g.cells[idx] = append(g.cells[idx], ref)
}

// InsertCircle adds an entity reference to all cells overlapping its bounding box
func (g *SpatialGrid) InsertCircle(x, z, radius float64, ref EntityRef) {
	minC, maxC := g.col(x-radius), g.col(x+radius)
	minR, maxR := g.row(z-radius), g.row(z+radius)
	for r := minR; r <= maxR; r++ {
		for c := minC; c <= maxC; c++ {
			idx := r*g.cols + c
			g.cells[idx] = append(g.cells[idx], ref)
		}
	}
}

// QueryBuf appends the refs of every cell overlapping the query box to buf.
// A ref inserted with InsertCircle may appear more than once.
func (g *SpatialGrid) QueryBuf(x, z, radius float64, buf []EntityRef) []EntityRef {
	minC, maxC := g.col(x-radius), g.col(x+radius)
	minR, maxR := g.row(z-radius), g.row(z+radius)
	for r := minR; r <= maxR; r++ {
		for c := minC; c <= maxC; c++ {
			buf = append(buf, g.cells[r*g.cols+c]...)
		}
	}
	return buf
}
