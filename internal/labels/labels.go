// Package labels defines the label map produced by segmentation: a grid
// the size of the source image where each cell holds the id of the region
// that owns that pixel.
//
// A Map is immutable once built. Region ids are unique per map but need
// not be contiguous or start at zero. Every id that appears in a map owns
// at least one pixel by construction, so callers may rely on non-empty
// masks for any id returned by IDs or Index.
package labels

import (
	"errors"
	"fmt"
	"sort"
)

// ErrShape indicates a label grid that is empty or not rectangular.
var ErrShape = errors.New("labels: label grid must be non-empty and rectangular")

// Point is a pixel coordinate.
type Point struct {
	X, Y int
}

// Map is an immutable per-pixel region id grid.
type Map struct {
	width  int
	height int
	cells  []int
}

// New builds a Map from row-major cells. The slice is copied.
func New(width, height int, cells []int) (*Map, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrShape, width, height)
	}
	if len(cells) != width*height {
		return nil, fmt.Errorf("%w: %d cells for %dx%d grid", ErrShape, len(cells), width, height)
	}
	return &Map{
		width:  width,
		height: height,
		cells:  append([]int(nil), cells...),
	}, nil
}

// From2D builds a Map from a [y][x] grid.
func From2D(grid [][]int) (*Map, error) {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return nil, ErrShape
	}
	width := len(grid[0])
	cells := make([]int, 0, width*len(grid))
	for y, row := range grid {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrShape, y, len(row), width)
		}
		cells = append(cells, row...)
	}
	return &Map{width: width, height: len(grid), cells: cells}, nil
}

// Width returns the number of columns.
func (m *Map) Width() int { return m.width }

// Height returns the number of rows.
func (m *Map) Height() int { return m.height }

// At returns the region id at (x, y). The coordinate must be in bounds.
func (m *Map) At(x, y int) int {
	return m.cells[y*m.width+x]
}

// InBounds reports whether (x, y) lies inside the grid.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

// IDs returns the distinct region ids in ascending order.
func (m *Map) IDs() []int {
	seen := make(map[int]struct{})
	for _, id := range m.cells {
		seen[id] = struct{}{}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Rows returns a [y][x] copy of the grid.
func (m *Map) Rows() [][]int {
	rows := make([][]int, m.height)
	for y := range rows {
		rows[y] = append([]int(nil), m.cells[y*m.width:(y+1)*m.width]...)
	}
	return rows
}

// Index groups the pixels of m by region id.
//
// Pixels of each region are listed in raster scan order (row by row, left
// to right), which downstream connected-component labelling relies on for
// deterministic tie-breaking.
func (m *Map) Index() *Index {
	ix := &Index{pixels: make(map[int][]Point)}
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			id := m.cells[y*m.width+x]
			ix.pixels[id] = append(ix.pixels[id], Point{X: x, Y: y})
		}
	}
	ix.ids = make([]int, 0, len(ix.pixels))
	for id := range ix.pixels {
		ix.ids = append(ix.ids, id)
	}
	sort.Ints(ix.ids)
	return ix
}

// Index maps each region id of a Map to its pixels.
type Index struct {
	ids    []int
	pixels map[int][]Point
}

// IDs returns the region ids in ascending order. The slice must not be
// modified.
func (ix *Index) IDs() []int { return ix.ids }

// Len returns the number of regions.
func (ix *Index) Len() int { return len(ix.ids) }

// Pixels returns the pixels of region id in scan order, or nil when the id
// is not present.
func (ix *Index) Pixels(id int) []Point { return ix.pixels[id] }
