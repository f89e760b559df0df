package labels

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pointsFromGrid returns the coordinates of every non-zero cell.
func pointsFromGrid(grid [][]int) []Point {
	var pts []Point
	for y, row := range grid {
		for x, v := range row {
			if v != 0 {
				pts = append(pts, Point{X: x, Y: y})
			}
		}
	}
	return pts
}

func componentSizes(comps [][]Point) []int {
	sizes := make([]int, len(comps))
	for i, c := range comps {
		sizes[i] = len(c)
	}
	sort.Ints(sizes)
	return sizes
}

func TestNewMask_BoundingBox(t *testing.T) {
	m := NewMask([]Point{{X: 3, Y: 5}, {X: 6, Y: 4}, {X: 4, Y: 7}})

	assert.Equal(t, 3, m.MinX)
	assert.Equal(t, 4, m.MinY)
	assert.Equal(t, 4, m.Width)
	assert.Equal(t, 4, m.Height)

	assert.True(t, m.Has(3, 5))
	assert.True(t, m.Has(6, 4))
	assert.False(t, m.Has(5, 5))
	assert.False(t, m.Has(0, 0), "outside the box is always false")
}

func TestMask_Components4(t *testing.T) {
	// Grid (1 = set):
	//
	//	0 1 1 0
	//	1 1 0 0
	//	0 0 1 1
	grid := [][]int{
		{0, 1, 1, 0},
		{1, 1, 0, 0},
		{0, 0, 1, 1},
	}
	comps := NewMask(pointsFromGrid(grid)).Components(Conn4)

	require.Len(t, comps, 2)
	assert.Equal(t, []int{2, 4}, componentSizes(comps))
}

func TestMask_Components8JoinsDiagonals(t *testing.T) {
	grid := [][]int{
		{1, 0, 0, 0, 1},
		{0, 1, 0, 1, 0},
		{0, 0, 1, 0, 0},
		{0, 1, 0, 1, 0},
		{1, 0, 0, 0, 1},
	}
	pts := pointsFromGrid(grid)

	comps8 := NewMask(pts).Components(Conn8)
	require.Len(t, comps8, 1)
	assert.Len(t, comps8[0], 9)

	comps4 := NewMask(pts).Components(Conn4)
	assert.Len(t, comps4, 9, "with Conn4 every diagonal cell is isolated")
}

func TestMask_ComponentsScanOrder(t *testing.T) {
	grid := [][]int{
		{0, 0, 0, 1},
		{1, 1, 0, 0},
	}
	comps := NewMask(pointsFromGrid(grid)).Components(Conn4)

	require.Len(t, comps, 2)
	assert.Equal(t, Point{X: 3, Y: 0}, comps[0][0], "first component starts at the first set pixel in scan order")
	assert.Equal(t, Point{X: 0, Y: 1}, comps[1][0])
}

func TestMask_Empty(t *testing.T) {
	m := NewMask(nil)
	assert.Empty(t, m.Components(Conn8))
	assert.False(t, m.Has(0, 0))
}

func TestConnectivity_Offsets(t *testing.T) {
	assert.Len(t, Conn4.Offsets(), 4)
	assert.Len(t, Conn8.Offsets(), 8)
	for _, d := range Conn8.Offsets() {
		assert.False(t, d[0] == 0 && d[1] == 0, "offsets must exclude the center")
	}
}
