package adjacency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/superpixel-graph/internal/labels"
)

func mustMap(t *testing.T, grid [][]int) *labels.Map {
	t.Helper()
	m, err := labels.From2D(grid)
	require.NoError(t, err)
	return m
}

func TestNeighbors_Split(t *testing.T) {
	m := mustMap(t, [][]int{
		{0, 0, 1, 1},
		{0, 0, 1, 1},
		{0, 0, 1, 1},
		{0, 0, 1, 1},
	})
	ix := m.Index()

	assert.Equal(t, []int{1}, Neighbors(m, ix.Pixels(0), 0))
	assert.Equal(t, []int{0}, Neighbors(m, ix.Pixels(1), 1))
}

func TestNeighbors_DiagonalContact(t *testing.T) {
	m := mustMap(t, [][]int{
		{0, 2},
		{3, 1},
	})
	ix := m.Index()

	assert.Equal(t, []int{1, 2, 3}, Neighbors(m, ix.Pixels(0), 0))
	assert.Equal(t, []int{0, 2, 3}, Neighbors(m, ix.Pixels(1), 1))
}

func TestNeighbors_SingleRegion(t *testing.T) {
	m := mustMap(t, [][]int{{4, 4}, {4, 4}})
	assert.Empty(t, Neighbors(m, m.Index().Pixels(4), 4))
}

func TestNeighbors_Enclosed(t *testing.T) {
	m := mustMap(t, [][]int{
		{0, 0, 0, 0, 0},
		{0, 1, 1, 1, 0},
		{0, 1, 2, 1, 0},
		{0, 1, 1, 1, 0},
		{0, 0, 0, 0, 0},
	})
	all := All(m, m.Index())

	assert.Equal(t, []int{1}, all[0])
	assert.Equal(t, []int{0, 2}, all[1])
	assert.Equal(t, []int{1}, all[2], "inner region touches only the ring")
}

func TestAll_SymmetricAndIrreflexive(t *testing.T) {
	grids := map[string][][]int{
		"checkerboard": {
			{0, 1, 0, 1},
			{1, 0, 1, 0},
			{0, 1, 0, 1},
		},
		"stripes": {
			{0, 1, 2, 3, 4},
			{0, 1, 2, 3, 4},
		},
		"sparse ids": {
			{7, 7, 30},
			{12, 30, 30},
		},
	}

	for name, grid := range grids {
		t.Run(name, func(t *testing.T) {
			all := All(mustMap(t, grid), mustMap(t, grid).Index())
			for id, ns := range all {
				for i, n := range ns {
					assert.NotEqual(t, id, n, "self-loop on %d", id)
					if i > 0 {
						assert.Less(t, ns[i-1], n, "neighbors of %d not sorted/distinct", id)
					}
					assert.Contains(t, all[n], id, "%d~%d not symmetric", id, n)
				}
			}
		})
	}
}

func TestAll_Stripes(t *testing.T) {
	m := mustMap(t, [][]int{
		{0, 1, 2},
		{0, 1, 2},
	})
	all := All(m, m.Index())

	assert.Equal(t, []int{1}, all[0])
	assert.Equal(t, []int{0, 2}, all[1])
	assert.Equal(t, []int{1}, all[2], "0 and 2 never touch")
}
