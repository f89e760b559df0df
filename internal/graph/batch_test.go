package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/superpixel-graph/internal/region"
)

func TestCollate(t *testing.T) {
	g1, err := Assemble([]region.Features{feat(0, 1, 1, 1), feat(1, 2, 2, 2)}, map[int][]int{0: {1}}, WithLabel(Forest))
	require.NoError(t, err)
	g2, err := Assemble([]region.Features{feat(0, 3, 3, 3), feat(1, 4, 4, 4), feat(2, 5, 5, 5)}, map[int][]int{1: {2}}, WithLabel(Street))
	require.NoError(t, err)

	r1, r2 := g1.Record(), g2.Record()
	b, err := Collate([]*Record{r1, r2})
	require.NoError(t, err)

	assert.Equal(t, 2, b.NumGraphs)
	assert.Len(t, b.X, 5)
	assert.Equal(t, []int64{0, 0, 1, 1, 1}, b.Graph)
	assert.Equal(t, []int64{int64(Forest), int64(Street)}, b.Y)
	assert.Equal(t, []int64{0, 1, 3, 4}, b.EdgeIndex[0])
	assert.Equal(t, []int64{1, 0, 4, 3}, b.EdgeIndex[1])

	// Inputs untouched.
	assert.Equal(t, []int64{1, 2}, r2.EdgeIndex[0])
	b.X[0][0] = 99
	assert.Equal(t, float32(1), r1.X[0][0])
}

func TestCollate_SchemaMismatch(t *testing.T) {
	rgb, err := Assemble([]region.Features{feat(0, 1, 1, 1)}, nil)
	require.NoError(t, err)
	gray, err := Assemble([]region.Features{feat(0, 1)}, nil)
	require.NoError(t, err)

	_, err = Collate([]*Record{rgb.Record(), gray.Record()})
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestCollate_Empty(t *testing.T) {
	b, err := Collate(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, b.NumGraphs)
	assert.Empty(t, b.X)
}
