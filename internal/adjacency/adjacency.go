// Package adjacency derives region contact from a label map.
//
// Two regions are adjacent when some pixel of one has an 8-connected
// neighbor (diagonals included) belonging to the other. Discovery runs per
// region and returns that region's view of its neighbors; deduplication of
// the resulting undirected pairs is the job of EdgeSet.
package adjacency

import (
	"sort"

	"github.com/ironsheep/superpixel-graph/internal/labels"
)

// Neighbors returns the distinct ids, other than id, found in the
// 8-neighborhood of any of pixels, in ascending order.
//
// pixels is normally ix.Pixels(id) for an index built from m.
func Neighbors(m *labels.Map, pixels []labels.Point, id int) []int {
	seen := make(map[int]struct{})
	for _, p := range pixels {
		for _, d := range labels.Conn8.Offsets() {
			x, y := p.X+d[0], p.Y+d[1]
			if !m.InBounds(x, y) {
				continue
			}
			if other := m.At(x, y); other != id {
				seen[other] = struct{}{}
			}
		}
	}

	out := make([]int, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// All runs Neighbors for every region of ix.
func All(m *labels.Map, ix *labels.Index) map[int][]int {
	out := make(map[int][]int, ix.Len())
	for _, id := range ix.IDs() {
		out[id] = Neighbors(m, ix.Pixels(id), id)
	}
	return out
}
