package graph

import (
	"fmt"
	"sort"
)

// Record is the numeric form of a Graph.
type Record struct {
	// X holds one row per node: color channels, eccentricity, aspect
	// ratio, solidity.
	X [][]float32 `json:"x"`

	// EdgeIndex holds source rows in [0] and target rows in [1].
	EdgeIndex [2][]int64 `json:"edge_index"`

	Y int64 `json:"y"`

	NumNodes int `json:"num_nodes"`
	NumEdges int `json:"num_edges"`

	// Per-attribute columns, row-aligned with X.
	Color        [][]float32 `json:"color"`
	Eccentricity []float32   `json:"eccentricity"`
	AspectRatio  []float32   `json:"aspect_ratio"`
	Solidity     []float32   `json:"solidity"`

	// NodeIDs maps each row back to its region id.
	NodeIDs []int `json:"node_ids"`
}

// Width returns the feature width of the record's rows.
func (r *Record) Width() int {
	if len(r.X) == 0 {
		return 0
	}
	return len(r.X[0])
}

// Record projects g into its numeric form. It does not modify g and
// returns an identical record on every call.
func (g *Graph) Record() *Record {
	rows := make(map[int]int64, len(g.ids))
	for i, id := range g.ids {
		rows[id] = int64(i)
	}

	rec := &Record{
		X:            make([][]float32, len(g.ids)),
		Color:        make([][]float32, len(g.ids)),
		Eccentricity: make([]float32, len(g.ids)),
		AspectRatio:  make([]float32, len(g.ids)),
		Solidity:     make([]float32, len(g.ids)),
		NodeIDs:      append([]int(nil), g.ids...),
		NumNodes:     len(g.ids),
	}
	for i, id := range g.ids {
		n := g.nodes[id]
		color := make([]float32, len(n.Color))
		for c, v := range n.Color {
			color[c] = float32(v)
		}
		rec.Color[i] = color
		rec.Eccentricity[i] = float32(n.Eccentricity)
		rec.AspectRatio[i] = float32(n.AspectRatio)
		rec.Solidity[i] = float32(n.Solidity)

		row := make([]float32, 0, len(color)+3)
		row = append(row, color...)
		row = append(row, rec.Eccentricity[i], rec.AspectRatio[i], rec.Solidity[i])
		rec.X[i] = row
	}

	// Edges come sorted by (U, V); emitting both directions and sorting by
	// source row keeps the columns in (src, dst) order.
	type pair struct{ src, dst int64 }
	edges := g.Edges()
	directed := make([]pair, 0, 2*len(edges))
	for _, e := range edges {
		u, v := rows[e.U], rows[e.V]
		directed = append(directed, pair{u, v}, pair{v, u})
	}
	sort.Slice(directed, func(i, j int) bool {
		if directed[i].src != directed[j].src {
			return directed[i].src < directed[j].src
		}
		return directed[i].dst < directed[j].dst
	})

	rec.EdgeIndex[0] = make([]int64, len(directed))
	rec.EdgeIndex[1] = make([]int64, len(directed))
	for i, p := range directed {
		rec.EdgeIndex[0][i] = p.src
		rec.EdgeIndex[1][i] = p.dst
	}
	rec.NumEdges = len(directed)

	if g.labelled {
		rec.Y = int64(g.label)
	}
	return rec
}

// Validate checks the internal consistency of a record.
func (r *Record) Validate() error {
	if len(r.X) != r.NumNodes {
		return fmt.Errorf("%w: %d feature rows for %d nodes", ErrSchemaMismatch, len(r.X), r.NumNodes)
	}
	if len(r.EdgeIndex[0]) != r.NumEdges || len(r.EdgeIndex[1]) != r.NumEdges {
		return fmt.Errorf("%w: edge index %dx%d for %d edges", ErrSchemaMismatch, len(r.EdgeIndex[0]), len(r.EdgeIndex[1]), r.NumEdges)
	}
	width := r.Width()
	for i, row := range r.X {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has width %d, want %d", ErrSchemaMismatch, i, len(row), width)
		}
	}
	for k := 0; k < 2; k++ {
		for i, v := range r.EdgeIndex[k] {
			if v < 0 || v >= int64(r.NumNodes) {
				return fmt.Errorf("%w: edge %d endpoint %d out of range", ErrSchemaMismatch, i, v)
			}
		}
	}
	return nil
}
