package graph

import "fmt"

// Batch is several records merged into one disjoint graph, the input
// layout of a mini-batch.
type Batch struct {
	X         [][]float32 `json:"x"`
	EdgeIndex [2][]int64  `json:"edge_index"`

	// Y holds one label per record.
	Y []int64 `json:"y"`

	// Graph maps every row of X to the index of the record it came from.
	Graph []int64 `json:"batch"`

	NumGraphs int `json:"num_graphs"`
}

// Collate merges records into a batch. Edge endpoints of each record are
// offset by the number of rows stacked before it. Inputs are not
// modified.
func Collate(records []*Record) (*Batch, error) {
	b := &Batch{NumGraphs: len(records)}
	width := -1
	var offset int64

	for gi, r := range records {
		if r == nil {
			return nil, fmt.Errorf("graph: record %d is nil", gi)
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", gi, err)
		}
		if r.NumNodes > 0 {
			if width < 0 {
				width = r.Width()
			} else if r.Width() != width {
				return nil, fmt.Errorf("%w: record %d has width %d, want %d", ErrSchemaMismatch, gi, r.Width(), width)
			}
		}

		for _, row := range r.X {
			b.X = append(b.X, append([]float32(nil), row...))
			b.Graph = append(b.Graph, int64(gi))
		}
		for i := range r.EdgeIndex[0] {
			b.EdgeIndex[0] = append(b.EdgeIndex[0], r.EdgeIndex[0][i]+offset)
			b.EdgeIndex[1] = append(b.EdgeIndex[1], r.EdgeIndex[1][i]+offset)
		}
		b.Y = append(b.Y, r.Y)
		offset += int64(r.NumNodes)
	}
	return b, nil
}
