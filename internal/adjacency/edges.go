package adjacency

import "sort"

// Edge is an undirected pair with U < V.
type Edge struct {
	U, V int
}

// EdgeSet accumulates undirected edges, ignoring duplicates in either
// orientation and self-loops. The zero value is ready to use.
type EdgeSet struct {
	edges map[Edge]struct{}
}

// Add records the edge {a, b}. It reports whether the edge was new.
func (s *EdgeSet) Add(a, b int) bool {
	if a == b {
		return false
	}
	if a > b {
		a, b = b, a
	}
	if s.edges == nil {
		s.edges = make(map[Edge]struct{})
	}
	e := Edge{U: a, V: b}
	if _, ok := s.edges[e]; ok {
		return false
	}
	s.edges[e] = struct{}{}
	return true
}

// AddAll adds an edge from every id in neighbors to its listed neighbors.
func (s *EdgeSet) AddAll(neighbors map[int][]int) {
	for id, ns := range neighbors {
		for _, n := range ns {
			s.Add(id, n)
		}
	}
}

// Has reports whether {a, b} was added.
func (s *EdgeSet) Has(a, b int) bool {
	if a > b {
		a, b = b, a
	}
	_, ok := s.edges[Edge{U: a, V: b}]
	return ok
}

// Len returns the number of distinct edges.
func (s *EdgeSet) Len() int { return len(s.edges) }

// Edges returns the edges sorted by (U, V).
func (s *EdgeSet) Edges() []Edge {
	out := make([]Edge, 0, len(s.edges))
	for e := range s.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].U != out[j].U {
			return out[i].U < out[j].U
		}
		return out[i].V < out[j].V
	})
	return out
}
