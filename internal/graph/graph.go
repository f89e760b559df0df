package graph

import (
	"errors"
	"fmt"
	"sort"

	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/ironsheep/superpixel-graph/internal/adjacency"
	"github.com/ironsheep/superpixel-graph/internal/imaging"
	"github.com/ironsheep/superpixel-graph/internal/labels"
	"github.com/ironsheep/superpixel-graph/internal/region"
)

var (
	// ErrSchemaMismatch is returned when records or node attributes do not
	// share one feature layout.
	ErrSchemaMismatch = errors.New("graph: schema mismatch")

	// ErrUnknownNode is returned when adjacency refers to an id that has
	// no features.
	ErrUnknownNode = errors.New("graph: unknown node")
)

// Node is the attribute set of one region.
type Node struct {
	ID           int       `json:"id"`
	Color        []float64 `json:"color"`
	Eccentricity float64   `json:"eccentricity"`
	AspectRatio  float64   `json:"aspect_ratio"`
	Solidity     float64   `json:"solidity"`
}

// Graph is an undirected attributed region graph.
type Graph struct {
	topo     *simple.UndirectedGraph
	nodes    map[int]Node
	ids      []int
	channels int

	label    Class
	labelled bool
}

// Option configures Assemble.
type Option func(*Graph)

// WithLabel attaches a class label to the graph.
func WithLabel(c Class) Option {
	return func(g *Graph) {
		g.label = c
		g.labelled = true
	}
}

// Assemble builds a graph from per-region features and per-region
// neighbor lists. Every id named in neighbors must have features.
func Assemble(features []region.Features, neighbors map[int][]int, opts ...Option) (*Graph, error) {
	g := &Graph{
		topo:  simple.NewUndirectedGraph(),
		nodes: make(map[int]Node, len(features)),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.labelled && !g.label.Valid() {
		return nil, fmt.Errorf("graph: invalid label %d", int(g.label))
	}

	for i, f := range features {
		if i == 0 {
			g.channels = len(f.Color)
		} else if len(f.Color) != g.channels {
			return nil, fmt.Errorf("%w: region %d has %d color channels, want %d", ErrSchemaMismatch, f.ID, len(f.Color), g.channels)
		}
		if _, dup := g.nodes[f.ID]; dup {
			return nil, fmt.Errorf("graph: duplicate region %d", f.ID)
		}
		g.nodes[f.ID] = Node{
			ID:           f.ID,
			Color:        append([]float64(nil), f.Color...),
			Eccentricity: f.Eccentricity,
			AspectRatio:  f.AspectRatio,
			Solidity:     f.Solidity,
		}
		g.ids = append(g.ids, f.ID)
		g.topo.AddNode(simple.Node(int64(f.ID)))
	}
	sort.Ints(g.ids)

	var edges adjacency.EdgeSet
	edges.AddAll(neighbors)
	for _, e := range edges.Edges() {
		for _, id := range []int{e.U, e.V} {
			if _, ok := g.nodes[id]; !ok {
				return nil, fmt.Errorf("%w: edge {%d,%d} refers to region %d", ErrUnknownNode, e.U, e.V, id)
			}
		}
		g.topo.SetEdge(simple.Edge{F: simple.Node(int64(e.U)), T: simple.Node(int64(e.V))})
	}
	return g, nil
}

// Build runs feature extraction and adjacency discovery over a label map
// and assembles the result. r and m must have the same dimensions.
func Build(r *imaging.Raster, m *labels.Map, opts ...Option) (*Graph, error) {
	if r == nil || m == nil {
		return nil, errors.New("graph: nil raster or label map")
	}
	if r.Width != m.Width() || r.Height != m.Height() {
		return nil, fmt.Errorf("graph: raster is %dx%d but label map is %dx%d", r.Width, r.Height, m.Width(), m.Height())
	}

	ix := m.Index()
	features, err := region.ExtractAll(r, ix)
	if err != nil {
		return nil, err
	}
	return Assemble(features, adjacency.All(m, ix), opts...)
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.ids) }

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int { return g.topo.Edges().Len() }

// IDs returns the node ids in ascending order.
func (g *Graph) IDs() []int { return append([]int(nil), g.ids...) }

// Channels returns the color channel count shared by all nodes.
func (g *Graph) Channels() int { return g.channels }

// Node returns the attributes of region id.
func (g *Graph) Node(id int) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Neighbors returns the ids adjacent to id in ascending order.
func (g *Graph) Neighbors(id int) []int {
	if g.topo.Node(int64(id)) == nil {
		return nil
	}
	return sortedIDs(gonum.NodesOf(g.topo.From(int64(id))))
}

// HasEdge reports whether regions a and b are adjacent.
func (g *Graph) HasEdge(a, b int) bool {
	return g.topo.HasEdgeBetween(int64(a), int64(b))
}

// Components returns the connected components of the graph, each sorted
// ascending and ordered by smallest member.
func (g *Graph) Components() [][]int {
	var out [][]int
	for _, cc := range topo.ConnectedComponents(g.topo) {
		out = append(out, sortedIDs(cc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// Label returns the class label and whether one was set.
func (g *Graph) Label() (Class, bool) { return g.label, g.labelled }

// Edges returns the undirected edges sorted by (U, V) with U < V.
func (g *Graph) Edges() []adjacency.Edge {
	var s adjacency.EdgeSet
	it := g.topo.Edges()
	for it.Next() {
		e := it.Edge()
		s.Add(int(e.From().ID()), int(e.To().ID()))
	}
	return s.Edges()
}

func sortedIDs(nodes []gonum.Node) []int {
	out := make([]int, len(nodes))
	for i, n := range nodes {
		out[i] = int(n.ID())
	}
	sort.Ints(out)
	return out
}
