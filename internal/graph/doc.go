// Package graph assembles region features and adjacency into an attributed
// graph and projects it into the fixed numeric layout a graph classifier
// consumes.
//
// # Attributed Graph
//
// A Graph holds one node per region id, carrying the region's average
// color, eccentricity, aspect ratio and solidity, and one undirected edge
// per adjacent pair. Topology is stored in a gonum simple.UndirectedGraph,
// so there are never parallel edges or self-loops.
//
// # Numeric Graph Record
//
// Record projects a Graph into:
//
//	X          [num_nodes][C+3]float32   color..., eccentricity, aspect_ratio, solidity
//	EdgeIndex  [2][num_edges]int64       row positions into X
//	Y          int64                     class index (0 when unlabeled)
//
// Rows follow ascending region id. A single id → row map is built once and
// used for both X and EdgeIndex, so feature rows and edge endpoints always
// agree. EdgeIndex lists each undirected edge in both directions, sorted
// by (source, target), which is the layout message-passing layers expect.
//
// Collate stacks several records into one disjoint batch graph.
package graph
