// Package segment partitions a raster into superpixels.
//
// The algorithm is SLIC (simple linear iterative clustering): cluster
// centers are seeded on a regular grid with spacing S = sqrt(N/K), then
// refined by local k-means in a five-dimensional space of CIELAB color plus
// (y, x) position. Each center only competes for pixels within a 2S×2S
// window around it. The distance between a pixel and a center is
//
//	D² = dc² + (m/S)² · ds²
//
// where dc is the Lab distance, ds the spatial distance and m the
// compactness. Low compactness favours color similarity over square,
// grid-like superpixels.
//
// # Connectivity
//
// Local k-means alone can leave a cluster split into several islands. After
// clustering, every 4-connected component is relabelled in raster scan
// order; components smaller than MinSizeFactor·N/K are merged into the
// component labelled just before them. The resulting label map has ids
// 0..K'-1, one id per connected component, and every id owns at least one
// pixel.
//
// # Determinism
//
// Seeding is grid-based and ties are broken by center order, so the output
// depends only on the raster and the Config.
package segment
