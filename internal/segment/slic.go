package segment

import (
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/superpixel-graph/internal/imaging"
	"github.com/ironsheep/superpixel-graph/internal/labels"
)

// center is a cluster centroid in (color, y, x) space.
type center struct {
	color []float64
	y, x  float64
}

// Segment partitions r into approximately cfg.Segments contiguous regions.
//
// Returns ErrDegenerateInput (wrapped) when r has zero area or no channels
// or when cfg is invalid. The raster is not modified.
func Segment(r *imaging.Raster, cfg Config) (*labels.Map, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: nil raster", ErrDegenerateInput)
	}
	if r.Area() == 0 || r.Channels <= 0 {
		return nil, fmt.Errorf("%w: raster is %dx%dx%d", ErrDegenerateInput, r.Width, r.Height, r.Channels)
	}
	if len(r.Pix) != r.Width*r.Height*r.Channels {
		return nil, fmt.Errorf("%w: %d values for %dx%dx%d raster", ErrDegenerateInput, len(r.Pix), r.Width, r.Height, r.Channels)
	}

	feat := imaging.LabRaster(imaging.Smooth(r, cfg.Sigma))
	assigned, n := cluster(feat, cfg)
	cells := enforceConnectivity(assigned, r.Width, r.Height, n, cfg)

	return labels.New(r.Width, r.Height, cells)
}

// SegmentImage converts img to a raster and segments it.
func SegmentImage(img image.Image, cfg Config) (*labels.Map, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrDegenerateInput)
	}
	return Segment(imaging.FromImage(img), cfg)
}

// seedCenters places centers on a regular grid with spacing close to step.
func seedCenters(feat *imaging.Raster, step float64) []center {
	w, h := feat.Width, feat.Height
	rows := max(1, int(math.Round(float64(h)/step)))
	cols := max(1, int(math.Round(float64(w)/step)))
	dy := float64(h) / float64(rows)
	dx := float64(w) / float64(cols)

	centers := make([]center, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			y := (float64(i) + 0.5) * dy
			x := (float64(j) + 0.5) * dx
			px := feat.Pixel(min(int(x), w-1), min(int(y), h-1))
			centers = append(centers, center{
				color: append([]float64(nil), px...),
				y:     y,
				x:     x,
			})
		}
	}
	return centers
}

// cluster runs the SLIC k-means loop and returns a label per pixel plus the
// number of centers used.
func cluster(feat *imaging.Raster, cfg Config) ([]int, int) {
	w, h, ch := feat.Width, feat.Height, feat.Channels
	n := w * h
	k := min(cfg.Segments, n)
	step := math.Sqrt(float64(n) / float64(k))
	centers := seedCenters(feat, step)

	spatialWeight := (cfg.Compactness / step) * (cfg.Compactness / step)
	window := int(math.Ceil(2 * step))

	assigned := make([]int, n)
	for i := range assigned {
		assigned[i] = -1
	}
	prev := make([]int, n)
	dist := make([]float64, n)
	sums := make([]float64, len(centers)*(ch+2))
	counts := make([]int, len(centers))

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		copy(prev, assigned)
		for i := range dist {
			dist[i] = math.Inf(1)
		}

		for ci, c := range centers {
			cy, cx := int(c.y), int(c.x)
			y0, y1 := max(0, cy-window), min(h, cy+window+1)
			x0, x1 := max(0, cx-window), min(w, cx+window+1)
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					i := y*w + x
					d := colorDistance(feat.Pix[i*ch:(i+1)*ch], c.color)
					dyf, dxf := float64(y)-c.y, float64(x)-c.x
					d += spatialWeight * (dyf*dyf + dxf*dxf)
					if d < dist[i] {
						dist[i] = d
						assigned[i] = ci
					}
				}
			}
		}

		// Centers may drift far enough to leave pixels outside every
		// window; those fall back to the spatially nearest center.
		for i := range dist {
			if !math.IsInf(dist[i], 1) {
				continue
			}
			y, x := float64(i/w), float64(i%w)
			best, bestD := 0, math.Inf(1)
			for ci, c := range centers {
				d := (y-c.y)*(y-c.y) + (x-c.x)*(x-c.x)
				if d < bestD {
					best, bestD = ci, d
				}
			}
			assigned[i] = best
		}

		changed := 0
		for i := range assigned {
			if assigned[i] != prev[i] {
				changed++
			}
		}
		if changed == 0 {
			break
		}

		for i := range sums {
			sums[i] = 0
		}
		for i := range counts {
			counts[i] = 0
		}
		for i, ci := range assigned {
			base := ci * (ch + 2)
			for c := 0; c < ch; c++ {
				sums[base+c] += feat.Pix[i*ch+c]
			}
			sums[base+ch] += float64(i / w)
			sums[base+ch+1] += float64(i % w)
			counts[ci]++
		}
		for ci := range centers {
			if counts[ci] == 0 {
				continue
			}
			base := ci * (ch + 2)
			cnt := float64(counts[ci])
			for c := 0; c < ch; c++ {
				centers[ci].color[c] = sums[base+c] / cnt
			}
			centers[ci].y = sums[base+ch] / cnt
			centers[ci].x = sums[base+ch+1] / cnt
		}
	}

	return assigned, len(centers)
}

func colorDistance(a, b []float64) float64 {
	var d float64
	for i := range a {
		diff := a[i] - b[i]
		d += diff * diff
	}
	return d
}

// enforceConnectivity relabels every 4-connected component of assigned in
// scan order and folds undersized components into the component labelled
// next to their first pixel. Output ids are contiguous from 0.
func enforceConnectivity(assigned []int, w, h, numCenters int, cfg Config) []int {
	n := w * h
	segmentSize := float64(n) / float64(numCenters)
	minSize := int(cfg.MinSizeFactor * segmentSize)
	maxSize := n
	if cfg.MaxSizeFactor > 0 {
		maxSize = max(1, int(cfg.MaxSizeFactor*segmentSize))
	}
	offsets := labels.Conn4.Offsets()

	out := make([]int, n)
	for i := range out {
		out[i] = -1
	}
	next := 0
	var component []int

	for start := 0; start < n; start++ {
		if out[start] >= 0 {
			continue
		}
		sx, sy := start%w, start/w

		adjacent := -1
		for _, d := range offsets {
			nx, ny := sx+d[0], sy+d[1]
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			if l := out[ny*w+nx]; l >= 0 {
				adjacent = l
				break
			}
		}

		old := assigned[start]
		out[start] = next
		component = append(component[:0], start)

	grow:
		for qi := 0; qi < len(component); qi++ {
			px, py := component[qi]%w, component[qi]/w
			for _, d := range offsets {
				if len(component) >= maxSize {
					break grow
				}
				nx, ny := px+d[0], py+d[1]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				j := ny*w + nx
				if out[j] < 0 && assigned[j] == old {
					out[j] = next
					component = append(component, j)
				}
			}
		}

		if len(component) < minSize && adjacent >= 0 {
			for _, i := range component {
				out[i] = adjacent
			}
			continue
		}
		next++
	}
	return out
}
