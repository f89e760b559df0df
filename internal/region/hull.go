package region

import (
	"sort"

	"github.com/ironsheep/superpixel-graph/internal/labels"
)

// vec is a point in continuous image coordinates.
type vec struct {
	X, Y float64
}

// hullEpsilon absorbs rounding when testing points against hull edges.
const hullEpsilon = 1e-9

func cross(o, a, b vec) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// convexHull returns the hull of pts in counter-clockwise order using the
// monotone chain algorithm. Collinear points are dropped.
func convexHull(pts []vec) []vec {
	if len(pts) < 3 {
		return append([]vec(nil), pts...)
	}

	sorted := append([]vec(nil), pts...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	hull := make([]vec, 0, 2*len(sorted))
	for _, p := range sorted {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// insideHull reports whether p lies inside or on the CCW polygon hull.
func insideHull(hull []vec, p vec) bool {
	for i := range hull {
		a, b := hull[i], hull[(i+1)%len(hull)]
		if cross(a, b, p) < -hullEpsilon {
			return false
		}
	}
	return true
}

// convexArea counts the pixels whose centers lie in the convex hull of the
// edge midpoints of pixels.
//
// Only the leftmost and rightmost pixel of each row can contribute hull
// vertices, so the hull is built from their midpoints.
func convexArea(pixels []labels.Point) int {
	if len(pixels) == 0 {
		return 0
	}

	type span struct{ lo, hi int }
	rows := make(map[int]span)
	minX, maxX := pixels[0].X, pixels[0].X
	minY, maxY := pixels[0].Y, pixels[0].Y
	for _, p := range pixels {
		s, ok := rows[p.Y]
		if !ok {
			s = span{lo: p.X, hi: p.X}
		}
		s.lo = min(s.lo, p.X)
		s.hi = max(s.hi, p.X)
		rows[p.Y] = s
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	midpoints := make([]vec, 0, len(rows)*8)
	for y, s := range rows {
		fy := float64(y)
		for _, x := range []int{s.lo, s.hi} {
			fx := float64(x)
			midpoints = append(midpoints,
				vec{fx - 0.5, fy},
				vec{fx + 0.5, fy},
				vec{fx, fy - 0.5},
				vec{fx, fy + 0.5},
			)
		}
	}
	hull := convexHull(midpoints)

	count := 0
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if insideHull(hull, vec{float64(x), float64(y)}) {
				count++
			}
		}
	}
	return count
}
