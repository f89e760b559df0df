package region

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/superpixel-graph/internal/imaging"
	"github.com/ironsheep/superpixel-graph/internal/labels"
)

// ErrInvariantViolation signals a region that the label map contract says
// cannot exist: an id with no pixels, or a pixel outside the raster.
var ErrInvariantViolation = errors.New("region: invariant violation")

// degenerateEigen is the relative magnitude below which the minor
// eigenvalue is treated as exactly zero.
const degenerateEigen = 1e-12

// Shape holds the geometric descriptors of one region.
type Shape struct {
	// Area is the pixel count of the component the descriptors describe.
	Area int `json:"area"`

	Eccentricity float64 `json:"eccentricity"`
	AspectRatio  float64 `json:"aspect_ratio"`
	Solidity     float64 `json:"solidity"`

	MajorAxis float64 `json:"major_axis_length"`
	MinorAxis float64 `json:"minor_axis_length"`

	// Components is the number of 8-connected islands in the region's
	// mask. Anything above 1 means the descriptors cover only the largest.
	Components int `json:"components"`
}

// Features is everything the graph assembler attaches to a node.
type Features struct {
	ID    int       `json:"id"`
	Color []float64 `json:"color"`
	Shape
}

// AverageColor returns the per-channel mean of r over pixels.
func AverageColor(r *imaging.Raster, pixels []labels.Point) ([]float64, error) {
	if len(pixels) == 0 {
		return nil, fmt.Errorf("%w: empty pixel mask", ErrInvariantViolation)
	}
	sum := make([]float64, r.Channels)
	for _, p := range pixels {
		if p.X < 0 || p.X >= r.Width || p.Y < 0 || p.Y >= r.Height {
			return nil, fmt.Errorf("%w: pixel (%d,%d) outside %dx%d raster", ErrInvariantViolation, p.X, p.Y, r.Width, r.Height)
		}
		for c, v := range r.Pixel(p.X, p.Y) {
			sum[c] += v
		}
	}
	n := float64(len(pixels))
	for c := range sum {
		sum[c] /= n
	}
	return sum, nil
}

// ShapeOf computes shape descriptors for the mask formed by pixels.
func ShapeOf(pixels []labels.Point) (Shape, error) {
	comps := labels.NewMask(pixels).Components(labels.Conn8)
	if len(comps) == 0 {
		return Shape{}, fmt.Errorf("%w: mask has no connected component", ErrInvariantViolation)
	}

	largest := comps[0]
	for _, c := range comps[1:] {
		if len(c) > len(largest) {
			largest = c
		}
	}

	l1, l2, err := inertiaEigenvalues(largest)
	if err != nil {
		return Shape{}, err
	}

	s := Shape{
		Area:       len(largest),
		MajorAxis:  4 * math.Sqrt(l1),
		MinorAxis:  4 * math.Sqrt(l2),
		Components: len(comps),
	}
	if l1 > 0 {
		s.Eccentricity = math.Sqrt(1 - math.Min(1, l2/l1))
	}
	if s.MinorAxis > 0 {
		s.AspectRatio = s.MajorAxis / s.MinorAxis
	}
	s.Solidity = float64(s.Area) / float64(convexArea(largest))
	return s, nil
}

// inertiaEigenvalues returns the eigenvalues λ1 ≥ λ2 ≥ 0 of the covariance
// matrix of the pixel coordinates.
func inertiaEigenvalues(pixels []labels.Point) (float64, float64, error) {
	n := float64(len(pixels))
	var sy, sx float64
	for _, p := range pixels {
		sy += float64(p.Y)
		sx += float64(p.X)
	}
	cy, cx := sy/n, sx/n

	var vyy, vxx, vxy float64
	for _, p := range pixels {
		dy, dx := float64(p.Y)-cy, float64(p.X)-cx
		vyy += dy * dy
		vxx += dx * dx
		vxy += dy * dx
	}
	vyy, vxx, vxy = vyy/n, vxx/n, vxy/n

	var eig mat.EigenSym
	if ok := eig.Factorize(mat.NewSymDense(2, []float64{vyy, vxy, vxy, vxx}), false); !ok {
		return 0, 0, fmt.Errorf("region: eigen decomposition of %d-pixel mask failed", len(pixels))
	}
	vals := eig.Values(nil)
	l2, l1 := vals[0], vals[1]

	if l1 < 0 {
		l1 = 0
	}
	if l2 < degenerateEigen*math.Max(1, l1) {
		l2 = 0
	}
	return l1, l2, nil
}

// Extract computes the features of region id.
func Extract(r *imaging.Raster, ix *labels.Index, id int) (Features, error) {
	pixels := ix.Pixels(id)
	if len(pixels) == 0 {
		return Features{}, fmt.Errorf("%w: region %d has no pixels", ErrInvariantViolation, id)
	}

	color, err := AverageColor(r, pixels)
	if err != nil {
		return Features{}, fmt.Errorf("region %d: %w", id, err)
	}
	shape, err := ShapeOf(pixels)
	if err != nil {
		return Features{}, fmt.Errorf("region %d: %w", id, err)
	}
	return Features{ID: id, Color: color, Shape: shape}, nil
}

// ExtractAll computes features for every region of ix in ascending id
// order. The first failure aborts extraction; no partial result is
// returned.
func ExtractAll(r *imaging.Raster, ix *labels.Index) ([]Features, error) {
	out := make([]Features, 0, ix.Len())
	for _, id := range ix.IDs() {
		f, err := Extract(r, ix, id)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
