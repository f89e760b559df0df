package region

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/superpixel-graph/internal/imaging"
	"github.com/ironsheep/superpixel-graph/internal/labels"
)

// splitScene returns a 4×4 RGB raster split into two vertical halves and
// the matching label map (left = 0, right = 1).
func splitScene(t *testing.T) (*imaging.Raster, *labels.Map) {
	t.Helper()
	r := imaging.NewRaster(4, 4, 3)
	cells := make([]int, 16)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			px := r.Pixel(x, y)
			if x < 2 {
				copy(px, []float64{10, 20, 30})
			} else {
				copy(px, []float64{200, 100, 50})
				cells[y*4+x] = 1
			}
		}
	}
	m, err := labels.New(4, 4, cells)
	require.NoError(t, err)
	return r, m
}

func rect(x0, y0, w, h int) []labels.Point {
	var pts []labels.Point
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			pts = append(pts, labels.Point{X: x, Y: y})
		}
	}
	return pts
}

func disk(cx, cy, radius int) []labels.Point {
	var pts []labels.Point
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius {
				pts = append(pts, labels.Point{X: x, Y: y})
			}
		}
	}
	return pts
}

func TestAverageColor(t *testing.T) {
	r, m := splitScene(t)
	ix := m.Index()

	left, err := AverageColor(r, ix.Pixels(0))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{10, 20, 30}, left, 1e-9)

	right, err := AverageColor(r, ix.Pixels(1))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{200, 100, 50}, right, 1e-9)
}

func TestAverageColor_Mixed(t *testing.T) {
	r := imaging.NewRaster(2, 1, 1)
	r.Set(0, 0, 0, 0)
	r.Set(1, 0, 0, 255)

	got, err := AverageColor(r, rect(0, 0, 2, 1))
	require.NoError(t, err)
	assert.InDelta(t, 127.5, got[0], 1e-9)
}

func TestAverageColor_Errors(t *testing.T) {
	r := imaging.NewRaster(2, 2, 3)

	_, err := AverageColor(r, nil)
	assert.True(t, errors.Is(err, ErrInvariantViolation), "empty mask: got %v", err)

	_, err = AverageColor(r, []labels.Point{{X: 2, Y: 0}})
	assert.True(t, errors.Is(err, ErrInvariantViolation), "out of bounds: got %v", err)
}

func TestShapeOf(t *testing.T) {
	tests := []struct {
		name     string
		pixels   []labels.Point
		area     int
		ecc      float64
		aspect   float64
		solidity float64
	}{
		{"single pixel", rect(3, 3, 1, 1), 1, 0, 0, 1},
		{"horizontal line", rect(0, 0, 5, 1), 5, 1, 0, 1},
		{"vertical line", rect(2, 0, 1, 7), 7, 1, 0, 1},
		{"square", rect(0, 0, 4, 4), 16, 0, 1, 1},
		{"disk", disk(10, 10, 6), 113, 0, 1, 113.0 / 121.0},
		{"L shape", []labels.Point{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 2}}, 5, -1, -1, 5.0 / 6.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ShapeOf(tt.pixels)
			require.NoError(t, err)

			assert.Equal(t, tt.area, s.Area)
			assert.Equal(t, 1, s.Components)
			if tt.ecc >= 0 {
				assert.InDelta(t, tt.ecc, s.Eccentricity, 1e-9, "eccentricity")
			}
			if tt.aspect >= 0 {
				assert.InDelta(t, tt.aspect, s.AspectRatio, 1e-9, "aspect ratio")
			}
			assert.InDelta(t, tt.solidity, s.Solidity, 1e-9, "solidity")
		})
	}
}

func TestShapeOf_Ranges(t *testing.T) {
	masks := map[string][]labels.Point{
		"rectangle": rect(0, 0, 6, 2),
		"L shape":   {{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 2}},
		"diagonal":  {{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}},
		"plus":      {{X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 2}},
	}

	for name, px := range masks {
		t.Run(name, func(t *testing.T) {
			s, err := ShapeOf(px)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, s.Eccentricity, 0.0)
			assert.LessOrEqual(t, s.Eccentricity, 1.0)
			assert.GreaterOrEqual(t, s.AspectRatio, 0.0)
			assert.Greater(t, s.Solidity, 0.0)
			assert.LessOrEqual(t, s.Solidity, 1.0)
			assert.GreaterOrEqual(t, s.MajorAxis, s.MinorAxis)
		})
	}
}

func TestShapeOf_ElongatedRectangle(t *testing.T) {
	s, err := ShapeOf(rect(0, 0, 10, 2))
	require.NoError(t, err)

	// Variances: x over 0..9 is 8.25, y over 0..1 is 0.25.
	assert.InDelta(t, 4*2.8722813232690143, s.MajorAxis, 1e-9)
	assert.InDelta(t, 2.0, s.MinorAxis, 1e-9)
	assert.InDelta(t, s.MajorAxis/s.MinorAxis, s.AspectRatio, 1e-9)
	assert.Greater(t, s.Eccentricity, 0.9)
}

func TestShapeOf_DisconnectedUsesLargest(t *testing.T) {
	px := append(rect(0, 0, 3, 3), labels.Point{X: 8, Y: 8})

	s, err := ShapeOf(px)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Components)
	assert.Equal(t, 9, s.Area)
	assert.InDelta(t, 1.0, s.Solidity, 1e-9)
	assert.InDelta(t, 1.0, s.AspectRatio, 1e-9)
}

func TestShapeOf_DiagonalIsOneComponent(t *testing.T) {
	s, err := ShapeOf([]labels.Point{{X: 0, Y: 0}, {X: 1, Y: 1}})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Components)
	assert.Equal(t, 2, s.Area)
}

func TestShapeOf_Empty(t *testing.T) {
	_, err := ShapeOf(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvariantViolation))
}

func TestExtract(t *testing.T) {
	r, m := splitScene(t)
	ix := m.Index()

	f, err := Extract(r, ix, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, f.ID)
	assert.Equal(t, 8, f.Area)
	assert.InDeltaSlice(t, []float64{200, 100, 50}, f.Color, 1e-9)
	assert.InDelta(t, 1.0, f.Solidity, 1e-9)

	_, err = Extract(r, ix, 7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvariantViolation))
}

func TestExtractAll_Order(t *testing.T) {
	r := imaging.NewRaster(3, 1, 1)
	m, err := labels.New(3, 1, []int{9, 2, 5})
	require.NoError(t, err)

	all, err := ExtractAll(r, m.Index())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 2, all[0].ID)
	assert.Equal(t, 5, all[1].ID)
	assert.Equal(t, 9, all[2].ID)
}

func TestExtractAll_RasterMismatch(t *testing.T) {
	r := imaging.NewRaster(2, 2, 3)
	m, err := labels.New(3, 1, []int{0, 0, 1})
	require.NoError(t, err)

	all, err := ExtractAll(r, m.Index())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvariantViolation))
	assert.Nil(t, all)
}
