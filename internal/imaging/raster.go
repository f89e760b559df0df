package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// Raster is a dense H×W×C grid of channel values on the 0-255 scale.
type Raster struct {
	Width    int
	Height   int
	Channels int

	// Pix holds the channel values, row-major, channels interleaved.
	Pix []float64
}

// NewRaster allocates a zeroed raster.
//
// Zero or negative dimensions are allowed and yield an empty raster; the
// segmenter is responsible for rejecting those.
func NewRaster(width, height, channels int) *Raster {
	n := 0
	if width > 0 && height > 0 && channels > 0 {
		n = width * height * channels
	}
	return &Raster{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]float64, n),
	}
}

// FromImage converts a decoded image into a raster.
//
// Grayscale images (*image.Gray, *image.Gray16) produce a single channel.
// Everything else is normalized through imaging.Clone to non-premultiplied
// RGBA and produces three channels.
func FromImage(img image.Image) *Raster {
	nrgba := imaging.Clone(img)
	bounds := nrgba.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	channels := channelCount(img)
	r := NewRaster(width, height, channels)
	for y := 0; y < height; y++ {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+width*4]
		for x := 0; x < width; x++ {
			dst := r.Pixel(x, y)
			for c := 0; c < channels; c++ {
				dst[c] = float64(src[x*4+c])
			}
		}
	}
	return r
}

func channelCount(img image.Image) int {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	}
	return 3
}

// Area returns Width*Height, or 0 for empty rasters.
func (r *Raster) Area() int {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// Pixel returns the channel slice for (x, y). The slice aliases Pix.
func (r *Raster) Pixel(x, y int) []float64 {
	i := (y*r.Width + x) * r.Channels
	return r.Pix[i : i+r.Channels]
}

// At returns a single channel value.
func (r *Raster) At(x, y, c int) float64 {
	return r.Pix[(y*r.Width+x)*r.Channels+c]
}

// Set writes a single channel value.
func (r *Raster) Set(x, y, c int, v float64) {
	r.Pix[(y*r.Width+x)*r.Channels+c] = v
}

// Channel extracts channel c as an 8-bit grayscale image, clamping and
// rounding values into 0-255.
func (r *Raster) Channel(c int) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			g.Pix[y*g.Stride+x] = toUint8(r.At(x, y, c))
		}
	}
	return g
}

// Clone returns a deep copy.
func (r *Raster) Clone() *Raster {
	out := &Raster{Width: r.Width, Height: r.Height, Channels: r.Channels}
	out.Pix = append([]float64(nil), r.Pix...)
	return out
}

func toUint8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}
