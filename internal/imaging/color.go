package imaging

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// labScale maps go-colorful's unit Lab range onto standard CIELAB units
// (L* in 0-100).
const labScale = 100.0

// LabRaster converts a raster into a perceptual color space suitable for
// color-distance clustering.
//
// Three-channel rasters are treated as sRGB and converted to CIELAB.
// Rasters with any other channel count are rescaled channel-wise from
// 0-255 to 0-100.
func LabRaster(r *Raster) *Raster {
	out := NewRaster(r.Width, r.Height, r.Channels)
	if r.Channels != 3 {
		for i, v := range r.Pix {
			out.Pix[i] = v * labScale / 255
		}
		return out
	}

	for i := 0; i < len(r.Pix); i += 3 {
		c := colorful.Color{R: r.Pix[i] / 255, G: r.Pix[i+1] / 255, B: r.Pix[i+2] / 255}
		l, a, b := c.Lab()
		out.Pix[i] = l * labScale
		out.Pix[i+1] = a * labScale
		out.Pix[i+2] = b * labScale
	}
	return out
}

// Hex formats a channel vector on the 0-255 scale as "#RRGGBB".
//
// Single-channel vectors are rendered as gray. Only the first three
// channels of wider vectors are used. An empty vector yields black.
func Hex(channels []float64) string {
	var c colorful.Color
	switch {
	case len(channels) == 0:
	case len(channels) < 3:
		v := channels[0] / 255
		c = colorful.Color{R: v, G: v, B: v}
	default:
		c = colorful.Color{R: channels[0] / 255, G: channels[1] / 255, B: channels[2] / 255}
	}
	return c.Clamped().Hex()
}
