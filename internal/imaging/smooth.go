package imaging

import (
	"github.com/anthonynsimon/bild/blur"
)

// Smooth applies a Gaussian blur with standard deviation sigma to every
// channel of the raster and returns the result as a new raster.
//
// bild's Gaussian kernel is exp(-x²/(4·radius)), so the radius passed to
// it is sigma²/2. Each channel goes through an 8-bit grayscale image, so
// the output is quantized to whole intensity levels. A sigma of 0 or less
// returns an unmodified copy.
func Smooth(r *Raster, sigma float64) *Raster {
	if sigma <= 0 || r.Area() == 0 {
		return r.Clone()
	}
	radius := sigma * sigma / 2

	out := NewRaster(r.Width, r.Height, r.Channels)
	for c := 0; c < r.Channels; c++ {
		blurred := blur.Gaussian(r.Channel(c), radius)
		for y := 0; y < r.Height; y++ {
			row := blurred.Pix[y*blurred.Stride:]
			for x := 0; x < r.Width; x++ {
				out.Set(x, y, c, float64(row[x*4]))
			}
		}
	}
	return out
}
