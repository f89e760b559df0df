// Package imaging provides the raster representation used by the graph
// construction pipeline, along with image loading and the pixel-level
// operations the segmenter needs.
//
// # Raster Layout
//
// A Raster is an H×W×C grid of float64 channel values stored row-major:
//
//	Pix[(y*Width+x)*Channels + c]
//
// Values are on the 8-bit intensity scale (0-255). Rasters built from
// color images carry 3 channels (R, G, B); grayscale images carry 1.
// Alpha is dropped.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner,
// X increasing rightward and Y increasing downward.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Raster operations never
// mutate their input and return fresh rasters, so distinct images can be
// processed concurrently without locking.
//
// # Color Spaces
//
// LabRaster converts RGB rasters to CIELAB (L* in 0-100) using go-colorful.
// Rasters with a channel count other than 3 are rescaled onto the same
// 0-100 range so that color distances stay comparable to spatial ones.
package imaging
