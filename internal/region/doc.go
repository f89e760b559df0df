// Package region computes per-superpixel features from a raster and its
// label map.
//
// Each region yields an average color (per-channel arithmetic mean over the
// region's pixels) and three shape descriptors derived from the region's
// binary mask:
//
//   - Eccentricity of the ellipse with the same second-order central
//     moments as the region: sqrt(1 - λ2/λ1), where λ1 ≥ λ2 are the
//     eigenvalues of the coordinate covariance matrix. 0 is a circle.
//   - Aspect ratio: major axis length / minor axis length, where the axis
//     lengths are 4·sqrt(λ). Defined as 0 when the minor axis length is 0.
//   - Solidity: region area divided by the number of pixels whose centers
//     fall inside the convex hull of the edge midpoints of the region's
//     pixels.
//
// # Disconnected masks
//
// A region id whose pixels form several 8-connected islands is described by
// its largest island (ties go to the island met first in scan order). The
// island count is reported in Shape.Components so callers can flag it.
//
// # Errors
//
// A region with no pixels violates the label map contract and yields
// ErrInvariantViolation; it is never defaulted to zero features.
package region
