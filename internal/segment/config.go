package segment

import (
	"errors"
	"fmt"
)

// ErrDegenerateInput is returned for rasters that cannot be segmented
// (zero area, no channels, inconsistent pixel storage) and for
// configurations that cannot produce a partition.
var ErrDegenerateInput = errors.New("segment: degenerate input")

// Defaults for Config.
const (
	DefaultSegments      = 50
	DefaultSigma         = 5.0
	DefaultCompactness   = 1.0
	DefaultMaxIterations = 10
	DefaultMinSizeFactor = 0.5
	DefaultMaxSizeFactor = 3.0
)

// Config controls the segmenter.
type Config struct {
	// Segments is the approximate number of superpixels to produce.
	Segments int

	// Sigma is the standard deviation of the Gaussian pre-smoothing, in
	// pixels. Zero disables smoothing.
	Sigma float64

	// Compactness weighs spatial proximity against color similarity.
	Compactness float64

	// MaxIterations bounds the k-means refinement loop.
	MaxIterations int

	// MinSizeFactor and MaxSizeFactor are multiples of the expected
	// superpixel size N/K. Connected components below the minimum are
	// merged into a neighbor; components grow no larger than the maximum.
	// A MaxSizeFactor of 0 disables the cap.
	MinSizeFactor float64
	MaxSizeFactor float64
}

// DefaultConfig returns the settings used for scene graphs: 50 regions,
// sigma 5 and compactness 1.
func DefaultConfig() Config {
	return Config{
		Segments:      DefaultSegments,
		Sigma:         DefaultSigma,
		Compactness:   DefaultCompactness,
		MaxIterations: DefaultMaxIterations,
		MinSizeFactor: DefaultMinSizeFactor,
		MaxSizeFactor: DefaultMaxSizeFactor,
	}
}

// Validate checks that c can drive a segmentation.
func (c Config) Validate() error {
	switch {
	case c.Segments < 1:
		return fmt.Errorf("%w: segments must be positive, got %d", ErrDegenerateInput, c.Segments)
	case c.Sigma < 0:
		return fmt.Errorf("%w: sigma must be non-negative, got %g", ErrDegenerateInput, c.Sigma)
	case c.Compactness < 0:
		return fmt.Errorf("%w: compactness must be non-negative, got %g", ErrDegenerateInput, c.Compactness)
	case c.MaxIterations < 1:
		return fmt.Errorf("%w: max iterations must be positive, got %d", ErrDegenerateInput, c.MaxIterations)
	case c.MinSizeFactor < 0:
		return fmt.Errorf("%w: min size factor must be non-negative, got %g", ErrDegenerateInput, c.MinSizeFactor)
	case c.MaxSizeFactor != 0 && c.MaxSizeFactor < c.MinSizeFactor:
		return fmt.Errorf("%w: max size factor %g below min size factor %g", ErrDegenerateInput, c.MaxSizeFactor, c.MinSizeFactor)
	}
	return nil
}
