// Package pipeline turns images into graph records: segment, extract
// region features, discover adjacency, assemble, project.
//
// A Builder is safe for concurrent use. Each call works on its own raster
// and shares only the image cache, which is itself synchronized.
package pipeline

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironsheep/superpixel-graph/internal/adjacency"
	"github.com/ironsheep/superpixel-graph/internal/graph"
	"github.com/ironsheep/superpixel-graph/internal/imaging"
	"github.com/ironsheep/superpixel-graph/internal/labels"
	"github.com/ironsheep/superpixel-graph/internal/logging"
	"github.com/ironsheep/superpixel-graph/internal/region"
	"github.com/ironsheep/superpixel-graph/internal/segment"
)

// Builder runs the image-to-graph pipeline with fixed settings.
type Builder struct {
	seg          segment.Config
	maxDimension int
	cache        *imaging.ImageCache
	log          zerolog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets the logger. The default discards output.
func WithLogger(l zerolog.Logger) BuilderOption {
	return func(b *Builder) { b.log = logging.Component(l, "pipeline") }
}

// WithCache shares an image cache with other users.
func WithCache(c *imaging.ImageCache) BuilderOption {
	return func(b *Builder) { b.cache = c }
}

// WithMaxDimension downsizes images whose width or height exceeds n
// before segmentation.
func WithMaxDimension(n int) BuilderOption {
	return func(b *Builder) { b.maxDimension = n }
}

// NewBuilder returns a Builder that segments with cfg.
func NewBuilder(cfg segment.Config, opts ...BuilderOption) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := &Builder{seg: cfg, log: logging.Nop()}
	for _, opt := range opts {
		opt(b)
	}
	if b.cache == nil {
		b.cache = imaging.NewImageCache()
	}
	return b, nil
}

// Cache returns the builder's image cache.
func (b *Builder) Cache() *imaging.ImageCache { return b.cache }

// Result is the full output of one pipeline run.
type Result struct {
	Labels   *labels.Map
	Features []region.Features
	Graph    *graph.Graph
	Record   *graph.Record
	Elapsed  time.Duration
}

// Run segments a raster and builds its graph. The raster is not modified.
func (b *Builder) Run(r *imaging.Raster, opts ...graph.Option) (*Result, error) {
	start := time.Now()

	m, err := segment.Segment(r, b.seg)
	if err != nil {
		return nil, fmt.Errorf("segmentation failed: %w", err)
	}
	return b.build(start, r, m, opts)
}

// FromLabels builds the graph of a raster over an existing label map,
// skipping segmentation. Region ids need not be connected; a disconnected
// id is logged and described by its largest component.
func (b *Builder) FromLabels(r *imaging.Raster, m *labels.Map, opts ...graph.Option) (*Result, error) {
	start := time.Now()

	if r == nil || m == nil {
		return nil, fmt.Errorf("%w: nil raster or label map", labels.ErrShape)
	}
	if r.Width != m.Width() || r.Height != m.Height() {
		return nil, fmt.Errorf("%w: raster is %dx%d but label map is %dx%d", labels.ErrShape, r.Width, r.Height, m.Width(), m.Height())
	}
	return b.build(start, r, m, opts)
}

func (b *Builder) build(start time.Time, r *imaging.Raster, m *labels.Map, opts []graph.Option) (*Result, error) {
	ix := m.Index()
	features, err := region.ExtractAll(r, ix)
	if err != nil {
		return nil, fmt.Errorf("feature extraction failed: %w", err)
	}
	for _, f := range features {
		if f.Components > 1 {
			b.log.Warn().
				Int("region", f.ID).
				Int("components", f.Components).
				Int("area", f.Area).
				Msg("region mask is disconnected; shape uses the largest component")
		}
	}

	g, err := graph.Assemble(features, adjacency.All(m, ix), opts...)
	if err != nil {
		return nil, fmt.Errorf("graph assembly failed: %w", err)
	}

	res := &Result{
		Labels:   m,
		Features: features,
		Graph:    g,
		Record:   g.Record(),
		Elapsed:  time.Since(start),
	}
	b.log.Debug().
		Int("width", r.Width).
		Int("height", r.Height).
		Int("nodes", g.Len()).
		Int("edges", g.EdgeCount()).
		Dur("elapsed", res.Elapsed).
		Msg("graph built")
	return res, nil
}

// Process runs the pipeline and returns only the record.
func (b *Builder) Process(r *imaging.Raster, opts ...graph.Option) (*graph.Record, error) {
	res, err := b.Run(r, opts...)
	if err != nil {
		return nil, err
	}
	return res.Record, nil
}

// Load reads an image through the cache and converts it to a raster,
// honoring the configured maximum dimension.
func (b *Builder) Load(path string) (*imaging.Raster, error) {
	return imaging.LoadRaster(b.cache, path, b.maxDimension)
}

// ProcessFile loads and processes one image file.
func (b *Builder) ProcessFile(path string, opts ...graph.Option) (*Result, error) {
	r, err := b.Load(path)
	if err != nil {
		return nil, err
	}
	res, err := b.Run(r, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}
