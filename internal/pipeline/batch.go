package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/superpixel-graph/internal/graph"
)

// Item is one image of a batch.
type Item struct {
	Path string

	// Label is applied when Labelled is set.
	Label    graph.Class
	Labelled bool
}

// Outcome is the result for one Item. Exactly one of Record and Err is
// set once the batch returns.
type Outcome struct {
	Item   Item
	Record *graph.Record
	Err    error
}

// BatchOptions controls Batch.
type BatchOptions struct {
	// Workers bounds concurrency; 0 means runtime.NumCPU().
	Workers int

	// SkipFailures records per-image errors in the outcomes and carries
	// on. Otherwise the first failure cancels the remaining work and is
	// returned.
	SkipFailures bool

	// Release drops each image from the builder's cache once its graph is
	// built. Use it when every path is read once.
	Release bool
}

// Batch processes items concurrently. Outcomes are returned in item
// order.
func (b *Builder) Batch(ctx context.Context, items []Item, opts BatchOptions) ([]Outcome, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	start := time.Now()
	out := make([]Outcome, len(items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, item := range items {
		i, item := i, item
		out[i].Item = item
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				out[i].Err = err
				return err
			}

			var gopts []graph.Option
			if item.Labelled {
				gopts = append(gopts, graph.WithLabel(item.Label))
			}
			res, err := b.ProcessFile(item.Path, gopts...)
			if opts.Release {
				b.cache.Evict(item.Path)
			}
			if err != nil {
				out[i].Err = err
				if opts.SkipFailures {
					b.log.Warn().Err(err).Str("path", item.Path).Msg("skipping image")
					return nil
				}
				return err
			}
			out[i].Record = res.Record
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return out, fmt.Errorf("batch aborted: %w", err)
	}

	var nodes, edges, failed int
	for _, o := range out {
		if o.Err != nil {
			failed++
			continue
		}
		nodes += o.Record.NumNodes
		edges += o.Record.NumEdges
	}
	b.log.Info().
		Int("images", len(items)).
		Int("failed", failed).
		Str("nodes", humanize.Comma(int64(nodes))).
		Str("edges", humanize.Comma(int64(edges))).
		Str("elapsed", time.Since(start).Round(time.Millisecond).String()).
		Msg("batch complete")
	return out, nil
}

// Records returns the records of the successful outcomes in order.
func Records(outcomes []Outcome) []*graph.Record {
	var recs []*graph.Record
	for _, o := range outcomes {
		if o.Err == nil && o.Record != nil {
			recs = append(recs, o.Record)
		}
	}
	return recs
}
