package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/ironsheep/superpixel-graph/internal/config"
	"github.com/ironsheep/superpixel-graph/internal/graph"
	"github.com/ironsheep/superpixel-graph/internal/imaging"
	"github.com/ironsheep/superpixel-graph/internal/logging"
	"github.com/ironsheep/superpixel-graph/internal/pipeline"
	"github.com/ironsheep/superpixel-graph/internal/record"
	"github.com/ironsheep/superpixel-graph/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const usage = `superpixel-graph - superpixel region graphs for scene classification

Usage:
  superpixel-graph [serve] [-config file]
  superpixel-graph build [-config file] [-label class] [-o out.sgr] image...
  superpixel-graph version
  superpixel-graph help

Commands:
  serve     Run the MCP server on stdin/stdout (default)
  build     Convert images to graph records in a snappy-compressed JSON-lines file
  version   Print version information
  help      Print this help message

Environment variables:
  SUPERPIXEL_GRAPH_LOG_LEVEL=debug     Log level (debug, info, warn, error)
  SUPERPIXEL_GRAPH_REGIONS=50          Approximate superpixels per image
  SUPERPIXEL_GRAPH_SIGMA=5             Gaussian pre-smoothing sigma
  SUPERPIXEL_GRAPH_COMPACTNESS=1       Spatial weight of the clustering
  SUPERPIXEL_GRAPH_MAX_ITERATIONS=10   Clustering refinement passes
  SUPERPIXEL_GRAPH_WORKERS=0           Concurrent images in build (0 = CPUs)
  SUPERPIXEL_GRAPH_MAX_DIMENSION=0     Downscale larger images first (0 = off)
  SUPERPIXEL_GRAPH_SKIP_FAILURES=false Keep building when an image fails
`

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "superpixel-graph: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cmd := "serve"
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			fmt.Fprintf(stdout, "superpixel-graph %s\n", Version)
			fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
			return nil
		case "--help", "-h", "help":
			fmt.Fprint(stdout, usage)
			return nil
		case "serve", "build":
			cmd, args = args[0], args[1:]
		}
	}

	switch cmd {
	case "build":
		return runBuild(args, stderr)
	default:
		return runServe(args, stderr)
	}
}

// loadConfig resolves defaults, the optional TOML file and environment
// overrides, then validates the result.
func loadConfig(path string) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}
	if err := config.ApplyEnv(&cfg, nil); err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(cfg config.Config, stderr io.Writer) (zerolog.Logger, error) {
	lvl, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return zerolog.Logger{}, err
	}
	if stderr == os.Stderr {
		return logging.NewConsole(lvl), nil
	}
	return logging.New(stderr, lvl), nil
}

func runServe(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "TOML configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}

	server.Version = Version
	srv, err := server.New(cfg, log)
	if err != nil {
		return err
	}
	log.Debug().Str("version", Version).Str("built", BuildTime).Str("commit", GitCommit).Msg("serving MCP on stdio")
	if err := srv.Run(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runBuild(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "TOML configuration file")
	label := fs.String("label", "", "class label applied to every image")
	out := fs.String("o", "graphs.sgr", "output record file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("build: no images given")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}

	items := make([]pipeline.Item, fs.NArg())
	for i, path := range fs.Args() {
		items[i].Path = path
	}
	if *label != "" {
		c, err := graph.ParseClass(*label)
		if err != nil {
			return err
		}
		for i := range items {
			items[i].Label, items[i].Labelled = c, true
		}
	}

	// Each image is read once, so keep only what the workers hold.
	b, err := pipeline.NewBuilder(cfg.SegmentConfig(),
		pipeline.WithCache(imaging.NewBoundedImageCache(1)),
		pipeline.WithLogger(log),
		pipeline.WithMaxDimension(cfg.Pipeline.MaxDimension),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	outcomes, err := b.Batch(ctx, items, pipeline.BatchOptions{
		Workers:      cfg.Pipeline.Workers,
		SkipFailures: cfg.Pipeline.SkipFailures,
		Release:      true,
	})
	if err != nil {
		return err
	}
	recs := pipeline.Records(outcomes)
	if len(recs) == 0 {
		return errors.New("build: no image produced a graph")
	}

	n, err := record.WriteFile(*out, record.NewHeader(cfg), recs)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", *out, err)
	}
	log.Info().
		Str("file", *out).
		Int("records", len(recs)).
		Str("json", humanize.Bytes(uint64(n))).
		Msg("records written")
	return nil
}
