// Package config holds the settings for graph construction and the model
// hyperparameters that travel with the generated records.
//
// The class list is carried into record headers and must match the label
// indices: every class of graph.Classes, in order.
//
// Values are resolved in three layers: Default, then an optional TOML file
// (Load), then environment variables (ApplyEnv). Validate must pass before
// a Config is used.
//
// Example file:
//
//	classes = ["Buildings", "Forest", "Glacier", "Mountain", "Sea", "Street"]
//
//	[segmentation]
//	regions = 50
//	sigma = 5.0
//	compactness = 1.0
//
//	[model]
//	hidden = 10
//	learning_rate = 0.001
//
//	[log]
//	level = "debug"
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ironsheep/superpixel-graph/internal/graph"
	"github.com/ironsheep/superpixel-graph/internal/segment"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SUPERPIXEL_GRAPH_"

// Config is the complete configuration.
type Config struct {
	Segmentation Segmentation `toml:"segmentation" json:"segmentation"`
	Classes      []string     `toml:"classes" json:"classes"`
	Model        Model        `toml:"model" json:"model"`
	Pipeline     Pipeline     `toml:"pipeline" json:"pipeline"`
	Log          Log          `toml:"log" json:"log"`
}

// Segmentation controls superpixel generation.
type Segmentation struct {
	Regions       int     `toml:"regions" json:"regions"`
	Sigma         float64 `toml:"sigma" json:"sigma"`
	Compactness   float64 `toml:"compactness" json:"compactness"`
	MaxIterations int     `toml:"max_iterations" json:"max_iterations"`
}

// Model carries classifier hyperparameters. Graph construction never
// reads them.
type Model struct {
	Hidden       int     `toml:"hidden" json:"hidden"`
	Output       int     `toml:"output" json:"output"`
	LearningRate float64 `toml:"learning_rate" json:"learning_rate"`
	Epochs       int     `toml:"epochs" json:"epochs"`
	Dropout      float64 `toml:"dropout" json:"dropout"`
	Heads        int     `toml:"heads" json:"heads"`
	BatchSize    int     `toml:"batch_size" json:"batch_size"`
}

// Pipeline controls batch processing.
type Pipeline struct {
	// Workers bounds concurrent images; 0 means one per CPU.
	Workers int `toml:"workers" json:"workers"`

	// MaxDimension downsizes larger images before segmentation; 0 keeps
	// the original size.
	MaxDimension int `toml:"max_dimension" json:"max_dimension"`

	// SkipFailures keeps a batch going when an image fails.
	SkipFailures bool `toml:"skip_failures" json:"skip_failures"`
}

// Log controls diagnostics.
type Log struct {
	Level string `toml:"level" json:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	classes := graph.ClassNames()
	return Config{
		Segmentation: Segmentation{
			Regions:       segment.DefaultSegments,
			Sigma:         segment.DefaultSigma,
			Compactness:   segment.DefaultCompactness,
			MaxIterations: segment.DefaultMaxIterations,
		},
		Classes: classes,
		Model: Model{
			Hidden:       10,
			Output:       len(classes),
			LearningRate: 0.001,
			Epochs:       3,
			Dropout:      0.5,
			Heads:        4,
			BatchSize:    32,
		},
		Log: Log{Level: "info"},
	}
}

// Load reads a TOML file over the defaults. Keys missing from the file
// keep their default value. A model output width left unset follows the
// class count.
func Load(path string) (Config, error) {
	cfg := Default()
	cfg.Model.Output = 0

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("could not decode TOML config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalid, path, strings.Join(keys, ", "))
	}
	if cfg.Model.Output == 0 {
		cfg.Model.Output = len(cfg.Classes)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg from the environment using lookup (os.LookupEnv
// when nil). Recognised variables, all prefixed with EnvPrefix:
// LOG_LEVEL, REGIONS, SIGMA, COMPACTNESS, MAX_ITERATIONS, WORKERS,
// MAX_DIMENSION and SKIP_FAILURES.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok && v != "" {
		cfg.Log.Level = v
	}
	ints := map[string]*int{
		"REGIONS":        &cfg.Segmentation.Regions,
		"MAX_ITERATIONS": &cfg.Segmentation.MaxIterations,
		"WORKERS":        &cfg.Pipeline.Workers,
		"MAX_DIMENSION":  &cfg.Pipeline.MaxDimension,
	}
	for name, dst := range ints {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %s%s=%q is not an integer", ErrInvalid, EnvPrefix, name, v)
			}
			*dst = n
		}
	}
	floats := map[string]*float64{
		"SIGMA":       &cfg.Segmentation.Sigma,
		"COMPACTNESS": &cfg.Segmentation.Compactness,
	}
	for name, dst := range floats {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%w: %s%s=%q is not a number", ErrInvalid, EnvPrefix, name, v)
			}
			*dst = f
		}
	}
	if v, ok := lookup(EnvPrefix + "SKIP_FAILURES"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %sSKIP_FAILURES=%q is not a boolean", ErrInvalid, EnvPrefix, v)
		}
		cfg.Pipeline.SkipFailures = b
	}
	return nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if err := c.SegmentConfig().Validate(); err != nil {
		return fmt.Errorf("%w: segmentation: %v", ErrInvalid, err)
	}

	// Labels index the fixed class enumeration, so the list must name it
	// completely and in order.
	want := graph.ClassNames()
	if len(c.Classes) != len(want) {
		return fmt.Errorf("%w: classes must list %s in order, got %d classes", ErrInvalid, strings.Join(want, ", "), len(c.Classes))
	}
	for i, name := range c.Classes {
		cl, err := graph.ParseClass(name)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		if int(cl) != i {
			return fmt.Errorf("%w: class %s at position %d, want %s", ErrInvalid, cl, i, graph.Class(i))
		}
	}

	m := c.Model
	switch {
	case m.Hidden < 1:
		return fmt.Errorf("%w: model.hidden must be positive, got %d", ErrInvalid, m.Hidden)
	case m.Output != len(c.Classes):
		return fmt.Errorf("%w: model.output %d must equal the class count %d", ErrInvalid, m.Output, len(c.Classes))
	case m.LearningRate <= 0:
		return fmt.Errorf("%w: model.learning_rate must be positive, got %g", ErrInvalid, m.LearningRate)
	case m.Epochs < 1:
		return fmt.Errorf("%w: model.epochs must be positive, got %d", ErrInvalid, m.Epochs)
	case m.Dropout < 0 || m.Dropout >= 1:
		return fmt.Errorf("%w: model.dropout must be in [0,1), got %g", ErrInvalid, m.Dropout)
	case m.Heads < 1:
		return fmt.Errorf("%w: model.heads must be positive, got %d", ErrInvalid, m.Heads)
	case m.BatchSize < 1:
		return fmt.Errorf("%w: model.batch_size must be positive, got %d", ErrInvalid, m.BatchSize)
	}

	if c.Pipeline.Workers < 0 {
		return fmt.Errorf("%w: pipeline.workers must be non-negative, got %d", ErrInvalid, c.Pipeline.Workers)
	}
	if c.Pipeline.MaxDimension < 0 {
		return fmt.Errorf("%w: pipeline.max_dimension must be non-negative, got %d", ErrInvalid, c.Pipeline.MaxDimension)
	}
	return nil
}

// SegmentConfig converts the segmentation section for the segmenter.
func (c Config) SegmentConfig() segment.Config {
	sc := segment.DefaultConfig()
	sc.Segments = c.Segmentation.Regions
	sc.Sigma = c.Segmentation.Sigma
	sc.Compactness = c.Segmentation.Compactness
	sc.MaxIterations = c.Segmentation.MaxIterations
	return sc
}
