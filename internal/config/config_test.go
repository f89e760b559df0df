package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 50, cfg.Segmentation.Regions)
	assert.Equal(t, 5.0, cfg.Segmentation.Sigma)
	assert.Equal(t, 1.0, cfg.Segmentation.Compactness)
	assert.Equal(t, []string{"Buildings", "Forest", "Glacier", "Mountain", "Sea", "Street"}, cfg.Classes)
	assert.Equal(t, 10, cfg.Model.Hidden)
	assert.Equal(t, 6, cfg.Model.Output)
	assert.Equal(t, 0.001, cfg.Model.LearningRate)
	assert.Equal(t, 3, cfg.Model.Epochs)
	assert.Equal(t, 0.5, cfg.Model.Dropout)
	assert.Equal(t, 4, cfg.Model.Heads)
	assert.Equal(t, 32, cfg.Model.BatchSize)
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
classes = ["buildings", "Forest", "Glacier", "Mountain", "Sea", "street"]

[segmentation]
regions = 80
sigma = 2.5

[model]
epochs = 7

[log]
level = "debug"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 80, cfg.Segmentation.Regions)
	assert.Equal(t, 2.5, cfg.Segmentation.Sigma)
	assert.Equal(t, 1.0, cfg.Segmentation.Compactness, "unset keys keep defaults")
	assert.Equal(t, 6, cfg.Model.Output, "output follows class count")
	assert.Equal(t, 7, cfg.Model.Epochs)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "regions = ["))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "[segmentation]\nregoins = 4\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoad_ClassSubsetRejected(t *testing.T) {
	tests := []struct {
		name    string
		classes string
	}{
		{"subset", `classes = ["Street", "Sea"]`},
		{"reordered", `classes = ["Forest", "Buildings", "Glacier", "Mountain", "Sea", "Street"]`},
		{"extra", `classes = ["Buildings", "Forest", "Glacier", "Mountain", "Sea", "Street", "Desert"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tt.classes))
			require.NoError(t, err)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := ApplyEnv(&cfg, env(map[string]string{
		"SUPERPIXEL_GRAPH_LOG_LEVEL":      "warn",
		"SUPERPIXEL_GRAPH_REGIONS":        "12",
		"SUPERPIXEL_GRAPH_SIGMA":          "0",
		"SUPERPIXEL_GRAPH_WORKERS":        "3",
		"SUPERPIXEL_GRAPH_COMPACTNESS":    "",
		"SUPERPIXEL_GRAPH_MAX_ITERATIONS": "4",
		"SUPERPIXEL_GRAPH_MAX_DIMENSION":  "256",
		"SUPERPIXEL_GRAPH_SKIP_FAILURES":  "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 12, cfg.Segmentation.Regions)
	assert.Equal(t, 0.0, cfg.Segmentation.Sigma)
	assert.Equal(t, 3, cfg.Pipeline.Workers)
	assert.Equal(t, 1.0, cfg.Segmentation.Compactness, "empty values are ignored")
	assert.Equal(t, 4, cfg.Segmentation.MaxIterations)
	assert.Equal(t, 256, cfg.Pipeline.MaxDimension)
	assert.True(t, cfg.Pipeline.SkipFailures)
}

func TestApplyEnv_BadValue(t *testing.T) {
	cfg := Default()
	assert.ErrorIs(t, ApplyEnv(&cfg, env(map[string]string{"SUPERPIXEL_GRAPH_REGIONS": "many"})), ErrInvalid)
	assert.ErrorIs(t, ApplyEnv(&cfg, env(map[string]string{"SUPERPIXEL_GRAPH_SIGMA": "x"})), ErrInvalid)
	assert.ErrorIs(t, ApplyEnv(&cfg, env(map[string]string{"SUPERPIXEL_GRAPH_SKIP_FAILURES": "maybe"})), ErrInvalid)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero regions", func(c *Config) { c.Segmentation.Regions = 0 }},
		{"negative sigma", func(c *Config) { c.Segmentation.Sigma = -1 }},
		{"no classes", func(c *Config) { c.Classes = nil; c.Model.Output = 0 }},
		{"unknown class", func(c *Config) { c.Classes[0] = "Desert" }},
		{"duplicate class", func(c *Config) { c.Classes[1] = "buildings" }},
		{"class subset", func(c *Config) { c.Classes = []string{"Forest", "Sea"}; c.Model.Output = 2 }},
		{"swapped classes", func(c *Config) { c.Classes[0], c.Classes[5] = c.Classes[5], c.Classes[0] }},
		{"output mismatch", func(c *Config) { c.Model.Output = 3 }},
		{"zero hidden", func(c *Config) { c.Model.Hidden = 0 }},
		{"zero learning rate", func(c *Config) { c.Model.LearningRate = 0 }},
		{"dropout one", func(c *Config) { c.Model.Dropout = 1 }},
		{"zero heads", func(c *Config) { c.Model.Heads = 0 }},
		{"zero batch", func(c *Config) { c.Model.BatchSize = 0 }},
		{"zero epochs", func(c *Config) { c.Model.Epochs = 0 }},
		{"negative workers", func(c *Config) { c.Pipeline.Workers = -1 }},
		{"negative max dimension", func(c *Config) { c.Pipeline.MaxDimension = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestSegmentConfig(t *testing.T) {
	cfg := Default()
	cfg.Segmentation.Regions = 9
	cfg.Segmentation.Sigma = 1.5

	sc := cfg.SegmentConfig()
	assert.Equal(t, 9, sc.Segments)
	assert.Equal(t, 1.5, sc.Sigma)
	assert.Equal(t, 1.0, sc.Compactness)
	require.NoError(t, sc.Validate())
}
