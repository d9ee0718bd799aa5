package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weft-ml/weft/internal/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, config.OptimizerSGD, cfg.Optimizer)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
epochs: 10
batch_size: 64
learning_rate: 0.001
optimizer: adam
hidden_sizes: [256, 128]
classes: 10
history_db: runs.db
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Epochs)
	assert.Equal(t, 64, cfg.BatchSize)
	assert.Equal(t, config.OptimizerAdam, cfg.Optimizer)
	assert.Equal(t, []int{256, 128}, cfg.HiddenSizes)
	assert.Equal(t, "runs.db", cfg.HistoryDB)

	// Unset fields keep defaults.
	assert.Equal(t, 0.2, cfg.ValidationRatio)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("epochs: [not an int"), 0o644))
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero epochs", func(c *config.Config) { c.Epochs = 0 }},
		{"negative batch size", func(c *config.Config) { c.BatchSize = -1 }},
		{"zero learning rate", func(c *config.Config) { c.LearningRate = 0 }},
		{"momentum out of range", func(c *config.Config) { c.Momentum = 1 }},
		{"unknown optimizer", func(c *config.Config) { c.Optimizer = "rmsprop" }},
		{"one class", func(c *config.Config) { c.Classes = 1 }},
		{"empty hidden sizes", func(c *config.Config) { c.HiddenSizes = nil }},
		{"negative hidden size", func(c *config.Config) { c.HiddenSizes = []int{64, -1} }},
		{"validation ratio too high", func(c *config.Config) { c.ValidationRatio = 1 }},
		{"synthetic without samples", func(c *config.Config) { c.SyntheticSamples = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
