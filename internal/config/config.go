// Package config loads and validates training configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Optimizer choices accepted by Config.Optimizer.
const (
	OptimizerSGD  = "sgd"
	OptimizerAdam = "adam"
)

// Config is the YAML training configuration.
type Config struct {
	Epochs       int     `yaml:"epochs"`
	BatchSize    int     `yaml:"batch_size"`
	LearningRate float64 `yaml:"learning_rate"`
	Momentum     float64 `yaml:"momentum"`
	Optimizer    string  `yaml:"optimizer"`
	Seed         int64   `yaml:"seed"`
	Shuffle      bool    `yaml:"shuffle"`

	// Model layout: hidden layer widths, then the class count.
	HiddenSizes []int `yaml:"hidden_sizes"`
	Classes     int   `yaml:"classes"`

	// Data source: an MNIST IDX directory, or synthetic data when
	// empty.
	DataDir           string  `yaml:"data_dir"`
	MaxSamples        int     `yaml:"max_samples"`
	ValidationRatio   float64 `yaml:"validation_ratio"`
	SyntheticSamples  int     `yaml:"synthetic_samples"`
	SyntheticFeatures int     `yaml:"synthetic_features"`

	// Run history SQLite path; empty keeps history in memory only.
	HistoryDB string `yaml:"history_db"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Epochs:            5,
		BatchSize:         32,
		LearningRate:      0.01,
		Optimizer:         OptimizerSGD,
		Seed:              1,
		Shuffle:           true,
		HiddenSizes:       []int{128},
		Classes:           10,
		ValidationRatio:   0.2,
		SyntheticSamples:  600,
		SyntheticFeatures: 64,
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for usable values.
func (c Config) Validate() error {
	if c.Epochs <= 0 {
		return fmt.Errorf("epochs %d must be positive", c.Epochs)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size %d must be positive", c.BatchSize)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning_rate %g must be positive", c.LearningRate)
	}
	if c.Momentum < 0 || c.Momentum >= 1 {
		return fmt.Errorf("momentum %g must be in [0, 1)", c.Momentum)
	}
	if c.Optimizer != OptimizerSGD && c.Optimizer != OptimizerAdam {
		return fmt.Errorf("optimizer %q must be %q or %q", c.Optimizer, OptimizerSGD, OptimizerAdam)
	}
	if c.Classes < 2 {
		return fmt.Errorf("classes %d must be at least 2", c.Classes)
	}
	if len(c.HiddenSizes) == 0 {
		return fmt.Errorf("hidden_sizes must not be empty")
	}
	for i, h := range c.HiddenSizes {
		if h <= 0 {
			return fmt.Errorf("hidden_sizes[%d] = %d must be positive", i, h)
		}
	}
	if c.ValidationRatio < 0 || c.ValidationRatio >= 1 {
		return fmt.Errorf("validation_ratio %g must be in [0, 1)", c.ValidationRatio)
	}
	if c.DataDir == "" {
		if c.SyntheticSamples <= 0 {
			return fmt.Errorf("synthetic_samples %d must be positive without data_dir", c.SyntheticSamples)
		}
		if c.SyntheticFeatures <= 0 {
			return fmt.Errorf("synthetic_features %d must be positive without data_dir", c.SyntheticFeatures)
		}
	}
	return nil
}
