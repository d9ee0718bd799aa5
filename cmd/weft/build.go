package main

import (
	"fmt"

	"github.com/weft-ml/weft/internal/autodiff"
	"github.com/weft-ml/weft/internal/backend/cpu"
	"github.com/weft-ml/weft/internal/config"
	"github.com/weft-ml/weft/internal/dataset"
	"github.com/weft-ml/weft/internal/nn"
	"github.com/weft-ml/weft/internal/optim"
	"github.com/weft-ml/weft/internal/tensor"
)

// backendT is the CPU backend wrapped with gradient tracking, the only
// execution target the CLI builds.
type backendT = *autodiff.Backend[*cpu.CPUBackend]

// loadConfig returns the file config when --config is set, defaults
// otherwise.
func loadConfig() (config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

// buildModel assembles hidden LazyLinear+ReLU pairs and a final
// LazyLinear over the class count. Input width stays open until the
// first batch arrives.
func buildModel(cfg config.Config, backend backendT) *nn.Sequential[backendT] {
	model := nn.NewSequential[backendT]()
	for _, hidden := range cfg.HiddenSizes {
		model.Add(nn.NewLazyLinear(hidden, backend))
		model.Add(nn.NewReLU[backendT]())
	}
	model.Add(nn.NewLazyLinear(cfg.Classes, backend))
	return model
}

// buildOptimizer creates the configured optimizer over the model's
// parameters.
func buildOptimizer(cfg config.Config, model *nn.Sequential[backendT], backend backendT) (optim.Optimizer, error) {
	switch cfg.Optimizer {
	case config.OptimizerSGD:
		return optim.NewSGD(model.Parameters(), optim.SGDConfig{
			LR:       float32(cfg.LearningRate),
			Momentum: float32(cfg.Momentum),
		}, backend), nil
	case config.OptimizerAdam:
		return optim.NewAdam(model.Parameters(), optim.AdamConfig{
			LR: float32(cfg.LearningRate),
		}, backend), nil
	default:
		return nil, fmt.Errorf("unknown optimizer %q", cfg.Optimizer)
	}
}

// materialize resolves every lazy layer by forwarding one probe sample
// through the model. Must run before the optimizer captures the
// parameter list.
func materialize(model *nn.Sequential[backendT], data *dataset.Dataset, backend backendT) error {
	if data.NumSamples() == 0 {
		return fmt.Errorf("dataset is empty")
	}
	probe, err := tensor.FromSlice(data.Images[0], tensor.Shape{1, data.Features}, backend)
	if err != nil {
		return fmt.Errorf("building probe batch: %w", err)
	}
	model.Forward(probe)
	return nil
}

// loadData returns the configured dataset: MNIST IDX files from
// data_dir, or a synthetic set when none is configured.
func loadData(cfg config.Config) (*dataset.Dataset, error) {
	if cfg.DataDir != "" {
		return dataset.LoadMNIST(cfg.DataDir, true, cfg.MaxSamples)
	}
	return dataset.Synthetic(cfg.SyntheticSamples, cfg.SyntheticFeatures, cfg.Classes, cfg.Seed), nil
}
