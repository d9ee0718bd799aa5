package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/weft-ml/weft/internal/autodiff"
	"github.com/weft-ml/weft/internal/backend/cpu"
	"github.com/weft-ml/weft/internal/nn"
	"github.com/weft-ml/weft/internal/trainer"
)

var (
	flagEpochs    int
	flagBatchSize int
	flagLR        float64
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a model and record run history",
	RunE:  runTrain,
}

func init() {
	trainCmd.Flags().IntVar(&flagEpochs, "epochs", 0, "override config epochs")
	trainCmd.Flags().IntVar(&flagBatchSize, "batch-size", 0, "override config batch size")
	trainCmd.Flags().Float64Var(&flagLR, "lr", 0, "override config learning rate")
}

func runTrain(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagEpochs > 0 {
		cfg.Epochs = flagEpochs
	}
	if flagBatchSize > 0 {
		cfg.BatchSize = flagBatchSize
	}
	if flagLR > 0 {
		cfg.LearningRate = flagLR
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck // stderr sync failure is unactionable

	ctx := cmd.Context()

	data, err := loadData(cfg)
	if err != nil {
		return err
	}
	train, validation := data.Split(cfg.ValidationRatio)

	backend := autodiff.New(cpu.New())
	model := buildModel(cfg, backend)
	if err := materialize(model, train, backend); err != nil {
		return err
	}
	optimizer, err := buildOptimizer(cfg, model, backend)
	if err != nil {
		return err
	}

	var store trainer.Store = trainer.NewMemoryStore()
	if cfg.HistoryDB != "" {
		sqlStore := trainer.NewSQLiteStore(cfg.HistoryDB)
		if err := sqlStore.Init(ctx); err != nil {
			return fmt.Errorf("opening history db: %w", err)
		}
		defer sqlStore.Close()
		store = sqlStore
	}

	tr := trainer.New[backendT](model, optimizer, backend, trainer.Options{
		Logger:    logger,
		Store:     store,
		ModelName: fmt.Sprintf("mlp-%v", cfg.HiddenSizes),
	})
	report, err := tr.Fit(ctx, train, validation, trainer.Config{
		Epochs:    cfg.Epochs,
		BatchSize: cfg.BatchSize,
		Shuffle:   cfg.Shuffle,
		Seed:      cfg.Seed,
	})
	if err != nil {
		return err
	}

	var paramCount int64
	for _, p := range nn.NamedParameters[backendT](model) {
		paramCount += int64(p.Tensor().NumElements())
	}

	final := report.Final()
	fmt.Printf("run %s finished: %s parameters, train acc %.1f%%, val acc %.1f%%\n",
		report.RunID,
		humanize.Comma(paramCount),
		final.TrainAccuracy*100,
		final.ValAccuracy*100,
	)
	return nil
}
