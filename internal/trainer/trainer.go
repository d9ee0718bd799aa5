package trainer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/weft-ml/weft/internal/autodiff"
	"github.com/weft-ml/weft/internal/dataset"
	"github.com/weft-ml/weft/internal/nn"
	"github.com/weft-ml/weft/internal/optim"
	"github.com/weft-ml/weft/internal/tensor"
)

// Config controls one Fit call.
type Config struct {
	Epochs    int
	BatchSize int
	Shuffle   bool
	Seed      int64
}

// Options carries optional trainer collaborators.
type Options struct {
	Logger    *zap.Logger // default zap.NewNop()
	Store     Store       // default NewMemoryStore()
	ModelName string      // default "sequential"
}

// Report summarizes a completed run.
type Report struct {
	RunID  string
	Epochs []EpochMetrics
}

// Final returns the last epoch's metrics.
func (r *Report) Final() EpochMetrics {
	if len(r.Epochs) == 0 {
		return EpochMetrics{}
	}
	return r.Epochs[len(r.Epochs)-1]
}

// Trainer drives epochs of zero-grad, forward, cross-entropy,
// backward, step over mini-batches, then a validation pass without
// tape recording.
type Trainer[B autodiff.BackwardCapable] struct {
	model     nn.Module[B]
	optimizer optim.Optimizer
	backend   B
	loss      *nn.CrossEntropyLoss[B]
	logger    *zap.Logger
	store     Store
	modelName string
}

// New creates a Trainer. The backend must be the same autodiff-wrapped
// backend the model's tensors were created on.
func New[B autodiff.BackwardCapable](model nn.Module[B], optimizer optim.Optimizer, backend B, opts Options) *Trainer[B] {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Store == nil {
		opts.Store = NewMemoryStore()
	}
	if opts.ModelName == "" {
		opts.ModelName = "sequential"
	}
	return &Trainer[B]{
		model:     model,
		optimizer: optimizer,
		backend:   backend,
		loss:      nn.NewCrossEntropyLoss[B](),
		logger:    opts.Logger,
		store:     opts.Store,
		modelName: opts.ModelName,
	}
}

// Fit trains for cfg.Epochs epochs and validates after each. Every
// epoch's metrics are appended to the run history store under a fresh
// run UUID.
func (t *Trainer[B]) Fit(ctx context.Context, train, validation *dataset.Dataset, cfg Config) (*Report, error) {
	if cfg.Epochs <= 0 {
		return nil, fmt.Errorf("epochs %d must be positive", cfg.Epochs)
	}

	run := Run{
		ID:        uuid.NewString(),
		Model:     t.modelName,
		StartedAt: time.Now(),
	}
	if err := t.store.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("creating run: %w", err)
	}

	t.logger.Info("starting run",
		zap.String("run_id", run.ID),
		zap.String("model", t.modelName),
		zap.Int("epochs", cfg.Epochs),
		zap.Int("batch_size", cfg.BatchSize),
		zap.Int("train_samples", train.NumSamples()),
		zap.Int("validation_samples", validation.NumSamples()),
	)

	report := &Report{RunID: run.ID}
	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		start := time.Now()

		trainLoss, trainAcc, err := t.trainEpoch(ctx, train, cfg, epoch)
		if err != nil {
			return nil, fmt.Errorf("epoch %d: %w", epoch, err)
		}
		valLoss, valAcc, err := t.Validate(ctx, validation, cfg.BatchSize)
		if err != nil {
			return nil, fmt.Errorf("epoch %d validation: %w", epoch, err)
		}

		m := EpochMetrics{
			Epoch:         epoch,
			TrainLoss:     trainLoss,
			TrainAccuracy: trainAcc,
			ValLoss:       valLoss,
			ValAccuracy:   valAcc,
			Duration:      time.Since(start),
		}
		if err := t.store.AppendEpoch(ctx, run.ID, m); err != nil {
			return nil, fmt.Errorf("recording epoch %d: %w", epoch, err)
		}
		report.Epochs = append(report.Epochs, m)

		t.logger.Info("epoch complete",
			zap.String("run_id", run.ID),
			zap.Int("epoch", epoch),
			zap.Float64("train_loss", trainLoss),
			zap.Float64("train_accuracy", trainAcc),
			zap.Float64("val_loss", valLoss),
			zap.Float64("val_accuracy", valAcc),
			zap.Duration("duration", m.Duration),
		)
	}

	return report, nil
}

func (t *Trainer[B]) trainEpoch(ctx context.Context, data *dataset.Dataset, cfg Config, epoch int) (loss, accuracy float64, err error) {
	batches, err := dataset.Batches(ctx, data, cfg.BatchSize, dataset.BatchOptions{
		Shuffle: cfg.Shuffle,
		Seed:    cfg.Seed + int64(epoch),
	}, t.backend)
	if err != nil {
		return 0, 0, err
	}

	tape := t.backend.GetTape()
	var lossSum float64
	var correct, total int

	for _, batch := range batches {
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}

		t.optimizer.ZeroGrad()
		tape.Clear()
		tape.StartRecording()

		logits := t.model.Forward(batch.Images)
		batchLoss := t.loss.Forward(logits, batch.Labels)
		grads := autodiff.Backward(batchLoss, t.backend)
		tape.StopRecording()

		t.optimizer.Step(grads)

		lossSum += float64(batchLoss.Data()[0]) * float64(batch.Size)
		correct += countCorrect(logits, batch.Labels)
		total += batch.Size
	}

	if total == 0 {
		return 0, 0, fmt.Errorf("no training samples")
	}
	return lossSum / float64(total), float64(correct) / float64(total), nil
}

// Validate runs a forward-only pass and returns mean loss and
// accuracy. The tape is left untouched; nothing is recorded.
func (t *Trainer[B]) Validate(ctx context.Context, data *dataset.Dataset, batchSize int) (loss, accuracy float64, err error) {
	if data.NumSamples() == 0 {
		return 0, 0, nil
	}

	batches, err := dataset.Batches(ctx, data, batchSize, dataset.BatchOptions{}, t.backend)
	if err != nil {
		return 0, 0, err
	}

	var lossSum float64
	var correct, total int
	for _, batch := range batches {
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}
		logits := t.model.Forward(batch.Images)
		batchLoss := t.loss.Forward(logits, batch.Labels)

		lossSum += float64(batchLoss.Data()[0]) * float64(batch.Size)
		correct += countCorrect(logits, batch.Labels)
		total += batch.Size
	}
	return lossSum / float64(total), float64(correct) / float64(total), nil
}

func countCorrect[B tensor.Backend](logits *tensor.Tensor[float32, B], labels *tensor.Tensor[int32, B]) int {
	preds := logits.Argmax(1).Data()
	want := labels.Data()
	correct := 0
	for i := range want {
		if preds[i] == want[i] {
			correct++
		}
	}
	return correct
}
