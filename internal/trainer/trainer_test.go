package trainer_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/weft-ml/weft/internal/autodiff"
	"github.com/weft-ml/weft/internal/backend/cpu"
	"github.com/weft-ml/weft/internal/dataset"
	"github.com/weft-ml/weft/internal/nn"
	"github.com/weft-ml/weft/internal/optim"
	"github.com/weft-ml/weft/internal/trainer"
)

type testBackend = *autodiff.Backend[*cpu.CPUBackend]

func buildModel(backend testBackend) *nn.Sequential[testBackend] {
	return nn.NewSequential[testBackend](
		nn.NewLazyLinear(16, backend),
		nn.NewReLU[testBackend](),
		nn.NewLazyLinear(3, backend),
	)
}

func TestTrainer_Fit(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model := buildModel(backend)
	sgd := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.1}, backend)
	store := trainer.NewMemoryStore()

	tr := trainer.New[testBackend](model, sgd, backend, trainer.Options{
		Logger: zap.NewNop(),
		Store:  store,
	})

	data := dataset.Synthetic(90, 8, 3, 42)
	train, validation := data.Split(0.2)

	report, err := tr.Fit(context.Background(), train, validation, trainer.Config{
		Epochs:    5,
		BatchSize: 16,
		Shuffle:   true,
		Seed:      7,
	})
	require.NoError(t, err)
	require.Len(t, report.Epochs, 5)
	assert.NotEmpty(t, report.RunID)

	first := report.Epochs[0]
	final := report.Final()
	assert.Less(t, final.TrainLoss, first.TrainLoss, "training should reduce loss on separable data")
	assert.GreaterOrEqual(t, final.TrainAccuracy, first.TrainAccuracy-0.05)

	// History landed in the store.
	epochs, err := store.Epochs(context.Background(), report.RunID)
	require.NoError(t, err)
	require.Len(t, epochs, 5)
	assert.Equal(t, 1, epochs[0].Epoch)
	assert.Equal(t, 5, epochs[4].Epoch)
}

func TestTrainer_FitInvalidEpochs(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model := buildModel(backend)
	sgd := optim.NewSGD(model.Parameters(), optim.SGDConfig{}, backend)
	tr := trainer.New[testBackend](model, sgd, backend, trainer.Options{})

	data := dataset.Synthetic(10, 4, 2, 1)
	_, err := tr.Fit(context.Background(), data, data, trainer.Config{Epochs: 0, BatchSize: 5})
	assert.Error(t, err)
}

func TestTrainer_FitCanceled(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model := buildModel(backend)
	sgd := optim.NewSGD(model.Parameters(), optim.SGDConfig{}, backend)
	tr := trainer.New[testBackend](model, sgd, backend, trainer.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	data := dataset.Synthetic(20, 4, 2, 1)
	_, err := tr.Fit(ctx, data, data, trainer.Config{Epochs: 1, BatchSize: 5})
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	store := trainer.NewMemoryStore()
	ctx := context.Background()

	run := trainer.Run{ID: "run-1", Model: "test", StartedAt: time.Now()}
	require.NoError(t, store.CreateRun(ctx, run))
	assert.Error(t, store.CreateRun(ctx, run), "duplicate run ID")

	require.NoError(t, store.AppendEpoch(ctx, "run-1", trainer.EpochMetrics{Epoch: 1, TrainLoss: 0.5}))
	require.NoError(t, store.AppendEpoch(ctx, "run-1", trainer.EpochMetrics{Epoch: 2, TrainLoss: 0.3}))
	assert.Error(t, store.AppendEpoch(ctx, "nope", trainer.EpochMetrics{Epoch: 1}))

	epochs, err := store.Epochs(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, epochs, 2)
	assert.Equal(t, 0.5, epochs[0].TrainLoss)

	_, err = store.Epochs(ctx, "nope")
	assert.Error(t, err)

	assert.Len(t, store.Runs(), 1)
	require.NoError(t, store.Close())
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	store := trainer.NewSQLiteStore(path)
	require.NoError(t, store.Init(ctx))
	defer store.Close()

	// Init is idempotent.
	require.NoError(t, store.Init(ctx))

	run := trainer.Run{ID: "run-42", Model: "mlp", StartedAt: time.Now()}
	require.NoError(t, store.CreateRun(ctx, run))

	require.NoError(t, store.AppendEpoch(ctx, "run-42", trainer.EpochMetrics{
		Epoch: 1, TrainLoss: 1.2, TrainAccuracy: 0.4, ValLoss: 1.3, ValAccuracy: 0.35, Duration: time.Second,
	}))
	require.NoError(t, store.AppendEpoch(ctx, "run-42", trainer.EpochMetrics{
		Epoch: 2, TrainLoss: 0.8, TrainAccuracy: 0.6, ValLoss: 0.9, ValAccuracy: 0.55, Duration: 2 * time.Second,
	}))

	epochs, err := store.Epochs(ctx, "run-42")
	require.NoError(t, err)
	require.Len(t, epochs, 2)
	assert.Equal(t, 1.2, epochs[0].TrainLoss)
	assert.Equal(t, time.Second, epochs[0].Duration)
	assert.Equal(t, 2, epochs[1].Epoch)

	got, ok, err := store.GetRun(ctx, "run-42")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "mlp", got.Model)

	_, ok, err = store.GetRun(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_NotInitialized(t *testing.T) {
	store := trainer.NewSQLiteStore(filepath.Join(t.TempDir(), "x.db"))
	err := store.CreateRun(context.Background(), trainer.Run{ID: "r"})
	assert.Error(t, err)
}
