// Package trainer drives train/validate epochs over an image
// classification model and records per-run metrics.
package trainer

import (
	"context"
	"time"
)

// Run identifies one training run.
type Run struct {
	ID        string // UUID
	Model     string // human-readable model description
	StartedAt time.Time
}

// EpochMetrics holds the measurements of one epoch.
type EpochMetrics struct {
	Epoch         int
	TrainLoss     float64
	TrainAccuracy float64
	ValLoss       float64
	ValAccuracy   float64
	Duration      time.Duration
}

// Store persists run history. Implementations: MemoryStore for tests
// and demos, SQLiteStore for durable history.
type Store interface {
	// CreateRun registers a new run.
	CreateRun(ctx context.Context, run Run) error

	// AppendEpoch adds one epoch's metrics to a run.
	AppendEpoch(ctx context.Context, runID string, m EpochMetrics) error

	// Epochs returns a run's metrics in epoch order.
	Epochs(ctx context.Context, runID string) ([]EpochMetrics, error)

	// Close releases store resources.
	Close() error
}
