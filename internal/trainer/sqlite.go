package trainer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists run history in a SQLite database file.
type SQLiteStore struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

// NewSQLiteStore creates a store for the given database path. Call
// Init before use.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Init opens the database and creates the schema if missing.
func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS runs (
			id         TEXT PRIMARY KEY,
			model      TEXT NOT NULL,
			started_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS epochs (
			run_id         TEXT NOT NULL REFERENCES runs(id),
			epoch          INTEGER NOT NULL,
			train_loss     REAL NOT NULL,
			train_accuracy REAL NOT NULL,
			val_loss       REAL NOT NULL,
			val_accuracy   REAL NOT NULL,
			duration_ns    INTEGER NOT NULL,
			PRIMARY KEY (run_id, epoch)
		);`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return fmt.Errorf("creating schema: %w", err)
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, errors.New("sqlite store not initialized")
	}
	return s.db, nil
}

// CreateRun inserts a run row.
func (s *SQLiteStore) CreateRun(ctx context.Context, run Run) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, model, started_at) VALUES (?, ?, ?)
	`, run.ID, run.Model, run.StartedAt.UnixNano())
	return err
}

// AppendEpoch inserts one epoch row for a run.
func (s *SQLiteStore) AppendEpoch(ctx context.Context, runID string, m EpochMetrics) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO epochs (run_id, epoch, train_loss, train_accuracy, val_loss, val_accuracy, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, runID, m.Epoch, m.TrainLoss, m.TrainAccuracy, m.ValLoss, m.ValAccuracy, m.Duration.Nanoseconds())
	return err
}

// Epochs returns a run's metrics ordered by epoch.
func (s *SQLiteStore) Epochs(ctx context.Context, runID string) ([]EpochMetrics, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT epoch, train_loss, train_accuracy, val_loss, val_accuracy, duration_ns
		FROM epochs WHERE run_id = ? ORDER BY epoch
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EpochMetrics
	for rows.Next() {
		var m EpochMetrics
		var durationNS int64
		if err := rows.Scan(&m.Epoch, &m.TrainLoss, &m.TrainAccuracy, &m.ValLoss, &m.ValAccuracy, &durationNS); err != nil {
			return nil, err
		}
		m.Duration = time.Duration(durationNS)
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetRun returns a run by ID; the second result reports existence.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (Run, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return Run{}, false, err
	}

	var run Run
	var startedNS int64
	err = db.QueryRowContext(ctx, `SELECT id, model, started_at FROM runs WHERE id = ?`, id).
		Scan(&run.ID, &run.Model, &startedNS)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, false, nil
		}
		return Run{}, false, err
	}
	run.StartedAt = time.Unix(0, startedNS)
	return run, true, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
