package trainer

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore keeps run history in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	runs   map[string]Run
	epochs map[string][]EpochMetrics
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs:   make(map[string]Run),
		epochs: make(map[string][]EpochMetrics),
	}
}

// CreateRun registers a run. A duplicate ID is an error.
func (s *MemoryStore) CreateRun(_ context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.runs[run.ID]; exists {
		return fmt.Errorf("run %q already exists", run.ID)
	}
	s.runs[run.ID] = run
	return nil
}

// AppendEpoch adds metrics to a registered run.
func (s *MemoryStore) AppendEpoch(_ context.Context, runID string, m EpochMetrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.runs[runID]; !exists {
		return fmt.Errorf("unknown run %q", runID)
	}
	s.epochs[runID] = append(s.epochs[runID], m)
	return nil
}

// Epochs returns a copy of the run's metrics sorted by epoch.
func (s *MemoryStore) Epochs(_ context.Context, runID string) ([]EpochMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, exists := s.runs[runID]; !exists {
		return nil, fmt.Errorf("unknown run %q", runID)
	}
	out := append([]EpochMetrics(nil), s.epochs[runID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Epoch < out[j].Epoch })
	return out, nil
}

// Runs returns all registered runs.
func (s *MemoryStore) Runs() []Run {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Run, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
