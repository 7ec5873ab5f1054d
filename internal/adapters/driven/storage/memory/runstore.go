// Package memory provides in-memory implementations of the storage
// ports, used in tests and as a fallback when persistent storage is
// unavailable.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/visionforge/yolotrain-cli/internal/core/domain"
	"github.com/visionforge/yolotrain-cli/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is an in-memory implementation of driven.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]domain.TrainingRun
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]domain.TrainingRun),
	}
}

// Save stores or updates a run record by ID.
func (s *RunStore) Save(_ context.Context, run *domain.TrainingRun) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = *run
	return nil
}

// Get retrieves a run by ID.
func (s *RunStore) Get(_ context.Context, id string) (*domain.TrainingRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: run %s", domain.ErrNotFound, id)
	}
	return &run, nil
}

// List returns all runs, most recently started first.
func (s *RunStore) List(_ context.Context) ([]domain.TrainingRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]domain.TrainingRun, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	return runs, nil
}
