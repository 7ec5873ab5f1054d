// Package curves provides a file-based training-curve sink. Each run
// gets a curves.jsonl file in its output directory with one JSON line
// per epoch, suitable for plotting training curves without a tracking
// server.
package curves

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/visionforge/yolotrain-cli/internal/core/domain"
	"github.com/visionforge/yolotrain-cli/internal/core/ports/driven"
)

// Ensure Tracker implements the interface.
var _ driven.ExperimentTracker = (*Tracker)(nil)

// FileName is the per-run curve file name.
const FileName = "curves.jsonl"

// Tracker appends per-epoch metric lines to a file in the run's
// output directory.
type Tracker struct {
	mu    sync.Mutex
	files map[string]*os.File
}

// NewTracker creates a training-curve file sink.
func NewTracker() *Tracker {
	return &Tracker{files: make(map[string]*os.File)}
}

// curvePoint is the JSON line format.
type curvePoint struct {
	Epoch  int                `json:"epoch"`
	Values map[string]float64 `json:"values"`
}

// StartRun opens the curve file in the run's output directory.
func (t *Tracker) StartRun(_ context.Context, run *domain.TrainingRun) error {
	path := filepath.Join(run.OutputDir, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open curve file: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if old, ok := t.files[run.ID]; ok {
		old.Close()
	}
	t.files[run.ID] = f
	return nil
}

// LogEpoch appends one epoch line.
func (t *Tracker) LogEpoch(_ context.Context, runID string, metrics domain.EpochMetrics) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, ok := t.files[runID]
	if !ok {
		return fmt.Errorf("%w: run %s", domain.ErrNotFound, runID)
	}

	line, err := json.Marshal(curvePoint{Epoch: metrics.Epoch, Values: metrics.Values})
	if err != nil {
		return fmt.Errorf("marshal curve point: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write curve point: %w", err)
	}
	return nil
}

// EndRun closes the run's curve file.
func (t *Tracker) EndRun(_ context.Context, runID string, _ domain.RunState) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, ok := t.files[runID]
	if !ok {
		return nil
	}
	delete(t.files, runID)

	if err := f.Close(); err != nil {
		return fmt.Errorf("close curve file: %w", err)
	}
	return nil
}
