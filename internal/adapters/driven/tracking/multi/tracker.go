// Package multi fans experiment-tracking events out to several sinks.
// Both the tracking-server and training-curve integrations are enabled
// unconditionally at construction time, so run events reach every sink.
package multi

import (
	"context"
	"errors"

	"github.com/visionforge/yolotrain-cli/internal/core/domain"
	"github.com/visionforge/yolotrain-cli/internal/core/ports/driven"
)

// Ensure Tracker implements the interface.
var _ driven.ExperimentTracker = (*Tracker)(nil)

// Tracker forwards every call to each wrapped sink. A failing sink
// does not stop the others; failures are joined into one error.
type Tracker struct {
	sinks []driven.ExperimentTracker
}

// NewTracker creates a fan-out tracker over the given sinks.
func NewTracker(sinks ...driven.ExperimentTracker) *Tracker {
	return &Tracker{sinks: sinks}
}

// StartRun announces the run to every sink.
func (t *Tracker) StartRun(ctx context.Context, run *domain.TrainingRun) error {
	var errs []error
	for _, sink := range t.sinks {
		if err := sink.StartRun(ctx, run); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogEpoch forwards epoch metrics to every sink.
func (t *Tracker) LogEpoch(ctx context.Context, runID string, metrics domain.EpochMetrics) error {
	var errs []error
	for _, sink := range t.sinks {
		if err := sink.LogEpoch(ctx, runID, metrics); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// EndRun marks the run finished in every sink.
func (t *Tracker) EndRun(ctx context.Context, runID string, state domain.RunState) error {
	var errs []error
	for _, sink := range t.sinks {
		if err := sink.EndRun(ctx, runID, state); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
