package driven

import (
	"context"

	"github.com/visionforge/yolotrain-cli/internal/core/domain"
)

// ExperimentTracker forwards run lifecycle events and per-epoch metrics
// to an experiment-tracking integration. Tracking is a best-effort side
// channel: callers log failures but never abort training on them.
type ExperimentTracker interface {
	// StartRun announces a new training run to the sink.
	StartRun(ctx context.Context, run *domain.TrainingRun) error

	// LogEpoch forwards metrics for one completed epoch.
	LogEpoch(ctx context.Context, runID string, metrics domain.EpochMetrics) error

	// EndRun marks the run finished in the sink.
	EndRun(ctx context.Context, runID string, state domain.RunState) error
}
