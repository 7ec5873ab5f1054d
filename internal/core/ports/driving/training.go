package driving

import (
	"context"

	"github.com/visionforge/yolotrain-cli/internal/core/domain"
)

// TrainingTask is the capability surface a training task exposes to
// the host lifecycle. The host configures the task from its parameter
// map, supplies the dataset folder through its input slot, and runs it.
type TrainingTask interface {
	// Configure applies a bulk parameter update. Raw values are coerced
	// to their declared types; a missing or non-coercible key fails the
	// whole update.
	Configure(params domain.ParamMap) error

	// Run executes one training run for the dataset folder and blocks
	// until the delegated trainer finishes. Only one run may be active
	// at a time; concurrent calls fail with domain.ErrRunInProgress.
	Run(ctx context.Context, datasetFolder string) (*domain.TrainingRun, error)

	// ProgressSteps returns the number of progress steps this task
	// reports to the host's progress bar.
	ProgressSteps() int

	// Status returns the current lifecycle state.
	Status() domain.RunState
}
