package driven

import (
	"context"

	"github.com/visionforge/yolotrain-cli/internal/core/domain"
)

// TrainArgs is the open-ended keyword-argument set passed to the
// delegated training call. In config-file mode it is the parsed
// document verbatim; in mapped mode it is built from the resolved
// TrainConfig. The two are mutually exclusive and never merged.
// There is deliberately no compile-time field checking: argument names
// are library-defined and evolve independently of this code.
type TrainArgs map[string]any

// EpochCallback receives metrics at the end of each training epoch.
type EpochCallback func(domain.EpochMetrics)

// Trainer is the delegated training entry point. Implementations wrap
// an external deep-learning library; the training algorithm itself
// (data loading, augmentation, loss, gradient descent) is opaque to
// this code.
type Trainer interface {
	// Train runs the delegated training routine exactly once for the
	// given model artifact. It blocks for the entire duration of
	// training and returns the library's failure unchanged. Cancelling
	// the context terminates the run.
	Train(ctx context.Context, artifact string, args TrainArgs) error

	// AddEpochCallback registers a callback invoked at the end of each
	// training epoch. Callbacks are invoked sequentially from a single
	// goroutine.
	AddEpochCallback(cb EpochCallback)
}
