package driven

import (
	"context"

	"github.com/visionforge/yolotrain-cli/internal/core/domain"
)

// RunStore persists training run records.
type RunStore interface {
	// Save stores or updates a run record by ID.
	Save(ctx context.Context, run *domain.TrainingRun) error

	// Get retrieves a run by ID.
	// Returns domain.ErrNotFound if the run does not exist.
	Get(ctx context.Context, id string) (*domain.TrainingRun, error)

	// List returns all runs, most recently started first.
	List(ctx context.Context) ([]domain.TrainingRun, error)
}
