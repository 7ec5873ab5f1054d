package driving

import "github.com/visionforge/yolotrain-cli/internal/core/domain"

// TaskFactory builds task instances and exposes the metadata record
// the host's plugin registry consumes. One factory is registered per
// task type.
type TaskFactory interface {
	// Info returns the task metadata record.
	Info() domain.TaskInfo

	// Create builds a new task instance.
	Create() TrainingTask
}

// TaskRegistry is the host-facing plugin registry. It lists registered
// task metadata, answers keyword searches, and instantiates tasks.
type TaskRegistry interface {
	// Register adds a task factory.
	// Returns domain.ErrAlreadyExists for duplicate task names.
	Register(factory TaskFactory) error

	// List returns metadata for all registered tasks.
	List() []domain.TaskInfo

	// Search returns metadata for tasks matching a keyword.
	Search(term string) []domain.TaskInfo

	// Create instantiates the named task.
	// Returns domain.ErrUnsupportedType for unknown names.
	Create(name string) (TrainingTask, error)
}
