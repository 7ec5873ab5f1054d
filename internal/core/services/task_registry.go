package services

import (
	"fmt"
	"sort"
	"sync"

	"github.com/visionforge/yolotrain-cli/internal/core/domain"
	"github.com/visionforge/yolotrain-cli/internal/core/ports/driving"
)

// Ensure TaskRegistry implements the interface.
var _ driving.TaskRegistry = (*TaskRegistry)(nil)

// TaskRegistry is the host-facing plugin registry. Factories register
// under their metadata name; the host lists and keyword-searches the
// metadata records and instantiates tasks by name.
type TaskRegistry struct {
	mu        sync.RWMutex
	factories map[string]driving.TaskFactory
}

// NewTaskRegistry creates an empty task registry.
func NewTaskRegistry() *TaskRegistry {
	return &TaskRegistry{
		factories: make(map[string]driving.TaskFactory),
	}
}

// Register adds a task factory under its metadata name.
func (r *TaskRegistry) Register(factory driving.TaskFactory) error {
	name := factory.Info().Name
	if name == "" {
		return fmt.Errorf("%w: empty task name", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyExists, name)
	}
	r.factories[name] = factory
	return nil
}

// List returns metadata for all registered tasks, sorted by name.
func (r *TaskRegistry) List() []domain.TaskInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]domain.TaskInfo, 0, len(r.factories))
	for _, factory := range r.factories {
		infos = append(infos, factory.Info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Search returns metadata for tasks matching the keyword.
func (r *TaskRegistry) Search(term string) []domain.TaskInfo {
	var matches []domain.TaskInfo
	for _, info := range r.List() {
		if info.MatchesKeyword(term) {
			matches = append(matches, info)
		}
	}
	return matches
}

// Create instantiates the named task.
func (r *TaskRegistry) Create(name string) (driving.TrainingTask, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, name)
	}
	return factory.Create(), nil
}
