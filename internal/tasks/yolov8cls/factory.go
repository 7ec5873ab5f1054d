// Package yolov8cls registers the YOLOv8 image-classification training
// task. The task is a thin adapter: the training algorithm lives
// entirely inside the wrapped Ultralytics library.
package yolov8cls

import (
	"github.com/visionforge/yolotrain-cli/internal/core/domain"
	"github.com/visionforge/yolotrain-cli/internal/core/ports/driven"
	"github.com/visionforge/yolotrain-cli/internal/core/ports/driving"
	"github.com/visionforge/yolotrain-cli/internal/core/services"
)

// TaskName is the identifier the task registers under.
const TaskName = "train_yolo_v8_classification"

// Ensure Factory implements the interface.
var _ driving.TaskFactory = (*Factory)(nil)

// Factory builds YOLOv8 classification training tasks. Each created
// task gets a fresh parameter resolver initialised with defaults and
// shares the injected adapters.
type Factory struct {
	trainer  driven.Trainer
	tracker  driven.ExperimentTracker
	device   driven.DeviceSelector
	runs     driven.RunStore
	docs     driven.ConfigDocumentLoader
	progress driven.ProgressSink
}

// NewFactory creates a task factory with the given adapters.
func NewFactory(
	trainer driven.Trainer,
	tracker driven.ExperimentTracker,
	device driven.DeviceSelector,
	runs driven.RunStore,
	docs driven.ConfigDocumentLoader,
	progress driven.ProgressSink,
) *Factory {
	return &Factory{
		trainer:  trainer,
		tracker:  tracker,
		device:   device,
		runs:     runs,
		docs:     docs,
		progress: progress,
	}
}

// Info returns the task metadata record for the host's plugin registry.
func (f *Factory) Info() domain.TaskInfo {
	return domain.TaskInfo{
		Name:              TaskName,
		ShortDescription:  "Train YOLOv8 classification models.",
		Description:       "This algorithm proposes train on YOLOv8 image classification models.",
		Path:              "Plugins/Go/Classification",
		Version:           "1.0.0",
		Authors:           "Jocher, G., Chaurasia, A., & Qiu, J",
		Article:           "YOLO by Ultralytics",
		Year:              2023,
		License:           "AGPL-3.0",
		DocumentationLink: "https://docs.ultralytics.com/",
		Repository:        "https://github.com/ultralytics/ultralytics",
		Keywords:          []string{"YOLO", "classification", "ultralytics", "imagenet"},
	}
}

// Create builds a new training task instance.
func (f *Factory) Create() driving.TrainingTask {
	return services.NewTrainingOrchestrator(
		services.NewParamResolver(),
		f.trainer,
		f.tracker,
		f.device,
		f.runs,
		f.docs,
		f.progress,
	)
}
