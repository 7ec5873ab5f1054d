// Command yolotrain trains YOLOv8 image-classification models by
// delegating to the Ultralytics trainer, with hyperparameter
// resolution, experiment tracking and run history.
package main

import (
	"fmt"
	"os"

	"github.com/visionforge/yolotrain-cli/internal/adapters/driven/config/file"
	"github.com/visionforge/yolotrain-cli/internal/adapters/driven/config/yamldoc"
	"github.com/visionforge/yolotrain-cli/internal/adapters/driven/device"
	"github.com/visionforge/yolotrain-cli/internal/adapters/driven/storage/sqlite"
	"github.com/visionforge/yolotrain-cli/internal/adapters/driven/tracking/curves"
	"github.com/visionforge/yolotrain-cli/internal/adapters/driven/tracking/mlflow"
	"github.com/visionforge/yolotrain-cli/internal/adapters/driven/tracking/multi"
	"github.com/visionforge/yolotrain-cli/internal/adapters/driven/trainer/ultralytics"
	"github.com/visionforge/yolotrain-cli/internal/adapters/driving/cli"
	"github.com/visionforge/yolotrain-cli/internal/core/domain"
	"github.com/visionforge/yolotrain-cli/internal/core/services"
	"github.com/visionforge/yolotrain-cli/internal/logger"
	"github.com/visionforge/yolotrain-cli/internal/tasks/yolov8cls"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	store, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	defer store.Close()

	tracker := multi.NewTracker(
		mlflow.NewTracker(mlflow.Config{
			BaseURL:    settings.TrackingURI,
			Experiment: settings.ExperimentName,
		}),
		curves.NewTracker(),
	)

	trainer := ultralytics.NewTrainer(ultralytics.Config{
		Binary: settings.TrainerBinary,
	})

	selector := &device.Override{Fallback: device.NewCUDASelector()}

	factory := yolov8cls.NewFactory(
		trainer,
		tracker,
		selector,
		store,
		yamldoc.Loader{},
		cli.NewConsoleProgress(os.Stdout),
	)

	registry := services.NewTaskRegistry()
	if err := registry.Register(factory); err != nil {
		return fmt.Errorf("register task: %w", err)
	}

	cli.Setup(cli.Dependencies{
		Version:     version,
		Registry:    registry,
		Runs:        store,
		ForceDevice: selector.Force,
	})
	return cli.Execute()
}

// loadSettings reads persisted settings; an unreadable settings store
// degrades to defaults so the CLI still works.
func loadSettings() (domain.AppSettings, error) {
	settingsStore, err := file.NewSettingsStore("")
	if err != nil {
		logger.Warn("Settings unavailable, using defaults: %v", err)
		return domain.DefaultAppSettings(), nil
	}

	settings, err := settingsStore.Load()
	if err != nil {
		return settings, fmt.Errorf("load settings: %w", err)
	}
	return settings, nil
}
