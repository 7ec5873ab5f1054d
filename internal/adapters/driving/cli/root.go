// Package cli provides the cobra command-line interface. The CLI
// stands in for the plugin host: it supplies the dataset-folder input
// slot, drives the task lifecycle and displays progress.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/visionforge/yolotrain-cli/internal/core/ports/driven"
	"github.com/visionforge/yolotrain-cli/internal/core/ports/driving"
	"github.com/visionforge/yolotrain-cli/internal/logger"
)

// Package-level dependencies, injected via Setup before Execute.
var (
	version      = "dev"
	taskRegistry driving.TaskRegistry
	runStore     driven.RunStore
	forceDevice  func(string)
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "yolotrain",
	Short: "Train YOLOv8 image-classification models",
	Long: `yolotrain integrates YOLOv8 image-classification training into a
plugin-host workflow: it resolves hyperparameters, delegates the
training loop to the Ultralytics trainer, forwards per-epoch metrics
to experiment tracking and records each run.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	SilenceUsage: true,
}

//nolint:gochecknoinits // Cobra command registration
func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Dependencies holds everything the CLI needs from the composition root.
type Dependencies struct {
	// Version is the build version string.
	Version string
	// Registry is the task registry the CLI lists, searches and
	// instantiates tasks from.
	Registry driving.TaskRegistry
	// Runs is the run-history store backing the runs command.
	Runs driven.RunStore
	// ForceDevice overrides the automatic device selection when the
	// user passes --device. Optional.
	ForceDevice func(string)
}

// Setup injects dependencies. Call once before Execute.
func Setup(deps Dependencies) {
	if deps.Version != "" {
		version = deps.Version
	}
	taskRegistry = deps.Registry
	runStore = deps.Runs
	forceDevice = deps.ForceDevice
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
