package cli

import (
	"errors"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/visionforge/yolotrain-cli/internal/core/domain"
	"github.com/visionforge/yolotrain-cli/internal/tasks/yolov8cls"
)

// trainFlags collects the raw hyperparameter values from the command
// line. Values stay stringly typed here; the task's parameter resolver
// performs the coercion, exactly as it would for host-supplied input.
type trainFlags struct {
	task        string
	model       string
	epochs      string
	batchSize   string
	inputSize   string
	splitRatio  string
	workers     string
	optimizer   string
	weightDecay string
	momentum    string
	lr0         string
	lrf         string
	configFile  string
	output      string
	device      string
}

var trainOpts trainFlags

var trainCmd = &cobra.Command{
	Use:   "train <dataset-folder>",
	Short: "Run one training pass on a classification dataset",
	Long: `Runs a single delegated training call for the dataset folder.
Hyperparameters come from flags; alternatively --config supplies a YAML
document whose keys are passed through to the trainer verbatim
(flag-mapped parameters are ignored in that mode).`,
	Example: `  yolotrain train ./dataset --epochs 50 --batch-size 16
  yolotrain train ./dataset --config train.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runTrain,
}

//nolint:gochecknoinits // Cobra command registration
func init() {
	defaults := domain.DefaultTrainConfig()

	trainCmd.Flags().StringVar(&trainOpts.task, "task", yolov8cls.TaskName, "registered task to run")
	trainCmd.Flags().StringVar(&trainOpts.model, "model", defaults.ModelName, "pretrained model variant")
	trainCmd.Flags().StringVar(&trainOpts.epochs, "epochs", strconv.Itoa(defaults.Epochs), "number of training epochs")
	trainCmd.Flags().StringVar(&trainOpts.batchSize, "batch-size", strconv.Itoa(defaults.BatchSize), "training batch size")
	trainCmd.Flags().StringVar(&trainOpts.inputSize, "input-size", strconv.Itoa(defaults.InputSize), "input image size in pixels")
	trainCmd.Flags().StringVar(&trainOpts.splitRatio, "split-ratio", formatFloat(defaults.DatasetSplitRatio), "train/validation split ratio")
	trainCmd.Flags().StringVar(&trainOpts.workers, "workers", strconv.Itoa(defaults.Workers), "data-loader worker count")
	trainCmd.Flags().StringVar(&trainOpts.optimizer, "optimizer", defaults.Optimizer, "optimizer name")
	trainCmd.Flags().StringVar(&trainOpts.weightDecay, "weight-decay", formatFloat(defaults.WeightDecay), "optimizer weight decay")
	trainCmd.Flags().StringVar(&trainOpts.momentum, "momentum", formatFloat(defaults.Momentum), "optimizer momentum")
	trainCmd.Flags().StringVar(&trainOpts.lr0, "lr0", formatFloat(defaults.LR0), "initial learning rate")
	trainCmd.Flags().StringVar(&trainOpts.lrf, "lrf", formatFloat(defaults.LRF), "final learning rate fraction")
	trainCmd.Flags().StringVar(&trainOpts.configFile, "config", defaults.ConfigFile, "YAML config file passed through to the trainer")
	trainCmd.Flags().StringVar(&trainOpts.output, "output", defaults.OutputFolder, "parent folder for run output")
	trainCmd.Flags().StringVar(&trainOpts.device, "device", "", "force the compute device (e.g. cpu, cuda:0)")

	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) error {
	if taskRegistry == nil {
		return errors.New("task registry not configured")
	}

	datasetFolder := args[0]

	task, err := taskRegistry.Create(trainOpts.task)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	if err := task.Configure(paramMap(datasetFolder, trainOpts)); err != nil {
		return fmt.Errorf("configure task: %w", err)
	}

	if trainOpts.device != "" && forceDevice != nil {
		forceDevice(trainOpts.device)
	}

	// Ctrl-C cancels the delegated trainer process.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Training %s on %s...\n", trainOpts.task, datasetFolder)
	start := time.Now()

	run, err := task.Run(ctx, datasetFolder)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	cmd.Printf("Run %s completed in %s\n", run.ID, time.Since(start).Round(time.Second))
	cmd.Printf("Output: %s\n", run.OutputDir)
	return nil
}

// paramMap assembles the host-style parameter map from the raw flag
// values. The dataset folder fills both the parameter and the input
// slot, matching how the host supplies it.
func paramMap(datasetFolder string, opts trainFlags) domain.ParamMap {
	return domain.ParamMap{
		domain.ParamDatasetFolder:     datasetFolder,
		domain.ParamModelName:         opts.model,
		domain.ParamEpochs:            opts.epochs,
		domain.ParamBatchSize:         opts.batchSize,
		domain.ParamInputSize:         opts.inputSize,
		domain.ParamDatasetSplitRatio: opts.splitRatio,
		domain.ParamWorkers:           opts.workers,
		domain.ParamOptimizer:         opts.optimizer,
		domain.ParamWeightDecay:       opts.weightDecay,
		domain.ParamMomentum:          opts.momentum,
		domain.ParamLR0:               opts.lr0,
		domain.ParamLRF:               opts.lrf,
		domain.ParamConfigFile:        opts.configFile,
		domain.ParamOutputFolder:      opts.output,
	}
}

// formatFloat renders a float flag default the way the user would type it.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
