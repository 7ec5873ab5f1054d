package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/visionforge/yolotrain-cli/internal/core/domain"
	"github.com/visionforge/yolotrain-cli/internal/core/ports/driven"
	"github.com/visionforge/yolotrain-cli/internal/core/ports/driving"
	"github.com/visionforge/yolotrain-cli/internal/logger"
)

// Ensure TrainingOrchestrator implements the interface.
var _ driving.TrainingTask = (*TrainingOrchestrator)(nil)

// outputDirLayout is the timestamp layout for run output directories.
const outputDirLayout = "20060102_150405"

// progressSteps is the number of coarse steps reported to the host.
// The whole delegated training call counts as a single step.
const progressSteps = 1

// TrainingOrchestrator resolves parameters and drives one delegated
// training call per run. It owns no training logic itself: the model
// construction and the training loop live inside the wrapped library.
type TrainingOrchestrator struct {
	resolver *ParamResolver
	trainer  driven.Trainer
	tracker  driven.ExperimentTracker
	device   driven.DeviceSelector
	runs     driven.RunStore
	docs     driven.ConfigDocumentLoader
	progress driven.ProgressSink

	// now is injectable for deterministic output-directory names in tests.
	now func() time.Time

	mu     sync.Mutex
	state  domain.RunState
	active *domain.TrainingRun
}

// NewTrainingOrchestrator creates an orchestrator and registers the
// epoch-end callback that forwards metrics to the tracking sink.
// Tracking is enabled unconditionally at construction.
func NewTrainingOrchestrator(
	resolver *ParamResolver,
	trainer driven.Trainer,
	tracker driven.ExperimentTracker,
	device driven.DeviceSelector,
	runs driven.RunStore,
	docs driven.ConfigDocumentLoader,
	progress driven.ProgressSink,
) *TrainingOrchestrator {
	o := &TrainingOrchestrator{
		resolver: resolver,
		trainer:  trainer,
		tracker:  tracker,
		device:   device,
		runs:     runs,
		docs:     docs,
		progress: progress,
		now:      time.Now,
		state:    domain.RunStateIdle,
	}
	trainer.AddEpochCallback(o.onEpochEnd)
	return o
}

// Configure applies a bulk parameter update from the host.
func (o *TrainingOrchestrator) Configure(params domain.ParamMap) error {
	return o.resolver.SetValues(params)
}

// ProgressSteps returns the number of progress steps for this task.
// The host's main progress bar advances once per run.
func (o *TrainingOrchestrator) ProgressSteps() int {
	return progressSteps
}

// Status returns the current lifecycle state.
func (o *TrainingOrchestrator) Status() domain.RunState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Run executes one training run for the dataset folder supplied by the
// host's input slot. It blocks until the delegated trainer finishes.
//
// Failures inside the delegated call propagate unchanged apart from
// error wrapping; there is no retry and no rollback of the created
// output directory.
func (o *TrainingOrchestrator) Run(ctx context.Context, datasetFolder string) (*domain.TrainingRun, error) {
	cfg := o.resolver.Config()

	// 1. Resolve the compute device once at run start.
	device := o.device.Select(ctx)

	// 2. Determine the model artifact and, in config-file mode, the
	// passthrough argument document. The two modes are mutually
	// exclusive; in mapped mode the config path is never opened.
	var (
		artifact string
		passthru driven.TrainArgs
	)
	if cfg.ConfigFile != "" {
		doc, err := o.docs.Load(cfg.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
		model, ok := doc["model"].(string)
		if !ok || model == "" {
			return nil, fmt.Errorf("%w: %s", domain.ErrMissingModelKey, cfg.ConfigFile)
		}
		artifact = model
		passthru = driven.TrainArgs(doc)
	} else {
		artifact = cfg.ModelName + ".pt"
	}

	// 3. Create the timestamped output directory. Idempotent: an
	// existing directory is not an error.
	outputDir := filepath.Join(cfg.OutputFolder, o.now().Format(outputDirLayout))
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	args := passthru
	if args == nil {
		args = mappedArgs(cfg, datasetFolder, device, outputDir)
	}

	run := &domain.TrainingRun{
		ID:            uuid.New().String(),
		Artifact:      artifact,
		Device:        device,
		DatasetFolder: datasetFolder,
		ConfigFile:    cfg.ConfigFile,
		OutputDir:     outputDir,
		State:         domain.RunStateRunning,
		StartedAt:     o.now(),
	}

	if err := o.begin(run); err != nil {
		return nil, err
	}

	if err := o.runs.Save(ctx, run); err != nil {
		logger.Warn("Failed to record run %s: %v", run.ID, err)
	}
	if err := o.tracker.StartRun(ctx, run); err != nil {
		logger.Warn("Tracking start failed for run %s: %v", run.ID, err)
	}

	// 4. The single delegated training call.
	logger.Info("Training %s on %s (device %s)", artifact, datasetFolder, device)
	trainErr := o.trainer.Train(ctx, artifact, args)

	run.EndedAt = o.now()
	if trainErr != nil {
		run.State = domain.RunStateFailed
		run.Error = trainErr.Error()
	} else {
		run.State = domain.RunStateCompleted
	}
	o.finish(run.State)

	if err := o.runs.Save(ctx, run); err != nil {
		logger.Warn("Failed to record run %s: %v", run.ID, err)
	}
	if err := o.tracker.EndRun(ctx, run.ID, run.State); err != nil {
		logger.Warn("Tracking end failed for run %s: %v", run.ID, err)
	}

	if trainErr != nil {
		o.progress.Done(trainErr)
		return run, fmt.Errorf("delegated training call: %w", trainErr)
	}

	// 5. Exactly one progress step per successful run, then completion.
	o.progress.EmitStep()
	o.progress.Done(nil)
	return run, nil
}

// mappedArgs builds the delegated-call arguments from individually
// mapped parameters. Argument names follow the wrapped library's
// keyword conventions. The pretrained flag is forced true.
func mappedArgs(cfg domain.TrainConfig, datasetFolder, device, outputDir string) driven.TrainArgs {
	return driven.TrainArgs{
		"data":         datasetFolder,
		"epochs":       cfg.Epochs,
		"imgsz":        cfg.InputSize,
		"batch":        cfg.BatchSize,
		"workers":      cfg.Workers,
		"optimizer":    cfg.Optimizer,
		"momentum":     cfg.Momentum,
		"weight_decay": cfg.WeightDecay,
		"lr0":          cfg.LR0,
		"lrf":          cfg.LRF,
		"pretrained":   true,
		"device":       device,
		"project":      outputDir,
	}
}

// begin transitions Idle -> Running, enforcing single-run semantics.
func (o *TrainingOrchestrator) begin(run *domain.TrainingRun) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == domain.RunStateRunning {
		return domain.ErrRunInProgress
	}
	o.state = domain.RunStateRunning
	o.active = run
	return nil
}

// finish records the terminal state and clears the active run.
func (o *TrainingOrchestrator) finish(state domain.RunState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = state
	o.active = nil
}

// onEpochEnd forwards per-epoch metrics to the tracking sink. It is
// registered with the trainer at construction and only fires while a
// run is active.
func (o *TrainingOrchestrator) onEpochEnd(metrics domain.EpochMetrics) {
	o.mu.Lock()
	run := o.active
	o.mu.Unlock()
	if run == nil {
		return
	}

	if err := o.tracker.LogEpoch(context.Background(), run.ID, metrics); err != nil {
		logger.Debug("Tracking epoch %d failed for run %s: %v", metrics.Epoch, run.ID, err)
	}
}
