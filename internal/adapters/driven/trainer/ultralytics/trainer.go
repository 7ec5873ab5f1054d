// Package ultralytics invokes the Ultralytics YOLO command-line
// trainer. The trainer process is an opaque black box: this adapter
// marshals arguments in, watches the results file for per-epoch
// metrics, and propagates failures out unchanged.
package ultralytics

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"sync"

	"github.com/visionforge/yolotrain-cli/internal/core/ports/driven"
	"github.com/visionforge/yolotrain-cli/internal/logger"
)

// Ensure Trainer implements the interface.
var _ driven.Trainer = (*Trainer)(nil)

// DefaultBinary is the Ultralytics CLI entry point.
const DefaultBinary = "yolo"

// Config holds trainer adapter configuration.
type Config struct {
	// Binary is the trainer executable (default: "yolo").
	Binary string
}

// Trainer shells out to the Ultralytics CLI for the delegated training
// call. Epoch-end callbacks fire as the trainer appends rows to its
// results file.
type Trainer struct {
	binary string

	mu        sync.Mutex
	callbacks []driven.EpochCallback
}

// NewTrainer creates an Ultralytics trainer adapter.
func NewTrainer(cfg Config) *Trainer {
	if cfg.Binary == "" {
		cfg.Binary = DefaultBinary
	}
	return &Trainer{binary: cfg.Binary}
}

// AddEpochCallback registers an epoch-end callback.
func (t *Trainer) AddEpochCallback(cb driven.EpochCallback) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.callbacks = append(t.callbacks, cb)
}

// Train runs the trainer process once and blocks until it exits.
// Cancelling the context kills the process. Any trainer failure (bad
// path, OOM, invalid hyperparameter) is returned unchanged apart from
// wrapping; there is no retry.
func (t *Trainer) Train(ctx context.Context, artifact string, args driven.TrainArgs) error {
	cliArgs := buildCLIArgs(artifact, args)

	cmd := exec.CommandContext(ctx, t.binary, cliArgs...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	// Watch the project directory for results so epoch-end callbacks
	// fire while the trainer runs. Watch failures degrade to a run
	// without per-epoch metrics, never to a training failure.
	if project, ok := args["project"].(string); ok && project != "" {
		watcher, err := newResultsWatcher(project, t.snapshotCallbacks())
		if err != nil {
			logger.Debug("Results watcher unavailable for %s: %v", project, err)
		} else {
			watcher.Start()
			defer watcher.Stop()
		}
	}

	logger.Debug("Exec: %s %v", t.binary, cliArgs)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", t.binary, err)
	}
	return nil
}

// snapshotCallbacks copies the callback list under the lock.
func (t *Trainer) snapshotCallbacks() []driven.EpochCallback {
	t.mu.Lock()
	defer t.mu.Unlock()
	cbs := make([]driven.EpochCallback, len(t.callbacks))
	copy(cbs, t.callbacks)
	return cbs
}

// buildCLIArgs converts the keyword-argument set to the trainer's
// key=value argument syntax. The model artifact always comes first;
// remaining keys are sorted for deterministic invocations. A "model"
// key inside args is skipped because the artifact already carries it.
func buildCLIArgs(artifact string, args driven.TrainArgs) []string {
	cliArgs := []string{"train", "model=" + artifact}

	keys := make([]string, 0, len(args))
	for k := range args {
		if k == "model" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		cliArgs = append(cliArgs, k+"="+formatValue(args[k]))
	}
	return cliArgs
}

// formatValue renders one argument value in CLI form.
func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	default:
		return fmt.Sprintf("%v", val)
	}
}
