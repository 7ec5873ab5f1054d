package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visionforge/yolotrain-cli/internal/adapters/driven/storage/memory"
	"github.com/visionforge/yolotrain-cli/internal/core/domain"
	"github.com/visionforge/yolotrain-cli/internal/core/ports/driven"
)

// trainCall records one delegated trainer invocation.
type trainCall struct {
	artifact string
	args     driven.TrainArgs
}

// fakeTrainer captures invocations and optionally emits epoch metrics
// or blocks mid-call.
type fakeTrainer struct {
	mu        sync.Mutex
	callbacks []driven.EpochCallback
	calls     []trainCall
	err       error
	emit      []domain.EpochMetrics
	block     chan struct{}
	started   chan struct{}
}

func (f *fakeTrainer) AddEpochCallback(cb driven.EpochCallback) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callbacks = append(f.callbacks, cb)
}

func (f *fakeTrainer) Train(_ context.Context, artifact string, args driven.TrainArgs) error {
	f.mu.Lock()
	f.calls = append(f.calls, trainCall{artifact: artifact, args: args})
	callbacks := append([]driven.EpochCallback(nil), f.callbacks...)
	f.mu.Unlock()

	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	for _, metrics := range f.emit {
		for _, cb := range callbacks {
			cb(metrics)
		}
	}
	return f.err
}

func (f *fakeTrainer) trainCalls() []trainCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]trainCall(nil), f.calls...)
}

// fakeTracker records lifecycle events and forwarded epochs.
type fakeTracker struct {
	mu       sync.Mutex
	started  []string
	ended    map[string]domain.RunState
	epochs   map[string][]domain.EpochMetrics
	startErr error
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{
		ended:  make(map[string]domain.RunState),
		epochs: make(map[string][]domain.EpochMetrics),
	}
}

func (f *fakeTracker) StartRun(_ context.Context, run *domain.TrainingRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, run.ID)
	return f.startErr
}

func (f *fakeTracker) LogEpoch(_ context.Context, runID string, metrics domain.EpochMetrics) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.epochs[runID] = append(f.epochs[runID], metrics)
	return nil
}

func (f *fakeTracker) EndRun(_ context.Context, runID string, state domain.RunState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ended[runID] = state
	return nil
}

// fakeLoader serves a fixed config document and records requested paths.
type fakeLoader struct {
	doc   map[string]any
	err   error
	paths []string
}

func (f *fakeLoader) Load(path string) (map[string]any, error) {
	f.paths = append(f.paths, path)
	return f.doc, f.err
}

// fakeProgress counts progress signals.
type fakeProgress struct {
	mu    sync.Mutex
	steps int
	done  []error
}

func (f *fakeProgress) EmitStep() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.steps++
}

func (f *fakeProgress) Done(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.done = append(f.done, err)
}

// staticDevice always selects the same device string.
type staticDevice string

func (d staticDevice) Select(context.Context) string { return string(d) }

// testHarness bundles an orchestrator with its fakes.
type testHarness struct {
	orch     *TrainingOrchestrator
	trainer  *fakeTrainer
	tracker  *fakeTracker
	loader   *fakeLoader
	progress *fakeProgress
	runs     *memory.RunStore
}

func newTestHarness(t *testing.T, trainer *fakeTrainer, loader *fakeLoader) *testHarness {
	t.Helper()

	h := &testHarness{
		trainer:  trainer,
		tracker:  newFakeTracker(),
		loader:   loader,
		progress: &fakeProgress{},
		runs:     memory.NewRunStore(),
	}

	resolver := NewParamResolver()
	params := fullParams()
	params[domain.ParamOutputFolder] = t.TempDir()
	require.NoError(t, resolver.SetValues(params))

	h.orch = NewTrainingOrchestrator(
		resolver, trainer, h.tracker, staticDevice("cpu"), h.runs, loader, h.progress,
	)
	return h
}

// configure re-applies the resolver parameters with overrides.
func (h *testHarness) configure(t *testing.T, overrides domain.ParamMap) {
	t.Helper()
	params := fullParams()
	params[domain.ParamOutputFolder] = h.orch.resolver.Config().OutputFolder
	for k, v := range overrides {
		params[k] = v
	}
	require.NoError(t, h.orch.Configure(params))
}

func TestRun_MappedMode(t *testing.T) {
	trainer := &fakeTrainer{}
	h := newTestHarness(t, trainer, &fakeLoader{})

	run, err := h.orch.Run(context.Background(), "/data/flowers")
	require.NoError(t, err)

	// Artifact is synthesised from the model name.
	assert.Equal(t, "yolov8s-cls.pt", run.Artifact)
	assert.Equal(t, domain.RunStateCompleted, run.State)
	assert.Equal(t, "cpu", run.Device)
	assert.DirExists(t, run.OutputDir)

	calls := trainer.trainCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "yolov8s-cls.pt", calls[0].artifact)
	assert.Equal(t, "/data/flowers", calls[0].args["data"])
	assert.Equal(t, 50, calls[0].args["epochs"])
	assert.Equal(t, 224, calls[0].args["imgsz"])
	assert.Equal(t, 16, calls[0].args["batch"])
	assert.Equal(t, true, calls[0].args["pretrained"])
	assert.Equal(t, "cpu", calls[0].args["device"])
	assert.Equal(t, run.OutputDir, calls[0].args["project"])

	// The config path is never opened in mapped mode.
	assert.Empty(t, h.loader.paths)

	saved, err := h.runs.Get(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStateCompleted, saved.State)

	assert.Equal(t, []string{run.ID}, h.tracker.started)
	assert.Equal(t, domain.RunStateCompleted, h.tracker.ended[run.ID])
}

func TestRun_ConfigFileMode(t *testing.T) {
	doc := map[string]any{
		"model":  "custom-cls.pt",
		"epochs": 3,
		"mosaic": 0.5,
	}
	trainer := &fakeTrainer{}
	h := newTestHarness(t, trainer, &fakeLoader{doc: doc})
	h.configure(t, domain.ParamMap{domain.ParamConfigFile: "train.yaml"})

	run, err := h.orch.Run(context.Background(), "/data/flowers")
	require.NoError(t, err)

	assert.Equal(t, "custom-cls.pt", run.Artifact)
	assert.Equal(t, []string{"train.yaml"}, h.loader.paths)

	// Document keys pass through verbatim; mapped parameters are not
	// merged in.
	calls := trainer.trainCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, 3, calls[0].args["epochs"])
	assert.Equal(t, 0.5, calls[0].args["mosaic"])
	assert.NotContains(t, calls[0].args, "data")
	assert.NotContains(t, calls[0].args, "imgsz")
}

func TestRun_ConfigFileMissingModelKey(t *testing.T) {
	tests := []struct {
		name string
		doc  map[string]any
	}{
		{name: "absent", doc: map[string]any{"epochs": 3}},
		{name: "empty", doc: map[string]any{"model": ""}},
		{name: "not a string", doc: map[string]any{"model": 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trainer := &fakeTrainer{}
			h := newTestHarness(t, trainer, &fakeLoader{doc: tt.doc})
			h.configure(t, domain.ParamMap{domain.ParamConfigFile: "train.yaml"})

			_, err := h.orch.Run(context.Background(), "/data/flowers")

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrMissingModelKey)
			assert.Empty(t, trainer.trainCalls())
			assert.Zero(t, h.progress.steps)
		})
	}
}

func TestRun_TrainerFailure(t *testing.T) {
	trainErr := errors.New("CUDA out of memory")
	trainer := &fakeTrainer{err: trainErr}
	h := newTestHarness(t, trainer, &fakeLoader{})

	run, err := h.orch.Run(context.Background(), "/data/flowers")

	require.Error(t, err)
	assert.ErrorIs(t, err, trainErr)
	assert.Equal(t, domain.RunStateFailed, run.State)
	assert.Equal(t, trainErr.Error(), run.Error)
	assert.Equal(t, domain.RunStateFailed, h.orch.Status())

	// Failed runs report completion with the error and no step.
	assert.Zero(t, h.progress.steps)
	require.Len(t, h.progress.done, 1)
	assert.ErrorIs(t, h.progress.done[0], trainErr)

	assert.Equal(t, domain.RunStateFailed, h.tracker.ended[run.ID])
}

func TestRun_SingleProgressStep(t *testing.T) {
	for _, epochs := range []int{1, 1000} {
		trainer := &fakeTrainer{}
		h := newTestHarness(t, trainer, &fakeLoader{})
		h.configure(t, domain.ParamMap{domain.ParamEpochs: epochs})

		_, err := h.orch.Run(context.Background(), "/data/flowers")
		require.NoError(t, err)

		// One coarse step per run, independent of epoch count.
		assert.Equal(t, 1, h.progress.steps)
		require.Len(t, h.progress.done, 1)
		assert.NoError(t, h.progress.done[0])
	}
}

func TestRun_RejectsConcurrentRun(t *testing.T) {
	trainer := &fakeTrainer{
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	h := newTestHarness(t, trainer, &fakeLoader{})

	errs := make(chan error, 1)
	go func() {
		_, err := h.orch.Run(context.Background(), "/data/flowers")
		errs <- err
	}()

	<-trainer.started
	_, err := h.orch.Run(context.Background(), "/data/flowers")
	assert.ErrorIs(t, err, domain.ErrRunInProgress)

	close(trainer.block)
	require.NoError(t, <-errs)
	assert.Equal(t, domain.RunStateCompleted, h.orch.Status())
}

func TestRun_DistinctOutputDirectories(t *testing.T) {
	trainer := &fakeTrainer{}
	h := newTestHarness(t, trainer, &fakeLoader{})

	current := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	h.orch.now = func() time.Time { return current }

	first, err := h.orch.Run(context.Background(), "/data/flowers")
	require.NoError(t, err)

	current = current.Add(time.Second)
	second, err := h.orch.Run(context.Background(), "/data/flowers")
	require.NoError(t, err)

	assert.Equal(t, "20240301_100000", filepath.Base(first.OutputDir))
	assert.Equal(t, "20240301_100001", filepath.Base(second.OutputDir))
	assert.NotEqual(t, first.OutputDir, second.OutputDir)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRun_ForwardsEpochMetrics(t *testing.T) {
	trainer := &fakeTrainer{
		emit: []domain.EpochMetrics{
			{Epoch: 1, Values: map[string]float64{"metrics/accuracy_top1": 0.41}},
			{Epoch: 2, Values: map[string]float64{"metrics/accuracy_top1": 0.57}},
		},
	}
	h := newTestHarness(t, trainer, &fakeLoader{})

	run, err := h.orch.Run(context.Background(), "/data/flowers")
	require.NoError(t, err)

	forwarded := h.tracker.epochs[run.ID]
	require.Len(t, forwarded, 2)
	assert.Equal(t, 1, forwarded[0].Epoch)
	assert.Equal(t, 2, forwarded[1].Epoch)
	assert.InDelta(t, 0.57, forwarded[1].Values["metrics/accuracy_top1"], 1e-9)
}

func TestRun_TrackingFailureDoesNotAbort(t *testing.T) {
	trainer := &fakeTrainer{}
	h := newTestHarness(t, trainer, &fakeLoader{})
	h.tracker.startErr = errors.New("tracking server unreachable")

	run, err := h.orch.Run(context.Background(), "/data/flowers")

	require.NoError(t, err)
	assert.Equal(t, domain.RunStateCompleted, run.State)
	require.Len(t, trainer.trainCalls(), 1)
}

func TestProgressSteps(t *testing.T) {
	h := newTestHarness(t, &fakeTrainer{}, &fakeLoader{})
	assert.Equal(t, 1, h.orch.ProgressSteps())
}

func TestStatus_Lifecycle(t *testing.T) {
	trainer := &fakeTrainer{}
	h := newTestHarness(t, trainer, &fakeLoader{})

	assert.Equal(t, domain.RunStateIdle, h.orch.Status())

	_, err := h.orch.Run(context.Background(), "/data/flowers")
	require.NoError(t, err)
	assert.Equal(t, domain.RunStateCompleted, h.orch.Status())
}
