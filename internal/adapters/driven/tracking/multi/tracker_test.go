package multi

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visionforge/yolotrain-cli/internal/core/domain"
)

// recordingSink counts calls and optionally fails every call.
type recordingSink struct {
	err    error
	starts int
	epochs int
	ends   int
}

func (s *recordingSink) StartRun(context.Context, *domain.TrainingRun) error {
	s.starts++
	return s.err
}

func (s *recordingSink) LogEpoch(context.Context, string, domain.EpochMetrics) error {
	s.epochs++
	return s.err
}

func (s *recordingSink) EndRun(context.Context, string, domain.RunState) error {
	s.ends++
	return s.err
}

func TestTracker_FansOutToAllSinks(t *testing.T) {
	first := &recordingSink{}
	second := &recordingSink{}
	tracker := NewTracker(first, second)
	ctx := context.Background()

	require.NoError(t, tracker.StartRun(ctx, &domain.TrainingRun{ID: "run-1"}))
	require.NoError(t, tracker.LogEpoch(ctx, "run-1", domain.EpochMetrics{Epoch: 1}))
	require.NoError(t, tracker.EndRun(ctx, "run-1", domain.RunStateCompleted))

	for _, sink := range []*recordingSink{first, second} {
		assert.Equal(t, 1, sink.starts)
		assert.Equal(t, 1, sink.epochs)
		assert.Equal(t, 1, sink.ends)
	}
}

func TestTracker_FailingSinkDoesNotStopOthers(t *testing.T) {
	sinkErr := errors.New("tracking server unreachable")
	failing := &recordingSink{err: sinkErr}
	healthy := &recordingSink{}
	tracker := NewTracker(failing, healthy)

	err := tracker.StartRun(context.Background(), &domain.TrainingRun{ID: "run-1"})

	require.Error(t, err)
	assert.ErrorIs(t, err, sinkErr)
	assert.Equal(t, 1, healthy.starts)
}

func TestTracker_NoSinks(t *testing.T) {
	tracker := NewTracker()

	assert.NoError(t, tracker.StartRun(context.Background(), &domain.TrainingRun{ID: "run-1"}))
}
