package curves

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visionforge/yolotrain-cli/internal/core/domain"
)

func TestTracker_WritesOneLinePerEpoch(t *testing.T) {
	dir := t.TempDir()
	tracker := NewTracker()
	ctx := context.Background()

	run := &domain.TrainingRun{ID: "run-1", OutputDir: dir}
	require.NoError(t, tracker.StartRun(ctx, run))

	require.NoError(t, tracker.LogEpoch(ctx, "run-1", domain.EpochMetrics{
		Epoch:  0,
		Values: map[string]float64{"train/loss": 1.5},
	}))
	require.NoError(t, tracker.LogEpoch(ctx, "run-1", domain.EpochMetrics{
		Epoch:  1,
		Values: map[string]float64{"train/loss": 0.9},
	}))
	require.NoError(t, tracker.EndRun(ctx, "run-1", domain.RunStateCompleted))

	f, err := os.Open(filepath.Join(dir, FileName))
	require.NoError(t, err)
	defer f.Close()

	var points []curvePoint
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var p curvePoint
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &p))
		points = append(points, p)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, points, 2)
	assert.Equal(t, 0, points[0].Epoch)
	assert.InDelta(t, 1.5, points[0].Values["train/loss"], 1e-9)
	assert.Equal(t, 1, points[1].Epoch)
}

func TestLogEpoch_UnknownRun(t *testing.T) {
	tracker := NewTracker()

	err := tracker.LogEpoch(context.Background(), "missing", domain.EpochMetrics{Epoch: 1})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEndRun_UnknownRunIsNoop(t *testing.T) {
	tracker := NewTracker()

	assert.NoError(t, tracker.EndRun(context.Background(), "missing", domain.RunStateCompleted))
}

func TestStartRun_MissingOutputDir(t *testing.T) {
	tracker := NewTracker()
	run := &domain.TrainingRun{
		ID:        "run-1",
		OutputDir: filepath.Join(t.TempDir(), "does", "not", "exist"),
	}

	err := tracker.StartRun(context.Background(), run)

	require.Error(t, err)
}
