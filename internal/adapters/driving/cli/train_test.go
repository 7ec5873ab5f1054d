package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visionforge/yolotrain-cli/internal/core/domain"
	"github.com/visionforge/yolotrain-cli/internal/core/services"
)

func TestParamMap_CoversEveryResolverKey(t *testing.T) {
	opts := trainFlags{
		model:       "yolov8s-cls",
		epochs:      "25",
		batchSize:   "16",
		inputSize:   "224",
		splitRatio:  "0.8",
		workers:     "4",
		optimizer:   "SGD",
		weightDecay: "0.001",
		momentum:    "0.9",
		lr0:         "0.02",
		lrf:         "0.1",
		configFile:  "",
		output:      "out",
	}

	params := paramMap("/data/flowers", opts)

	// The flag values feed the resolver's bulk update unmodified.
	resolver := services.NewParamResolver()
	require.NoError(t, resolver.SetValues(params))

	cfg := resolver.Config()
	assert.Equal(t, "/data/flowers", cfg.DatasetFolder)
	assert.Equal(t, "yolov8s-cls", cfg.ModelName)
	assert.Equal(t, 25, cfg.Epochs)
	assert.Equal(t, 16, cfg.BatchSize)
	assert.Equal(t, 224, cfg.InputSize)
	assert.InDelta(t, 0.8, cfg.DatasetSplitRatio, 1e-9)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "SGD", cfg.Optimizer)
	assert.InDelta(t, 0.001, cfg.WeightDecay, 1e-9)
	assert.InDelta(t, 0.9, cfg.Momentum, 1e-9)
	assert.InDelta(t, 0.02, cfg.LR0, 1e-9)
	assert.InDelta(t, 0.1, cfg.LRF, 1e-9)
	assert.Empty(t, cfg.ConfigFile)
	assert.Equal(t, "out", cfg.OutputFolder)
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "0.9", formatFloat(0.9))
	assert.Equal(t, "0.0005", formatFloat(0.0005))
	assert.Equal(t, "0.937", formatFloat(0.937))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 80))
	assert.Equal(t, "short", truncate("short", 0))
	assert.Equal(t, "abcde...", truncate("abcdefghijkl", 8))
}

func TestStyleState_KnownStates(t *testing.T) {
	for _, state := range []domain.RunState{
		domain.RunStateIdle,
		domain.RunStateRunning,
		domain.RunStateCompleted,
		domain.RunStateFailed,
	} {
		assert.Contains(t, styleState(state), string(state))
	}
}
