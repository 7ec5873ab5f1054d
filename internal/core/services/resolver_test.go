package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visionforge/yolotrain-cli/internal/core/domain"
)

// fullParams returns a complete, valid parameter map.
func fullParams() domain.ParamMap {
	return domain.ParamMap{
		domain.ParamDatasetFolder:     "/data/flowers",
		domain.ParamModelName:         "yolov8s-cls",
		domain.ParamEpochs:            50,
		domain.ParamBatchSize:         16,
		domain.ParamInputSize:         224,
		domain.ParamDatasetSplitRatio: 0.8,
		domain.ParamWorkers:           4,
		domain.ParamOptimizer:         "SGD",
		domain.ParamWeightDecay:       0.001,
		domain.ParamMomentum:          0.9,
		domain.ParamLR0:               0.02,
		domain.ParamLRF:               0.1,
		domain.ParamConfigFile:        "",
		domain.ParamOutputFolder:      "out",
	}
}

func TestNewParamResolver_Defaults(t *testing.T) {
	cfg := NewParamResolver().Config()

	assert.Equal(t, "dataset", cfg.DatasetFolder)
	assert.Equal(t, "yolov8m-cls", cfg.ModelName)
	assert.Equal(t, 100, cfg.Epochs)
	assert.Equal(t, 8, cfg.BatchSize)
	assert.Equal(t, 640, cfg.InputSize)
	assert.InDelta(t, 0.9, cfg.DatasetSplitRatio, 1e-9)
	assert.Equal(t, 0, cfg.Workers)
	assert.Equal(t, "auto", cfg.Optimizer)
	assert.InDelta(t, 0.0005, cfg.WeightDecay, 1e-9)
	assert.InDelta(t, 0.937, cfg.Momentum, 1e-9)
	assert.InDelta(t, 0.01, cfg.LR0, 1e-9)
	assert.InDelta(t, 0.01, cfg.LRF, 1e-9)
	assert.Empty(t, cfg.ConfigFile)
	assert.Equal(t, "runs", cfg.OutputFolder)
}

func TestSetValues_AppliesAllKeys(t *testing.T) {
	resolver := NewParamResolver()

	require.NoError(t, resolver.SetValues(fullParams()))

	cfg := resolver.Config()
	assert.Equal(t, "/data/flowers", cfg.DatasetFolder)
	assert.Equal(t, "yolov8s-cls", cfg.ModelName)
	assert.Equal(t, 50, cfg.Epochs)
	assert.Equal(t, 16, cfg.BatchSize)
	assert.Equal(t, 224, cfg.InputSize)
	assert.InDelta(t, 0.8, cfg.DatasetSplitRatio, 1e-9)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "SGD", cfg.Optimizer)
	assert.Equal(t, "out", cfg.OutputFolder)
}

func TestSetValues_CoercesStringNumerics(t *testing.T) {
	params := fullParams()
	params[domain.ParamEpochs] = "150"
	params[domain.ParamBatchSize] = " 32 "
	params[domain.ParamMomentum] = "0.95"

	resolver := NewParamResolver()
	require.NoError(t, resolver.SetValues(params))

	cfg := resolver.Config()
	assert.Equal(t, 150, cfg.Epochs)
	assert.Equal(t, 32, cfg.BatchSize)
	assert.InDelta(t, 0.95, cfg.Momentum, 1e-9)
}

func TestSetValues_CoercesWholeFloats(t *testing.T) {
	params := fullParams()
	params[domain.ParamEpochs] = float64(80)
	params[domain.ParamWorkers] = float64(2)

	resolver := NewParamResolver()
	require.NoError(t, resolver.SetValues(params))

	cfg := resolver.Config()
	assert.Equal(t, 80, cfg.Epochs)
	assert.Equal(t, 2, cfg.Workers)
}

func TestSetValues_MissingKey(t *testing.T) {
	params := fullParams()
	delete(params, domain.ParamMomentum)

	resolver := NewParamResolver()
	err := resolver.SetValues(params)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingParam)
	assert.Contains(t, err.Error(), domain.ParamMomentum)
}

func TestSetValues_NotCoercible(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{name: "fractional float for int", key: domain.ParamEpochs, value: 1.5},
		{name: "word for int", key: domain.ParamBatchSize, value: "plenty"},
		{name: "word for float", key: domain.ParamLR0, value: "fast"},
		{name: "number for string", key: domain.ParamOptimizer, value: 7},
		{name: "nil value", key: domain.ParamModelName, value: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := fullParams()
			params[tt.key] = tt.value

			err := NewParamResolver().SetValues(params)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrNotCoercible)
		})
	}
}

func TestSetValues_FailureLeavesConfigUnchanged(t *testing.T) {
	resolver := NewParamResolver()
	before := resolver.Config()

	params := fullParams()
	params[domain.ParamEpochs] = "not-a-number"

	require.Error(t, resolver.SetValues(params))
	assert.Equal(t, before, resolver.Config())
}
