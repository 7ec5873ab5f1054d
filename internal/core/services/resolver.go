package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/visionforge/yolotrain-cli/internal/core/domain"
)

// ParamResolver holds the training configuration and applies bulk
// parameter updates from the host. A fresh resolver carries the
// defaults from domain.DefaultTrainConfig; SetValues replaces the
// configuration wholesale.
//
// The resolver performs type coercion only. Ranges and path existence
// are not validated here; invalid values surface when the delegated
// training call fails.
type ParamResolver struct {
	cfg domain.TrainConfig
}

// NewParamResolver creates a resolver initialised with defaults.
func NewParamResolver() *ParamResolver {
	return &ParamResolver{cfg: domain.DefaultTrainConfig()}
}

// Config returns the current resolved configuration.
func (r *ParamResolver) Config() domain.TrainConfig {
	return r.cfg
}

// SetValues applies a bulk update from a raw parameter map. Every key
// is required; the update fails atomically if any key is absent or not
// coercible to its declared type.
func (r *ParamResolver) SetValues(params domain.ParamMap) error {
	var (
		cfg domain.TrainConfig
		err error
	)

	if cfg.DatasetFolder, err = coerceString(params, domain.ParamDatasetFolder); err != nil {
		return err
	}
	if cfg.ModelName, err = coerceString(params, domain.ParamModelName); err != nil {
		return err
	}
	if cfg.Epochs, err = coerceInt(params, domain.ParamEpochs); err != nil {
		return err
	}
	if cfg.BatchSize, err = coerceInt(params, domain.ParamBatchSize); err != nil {
		return err
	}
	if cfg.InputSize, err = coerceInt(params, domain.ParamInputSize); err != nil {
		return err
	}
	if cfg.DatasetSplitRatio, err = coerceFloat(params, domain.ParamDatasetSplitRatio); err != nil {
		return err
	}
	if cfg.Workers, err = coerceInt(params, domain.ParamWorkers); err != nil {
		return err
	}
	if cfg.Optimizer, err = coerceString(params, domain.ParamOptimizer); err != nil {
		return err
	}
	if cfg.WeightDecay, err = coerceFloat(params, domain.ParamWeightDecay); err != nil {
		return err
	}
	if cfg.Momentum, err = coerceFloat(params, domain.ParamMomentum); err != nil {
		return err
	}
	if cfg.LR0, err = coerceFloat(params, domain.ParamLR0); err != nil {
		return err
	}
	if cfg.LRF, err = coerceFloat(params, domain.ParamLRF); err != nil {
		return err
	}
	if cfg.ConfigFile, err = coerceString(params, domain.ParamConfigFile); err != nil {
		return err
	}
	if cfg.OutputFolder, err = coerceString(params, domain.ParamOutputFolder); err != nil {
		return err
	}

	r.cfg = cfg
	return nil
}

// coerceString converts a raw parameter to a string.
func coerceString(params domain.ParamMap, key string) (string, error) {
	raw, ok := params[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrMissingParam, key)
	}

	switch v := raw.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", fmt.Errorf("%w: %s=%v (%T), want string", domain.ErrNotCoercible, key, raw, raw)
	}
}

// coerceInt converts a raw parameter to an int. Stringly-typed
// numerics ("100") and whole floats are accepted.
func coerceInt(params domain.ParamMap, key string) (int, error) {
	raw, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrMissingParam, key)
	}

	switch v := raw.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		if v == math.Trunc(v) {
			return int(v), nil
		}
	case float32:
		if float64(v) == math.Trunc(float64(v)) {
			return int(v), nil
		}
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil {
			return n, nil
		}
	}

	return 0, fmt.Errorf("%w: %s=%v (%T), want integer", domain.ErrNotCoercible, key, raw, raw)
}

// coerceFloat converts a raw parameter to a float64.
func coerceFloat(params domain.ParamMap, key string) (float64, error) {
	raw, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrMissingParam, key)
	}

	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil {
			return f, nil
		}
	}

	return 0, fmt.Errorf("%w: %s=%v (%T), want float", domain.ErrNotCoercible, key, raw, raw)
}
