package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown task type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Parameter Resolution Errors.

	// ErrMissingParam indicates a required parameter key was absent
	// from a bulk update.
	ErrMissingParam = errors.New("missing parameter")

	// ErrNotCoercible indicates a raw parameter value could not be
	// converted to its declared type.
	ErrNotCoercible = errors.New("value not coercible")

	// Training Errors.

	// ErrMissingModelKey indicates a training config file parsed
	// successfully but carries no "model" key. The model artifact is
	// a required field in config-file mode; there is no fallback to
	// the configured model name.
	ErrMissingModelKey = errors.New("config file missing model key")

	// ErrRunInProgress indicates a training run is already active.
	// The host runs one training task at a time.
	ErrRunInProgress = errors.New("training run in progress")
)
