// Package domain defines the core business entities for yolotrain.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - TrainConfig: Resolved training hyperparameters with defaults
//   - ParamMap: Loosely typed parameter values supplied by the host
//   - TrainingRun: One invocation of the delegated trainer
//   - TaskInfo: Plugin metadata consumed by the host registry
//   - EpochMetrics: Per-epoch values forwarded to tracking sinks
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
