// Package driven defines the outbound ports of the hexagonal
// architecture: interfaces the core services depend on and the
// adapters implement.
//
//   - Trainer: the delegated training call (opaque black box)
//   - ExperimentTracker: per-epoch metric sink
//   - DeviceSelector: compute device resolution
//   - RunStore: run-history persistence
//   - ConfigDocumentLoader: training config-file parsing
//   - ProgressSink: coarse progress signals destined for the host
//
// # Import Rules
//
//   - Can Import: domain, standard library
//   - Cannot Import: services, adapters
package driven
