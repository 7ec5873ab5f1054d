// Package driving defines the inbound ports of the hexagonal
// architecture: the narrow capability surface the host (or the CLI
// standing in for it) drives.
//
//   - TrainingTask: configure, run, report progress
//   - TaskFactory / TaskRegistry: the plugin contract with the host
//
// # Import Rules
//
//   - Can Import: domain, standard library
//   - Cannot Import: services, adapters
package driving
