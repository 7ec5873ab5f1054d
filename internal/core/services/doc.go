// Package services contains the core application services: the
// parameter resolver, the training orchestrator and the task registry.
// Services depend only on domain types and ports; all I/O happens
// behind driven-port adapters.
package services
