// Package device resolves the compute device for training runs.
// Selection is an explicit injected dependency of the orchestrator,
// resolved once at run start.
package device

import (
	"context"
	"os"
	"os/exec"
	"sync"

	"github.com/visionforge/yolotrain-cli/internal/core/ports/driven"
	"github.com/visionforge/yolotrain-cli/internal/logger"
)

// Ensure implementations satisfy the interface.
var (
	_ driven.DeviceSelector = (*CUDASelector)(nil)
	_ driven.DeviceSelector = Static("")
	_ driven.DeviceSelector = (*Override)(nil)
)

// Device identifiers passed to the delegated trainer.
const (
	CPU  = "cpu"
	CUDA = "cuda:0"
)

// CUDASelector picks the accelerator when one is available at runtime
// and falls back to the CPU. The probe is process-external, like the
// trainer itself: it looks for a usable NVIDIA driver rather than
// linking a CUDA toolchain.
type CUDASelector struct {
	// probe is injectable for tests.
	probe func() bool
}

// NewCUDASelector creates a selector using the default CUDA probe.
func NewCUDASelector() *CUDASelector {
	return &CUDASelector{probe: cudaAvailable}
}

// Select returns the accelerator device if available, otherwise "cpu".
func (s *CUDASelector) Select(_ context.Context) string {
	if s.probe() {
		logger.Debug("CUDA available, selecting %s", CUDA)
		return CUDA
	}
	logger.Debug("CUDA unavailable, selecting %s", CPU)
	return CPU
}

// cudaAvailable reports whether a CUDA device can be used.
// CUDA_VISIBLE_DEVICES=-1 explicitly disables the accelerator.
func cudaAvailable() bool {
	if os.Getenv("CUDA_VISIBLE_DEVICES") == "-1" {
		return false
	}
	_, err := exec.LookPath("nvidia-smi")
	return err == nil
}

// Static is a fixed device selection, used when the device is forced
// via flag or configuration.
type Static string

// Select returns the fixed device.
func (s Static) Select(_ context.Context) string {
	return string(s)
}

// Override wraps a selector and prefers an explicitly forced device
// when one has been set. It lets the CLI honour a --device flag while
// the default remains the runtime probe.
type Override struct {
	// Fallback selects the device when nothing is forced.
	Fallback driven.DeviceSelector

	mu     sync.Mutex
	forced string
}

// Force fixes the device for subsequent selections. An empty value
// clears the override.
func (o *Override) Force(device string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.forced = device
}

// Select returns the forced device if set, otherwise the fallback's
// choice.
func (o *Override) Select(ctx context.Context) string {
	o.mu.Lock()
	forced := o.forced
	o.mu.Unlock()

	if forced != "" {
		return forced
	}
	return o.Fallback.Select(ctx)
}
