package driven

import "context"

// DeviceSelector resolves the compute device for a training run.
// Selection happens once at run start; the result is passed to the
// delegated trainer verbatim (e.g. "cuda:0", "cpu").
type DeviceSelector interface {
	Select(ctx context.Context) string
}
