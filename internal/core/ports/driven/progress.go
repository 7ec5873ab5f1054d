package driven

// ProgressSink receives coarse progress signals destined for the host.
// A training task reports exactly one step per successful run
// regardless of epoch count; per-epoch progress is not surfaced here.
type ProgressSink interface {
	// EmitStep signals one completed progress step.
	EmitStep()

	// Done signals run completion. err is nil on success and carries
	// the unmodified delegated-call failure otherwise.
	Done(err error)
}
