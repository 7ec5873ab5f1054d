package domain

import "time"

// RunState describes the lifecycle state of a training run.
// Transitions are Idle -> Running -> {Completed | Failed} with no
// intermediate states exposed.
type RunState string

const (
	// RunStateIdle means no run has started.
	RunStateIdle RunState = "idle"
	// RunStateRunning means the delegated trainer is executing.
	RunStateRunning RunState = "running"
	// RunStateCompleted means the delegated trainer finished successfully.
	RunStateCompleted RunState = "completed"
	// RunStateFailed means the delegated trainer returned an error.
	RunStateFailed RunState = "failed"
)

// TrainingRun records one invocation of the delegated trainer.
type TrainingRun struct {
	// ID uniquely identifies the run.
	ID string
	// Artifact is the model artifact the trainer was constructed from,
	// either "<model_name>.pt" or the config file's "model" value.
	Artifact string
	// Device is the compute device resolved at run start ("cuda:0", "cpu").
	Device string
	// DatasetFolder is the dataset path supplied by the host input slot.
	DatasetFolder string
	// ConfigFile is the config document used, empty in mapped mode.
	ConfigFile string
	// OutputDir is the timestamped directory created for this run.
	OutputDir string
	// State is the current lifecycle state.
	State RunState
	// Error holds the failure message when State is RunStateFailed.
	Error string
	// StartedAt is when the run began.
	StartedAt time.Time
	// EndedAt is when the run finished; zero while running.
	EndedAt time.Time
}
