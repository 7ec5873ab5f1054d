package domain

// EpochMetrics carries the metric values reported at the end of one
// training epoch. Metric names are library-defined (e.g. "train/loss",
// "metrics/accuracy_top1") and passed through unexamined.
type EpochMetrics struct {
	// Epoch is the 1-based epoch number.
	Epoch int
	// Values maps metric names to their values for this epoch.
	Values map[string]float64
}
