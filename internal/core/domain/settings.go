package domain

// AppSettings holds application-level settings, distinct from per-run
// training hyperparameters. They are persisted in the yolotrain config
// directory and apply to every run.
type AppSettings struct {
	// TrackingURI is the experiment-tracking server base URL.
	TrackingURI string
	// ExperimentName is the tracking experiment runs are logged under.
	ExperimentName string
	// DataDir is the directory holding run-history storage.
	DataDir string
	// TrainerBinary is the delegated trainer executable name.
	TrainerBinary string
}

// DefaultAppSettings returns the default application settings.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		TrackingURI:    "http://127.0.0.1:5000",
		ExperimentName: "yolotrain",
		DataDir:        "",
		TrainerBinary:  "yolo",
	}
}
