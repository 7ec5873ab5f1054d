package domain

// ParamMap is an open-ended mapping of raw parameter values as supplied
// by the host. Values are loosely typed (strings, numbers) and are
// coerced to their declared types by the parameter resolver.
type ParamMap map[string]any

// Parameter keys recognised by the resolver. These match the option
// names the host presents in its parameter map.
const (
	ParamDatasetFolder     = "dataset_folder"
	ParamModelName         = "model_name"
	ParamEpochs            = "epochs"
	ParamBatchSize         = "batch_size"
	ParamInputSize         = "input_size"
	ParamDatasetSplitRatio = "dataset_split_ratio"
	ParamWorkers           = "workers"
	ParamOptimizer         = "optimizer"
	ParamWeightDecay       = "weight_decay"
	ParamMomentum          = "momentum"
	ParamLR0               = "lr0"
	ParamLRF               = "lrf"
	ParamConfigFile        = "config_file"
	ParamOutputFolder      = "output_folder"
)

// TrainConfig holds the resolved training hyperparameters for one run.
// It is created with defaults, mutated wholesale by a single bulk
// update, read once per training run, and never persisted.
type TrainConfig struct {
	// DatasetFolder is the root folder of the classification dataset.
	DatasetFolder string
	// ModelName is the pretrained model variant (e.g. "yolov8m-cls").
	// The model artifact is synthesised as "<ModelName>.pt" unless a
	// config file designates one.
	ModelName string
	// Epochs is the number of training epochs.
	Epochs int
	// BatchSize is the training batch size.
	BatchSize int
	// InputSize is the square input image size in pixels.
	InputSize int
	// DatasetSplitRatio is the train/validation split fraction.
	DatasetSplitRatio float64
	// Workers is the data-loader worker count.
	Workers int
	// Optimizer is the optimizer name ("auto" delegates the choice).
	Optimizer string
	// WeightDecay is the optimizer weight decay.
	WeightDecay float64
	// Momentum is the optimizer momentum.
	Momentum float64
	// LR0 is the initial learning rate.
	LR0 float64
	// LRF is the final learning rate fraction.
	LRF float64
	// ConfigFile is an optional YAML document whose keys fully replace
	// the individually mapped fields for the training call. Empty means
	// mapped-parameter mode.
	ConfigFile string
	// OutputFolder is the parent folder for timestamped run output.
	OutputFolder string
}

// DefaultTrainConfig returns the training configuration defaults.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		DatasetFolder:     "dataset",
		ModelName:         "yolov8m-cls",
		Epochs:            100,
		BatchSize:         8,
		InputSize:         640,
		DatasetSplitRatio: 0.9,
		Workers:           0,
		Optimizer:         "auto",
		WeightDecay:       0.0005,
		Momentum:          0.937,
		LR0:               0.01,
		LRF:               0.01,
		ConfigFile:        "",
		OutputFolder:      "runs",
	}
}
