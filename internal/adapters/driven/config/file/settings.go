// Package file provides the TOML-backed application settings store.
// Settings live in the yolotrain config directory and cover the
// tracking server, run storage and trainer binary, not per-run
// training hyperparameters.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/visionforge/yolotrain-cli/internal/core/domain"
	"github.com/visionforge/yolotrain-cli/internal/core/ports/driven"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

// settingsFile is the settings file name inside the config directory.
const settingsFile = "config.toml"

// settingsDoc is the TOML layout of the settings file.
type settingsDoc struct {
	Tracking struct {
		URI        string `toml:"uri"`
		Experiment string `toml:"experiment"`
	} `toml:"tracking"`
	Storage struct {
		DataDir string `toml:"data_dir"`
	} `toml:"storage"`
	Trainer struct {
		Binary string `toml:"binary"`
	} `toml:"trainer"`
}

// SettingsStore is a file-based settings store using TOML.
type SettingsStore struct {
	mu       sync.Mutex
	filePath string
}

// NewSettingsStore creates a settings store in configDir.
// If configDir is empty, defaults to ~/.yolotrain.
func NewSettingsStore(configDir string) (*SettingsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".yolotrain")
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	return &SettingsStore{
		filePath: filepath.Join(configDir, settingsFile),
	}, nil
}

// Load reads settings, filling unset fields with defaults. A missing
// settings file yields pure defaults.
func (s *SettingsStore) Load() (domain.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := domain.DefaultAppSettings()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings: %w", err)
	}

	var doc settingsDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return settings, fmt.Errorf("parse settings: %w", err)
	}

	if doc.Tracking.URI != "" {
		settings.TrackingURI = doc.Tracking.URI
	}
	if doc.Tracking.Experiment != "" {
		settings.ExperimentName = doc.Tracking.Experiment
	}
	if doc.Storage.DataDir != "" {
		settings.DataDir = doc.Storage.DataDir
	}
	if doc.Trainer.Binary != "" {
		settings.TrainerBinary = doc.Trainer.Binary
	}
	return settings, nil
}

// Save persists settings with restricted permissions.
func (s *SettingsStore) Save(settings domain.AppSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc settingsDoc
	doc.Tracking.URI = settings.TrackingURI
	doc.Tracking.Experiment = settings.ExperimentName
	doc.Storage.DataDir = settings.DataDir
	doc.Trainer.Binary = settings.TrainerBinary

	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Path returns the settings file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}
