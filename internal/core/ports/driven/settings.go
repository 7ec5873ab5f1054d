package driven

import "github.com/visionforge/yolotrain-cli/internal/core/domain"

// SettingsStore persists application-level settings.
type SettingsStore interface {
	// Load reads settings, filling unset fields with defaults.
	Load() (domain.AppSettings, error)

	// Save persists settings.
	Save(settings domain.AppSettings) error
}
