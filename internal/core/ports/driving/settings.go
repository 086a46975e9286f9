package driving

import "github.com/custodia-labs/curator-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.Settings, error)

	// Save persists application settings.
	Save(settings *domain.Settings) error

	// GetValue returns the string form of a single setting.
	GetValue(key string) (string, error)

	// SetValue parses and stores a single setting.
	SetValue(key, value string) error

	// Keys lists every recognised setting key.
	Keys() []string

	// Validate checks settings needed by the configured sources and exporters.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings
}
