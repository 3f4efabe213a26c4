package driving

import "github.com/custodia-labs/autoscore/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings, filling unset keys with defaults.
	Get() (*domain.AppSettings, error)

	// Save validates and persists settings.
	Save(settings *domain.AppSettings) error

	// Set parses value for the named key and persists it.
	Set(key, value string) error

	// Keys lists every recognised settings key.
	Keys() []string

	// Values returns the current settings keyed like the config file.
	Values() (map[string]any, error)

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
