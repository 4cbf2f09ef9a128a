package driven

import "github.com/custodia-labs/heritage/internal/core/domain"

// ConfigStore provides access to application configuration.
// Implementations handle persistence (e.g., TOML files) and overrides.
type ConfigStore interface {
	// Load reads the settings from storage and applies overrides.
	// A missing configuration yields default settings, not an error.
	Load() (domain.Settings, error)

	// Save persists the settings to storage.
	Save(settings domain.Settings) error

	// Path returns the configuration file path.
	Path() string
}
