package driven

import "github.com/custodia-labs/padctl/internal/core/domain"

// ConfigStore provides access to application configuration.
// Implementations handle persistence (e.g., TOML files) and type conversion.
type ConfigStore interface {
	// Get retrieves a stored configuration value by dotted key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// Set stores a configuration value and persists it immediately.
	// Returns domain.ErrInvalidInput for unknown keys and for values the
	// session configuration would reject.
	Set(key string, value any) error

	// Unset removes a stored value so its default applies again.
	Unset(key string) error

	// Load reads configuration from storage.
	Load() error

	// Session builds a validated session configuration, filling defaults
	// for keys that are not set.
	Session() (domain.SessionConfig, error)

	// Path returns the configuration file path.
	Path() string
}
