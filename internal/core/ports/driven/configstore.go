package driven

// ConfigStore is the key/value backing for agsi settings. Keys are dotted
// section paths such as "output.format" or "validation.strict".
type ConfigStore interface {
	// Get returns the raw value stored under key and whether it is set.
	Get(key string) (any, bool)

	// GetString returns the value under key, or "" when unset or not a string.
	GetString(key string) string

	// GetInt returns the value under key as an int, or 0.
	GetInt(key string) int

	// GetBool returns the value under key, or false when unset or not a bool.
	GetBool(key string) bool

	// GetStringSlice returns the value under key as strings, or nil.
	GetStringSlice(key string) []string

	// Set stores value under key.
	Set(key string, value any) error

	// Save writes all values to the backing store.
	Save() error

	// Load replaces the in-memory values with the backing store's.
	Load() error

	// Path identifies the backing store, usually a TOML file.
	Path() string
}
