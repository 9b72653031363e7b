package driven

// ConfigStore is a flat key/value view of the configuration file, keyed
// by dotted paths like "summary.ratio". The typed getters return the zero
// value for a missing key or a value of another type; numeric getters
// accept both integers and floats.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetFloat(key string) float64
	GetBool(key string) bool

	// Set changes the in-memory value only.
	Set(key string, value any) error

	// Save persists every value set so far.
	Save() error

	// Load replaces in-memory values with the persisted ones, dropping
	// anything set but not saved.
	Load() error

	// Path identifies the backing file, for messages.
	Path() string
}
