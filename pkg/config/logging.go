package config

// LoggingConfig contains log level and destination settings.
type LoggingConfig struct {
	// Debug enables debug-level log lines.
	// Default: false
	Debug *bool `json:"debug,omitempty" koanf:"debug" toml:"debug,omitempty"`

	// Trace enables trace-level log lines. Implies debug.
	// Default: false
	Trace *bool `json:"trace,omitempty" koanf:"trace" toml:"trace,omitempty"`

	// File is the log file path. Empty means stderr, which only makes sense
	// for foreground serving; the daemonized path supplies its own default.
	File string `json:"file,omitempty" koanf:"file" toml:"file,omitempty"`
}

// IsDebugEnabled returns whether debug logging is on.
// Returns false if Debug is nil.
func (c *LoggingConfig) IsDebugEnabled() bool {
	if c == nil || c.Debug == nil {
		return false
	}

	return *c.Debug
}

// IsTraceEnabled returns whether trace logging is on.
// Returns false if Trace is nil.
func (c *LoggingConfig) IsTraceEnabled() bool {
	if c == nil || c.Trace == nil {
		return false
	}

	return *c.Trace
}

// GetFile returns the configured log file path, empty when unset.
func (c *LoggingConfig) GetFile() string {
	if c == nil {
		return ""
	}

	return c.File
}
