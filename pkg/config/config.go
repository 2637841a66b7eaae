// Package config provides configuration schema types for hookd.
package config

// CurrentConfigVersion is the latest config schema version.
const CurrentConfigVersion = 1

// Config represents the root configuration for hookd.
type Config struct {
	// Version is the config schema version. Defaults to 1 when omitted.
	Version int `json:"version,omitempty" koanf:"version" toml:"version,omitempty"`

	// Daemon contains socket, lifecycle, and connection settings.
	Daemon *DaemonConfig `json:"daemon,omitempty" koanf:"daemon" toml:"daemon,omitempty"`

	// Handlers contains built-in handler settings and per-handler overrides.
	Handlers *HandlersConfig `json:"handlers,omitempty" koanf:"handlers" toml:"handlers,omitempty"`

	// Rules contains declarative project rule configuration.
	Rules *RulesConfig `json:"rules,omitempty" koanf:"rules" toml:"rules,omitempty"`

	// Logging contains log level and destination settings.
	Logging *LoggingConfig `json:"logging,omitempty" koanf:"logging" toml:"logging,omitempty"`
}

// GetDaemon returns the daemon config, creating it if it doesn't exist.
func (c *Config) GetDaemon() *DaemonConfig {
	if c.Daemon == nil {
		c.Daemon = &DaemonConfig{}
	}

	return c.Daemon
}

// GetHandlers returns the handlers config, creating it if it doesn't exist.
func (c *Config) GetHandlers() *HandlersConfig {
	if c.Handlers == nil {
		c.Handlers = &HandlersConfig{}
	}

	return c.Handlers
}

// GetRules returns the rules config, creating it if it doesn't exist.
func (c *Config) GetRules() *RulesConfig {
	if c.Rules == nil {
		c.Rules = &RulesConfig{}
	}

	return c.Rules
}

// GetLogging returns the logging config, creating it if it doesn't exist.
func (c *Config) GetLogging() *LoggingConfig {
	if c.Logging == nil {
		c.Logging = &LoggingConfig{}
	}

	return c.Logging
}
