package config

import "time"

// Default values for daemon configuration.
const (
	// DefaultSocketPath is the default Unix socket path.
	DefaultSocketPath = "~/.hookd/hookd.sock"

	// DefaultPidFile is the default PID file path.
	DefaultPidFile = "~/.hookd/hookd.pid"

	// DefaultIdleTimeout is how long the daemon waits without requests
	// before shutting itself down.
	DefaultIdleTimeout = 5 * time.Minute

	// DefaultIdlePollInterval is how often the idle watchdog checks the
	// last-activity timestamp.
	DefaultIdlePollInterval = 30 * time.Second

	// DefaultGracePeriod bounds how long shutdown waits for in-flight
	// requests to finish.
	DefaultGracePeriod = 5 * time.Second

	// DefaultMaxConnections caps concurrently served connections.
	DefaultMaxConnections = 64
)

// DaemonConfig contains socket, lifecycle, and connection settings for the
// dispatch daemon.
type DaemonConfig struct {
	// Socket is the Unix socket path the daemon binds.
	// Default: "~/.hookd/hookd.sock"
	Socket string `json:"socket,omitempty" koanf:"socket" toml:"socket,omitempty"`

	// PidFile is the path to the PID file, written after the socket is bound.
	// Default: "~/.hookd/hookd.pid"
	PidFile string `json:"pid_file,omitempty" koanf:"pid_file" toml:"pid_file,omitempty"`

	// IdleTimeout is how long the daemon may sit without requests before it
	// shuts itself down. Zero means the default, not "never".
	// Default: "5m"
	IdleTimeout Duration `json:"idle_timeout,omitempty" koanf:"idle_timeout" toml:"idle_timeout,omitempty"`

	// IdlePollInterval is how often the idle watchdog wakes to check the
	// last-activity timestamp.
	// Default: "30s"
	IdlePollInterval Duration `json:"idle_poll_interval,omitempty" koanf:"idle_poll_interval" toml:"idle_poll_interval,omitempty"`

	// GracePeriod bounds how long a shutdown waits for in-flight requests.
	// Default: "5s"
	GracePeriod Duration `json:"grace_period,omitempty" koanf:"grace_period" toml:"grace_period,omitempty"`

	// MaxConnections caps how many connections are served concurrently.
	// Additional connections wait until a slot frees up.
	// Default: 64
	MaxConnections int `json:"max_connections,omitempty" koanf:"max_connections" toml:"max_connections,omitempty"`

	// StrictInput rejects requests whose hook_input fails schema validation
	// instead of dispatching them anyway.
	// Default: false (fail open)
	StrictInput *bool `json:"strict_input,omitempty" koanf:"strict_input" toml:"strict_input,omitempty"`
}

// GetSocket returns the socket path, defaulting to DefaultSocketPath.
func (c *DaemonConfig) GetSocket() string {
	if c == nil || c.Socket == "" {
		return DefaultSocketPath
	}

	return c.Socket
}

// GetPidFile returns the PID file path, defaulting to DefaultPidFile.
func (c *DaemonConfig) GetPidFile() string {
	if c == nil || c.PidFile == "" {
		return DefaultPidFile
	}

	return c.PidFile
}

// GetIdleTimeout returns the idle timeout as a time.Duration.
// Returns DefaultIdleTimeout if IdleTimeout is zero.
func (c *DaemonConfig) GetIdleTimeout() time.Duration {
	if c == nil || c.IdleTimeout == 0 {
		return DefaultIdleTimeout
	}

	return time.Duration(c.IdleTimeout)
}

// GetIdlePollInterval returns the watchdog poll interval as a time.Duration.
// Returns DefaultIdlePollInterval if IdlePollInterval is zero.
func (c *DaemonConfig) GetIdlePollInterval() time.Duration {
	if c == nil || c.IdlePollInterval == 0 {
		return DefaultIdlePollInterval
	}

	return time.Duration(c.IdlePollInterval)
}

// GetGracePeriod returns the shutdown grace period as a time.Duration.
// Returns DefaultGracePeriod if GracePeriod is zero.
func (c *DaemonConfig) GetGracePeriod() time.Duration {
	if c == nil || c.GracePeriod == 0 {
		return DefaultGracePeriod
	}

	return time.Duration(c.GracePeriod)
}

// GetMaxConnections returns the connection cap.
// Returns DefaultMaxConnections if MaxConnections is zero or negative.
func (c *DaemonConfig) GetMaxConnections() int {
	if c == nil || c.MaxConnections <= 0 {
		return DefaultMaxConnections
	}

	return c.MaxConnections
}

// IsStrictInputEnabled returns whether schema-invalid hook_input is rejected.
// Returns false if StrictInput is nil (fail-open default).
func (c *DaemonConfig) IsStrictInputEnabled() bool {
	if c == nil || c.StrictInput == nil {
		return false
	}

	return *c.StrictInput
}
