// Package config loads, validates, and writes hookd configuration.
package config

import (
	"github.com/smykla-skalski/hookd/pkg/config"
)

// DefaultConfig returns a Config with all default values populated. This is
// what `hookd init` writes; the koanf defaults map feeds the same values into
// every load.
func DefaultConfig() *config.Config {
	return &config.Config{
		Version:  config.CurrentConfigVersion,
		Daemon:   DefaultDaemonConfig(),
		Handlers: DefaultHandlersConfig(),
		Rules:    DefaultRulesConfig(),
		Logging:  DefaultLoggingConfig(),
	}
}

// DefaultDaemonConfig returns the default daemon configuration.
func DefaultDaemonConfig() *config.DaemonConfig {
	strictInput := false

	return &config.DaemonConfig{
		Socket:           config.DefaultSocketPath,
		PidFile:          config.DefaultPidFile,
		IdleTimeout:      config.Duration(config.DefaultIdleTimeout),
		IdlePollInterval: config.Duration(config.DefaultIdlePollInterval),
		GracePeriod:      config.Duration(config.DefaultGracePeriod),
		MaxConnections:   config.DefaultMaxConnections,
		StrictInput:      &strictInput,
	}
}

// DefaultHandlersConfig returns the default handler configuration.
func DefaultHandlersConfig() *config.HandlersConfig {
	return &config.HandlersConfig{
		Bash:    DefaultBashHandlerConfig(),
		Secrets: DefaultSecretsHandlerConfig(),
		Prompt:  DefaultPromptHandlerConfig(),
		Session: DefaultSessionHandlerConfig(),
	}
}

// DefaultBashHandlerConfig returns the default bash handler configuration.
func DefaultBashHandlerConfig() *config.BashHandlerConfig {
	denySudo := true
	denyRemotePipes := true

	return &config.BashHandlerConfig{
		ProtectedBranches: []string{"main", "master"},
		DenySudo:          &denySudo,
		DenyRemotePipes:   &denyRemotePipes,
	}
}

// DefaultSecretsHandlerConfig returns the default secrets handler
// configuration.
func DefaultSecretsHandlerConfig() *config.SecretsHandlerConfig {
	blockOnDetection := true

	return &config.SecretsHandlerConfig{
		BlockOnDetection: &blockOnDetection,
		MaxContentSize:   config.DefaultMaxContentSize,
	}
}

// DefaultPromptHandlerConfig returns the default prompt handler
// configuration.
func DefaultPromptHandlerConfig() *config.PromptHandlerConfig {
	warnOnSecrets := true

	return &config.PromptHandlerConfig{
		WarnOnSecrets: &warnOnSecrets,
	}
}

// DefaultSessionHandlerConfig returns the default session handler
// configuration.
func DefaultSessionHandlerConfig() *config.SessionHandlerConfig {
	includeGitInfo := true

	return &config.SessionHandlerConfig{
		IncludeGitInfo: &includeGitInfo,
	}
}

// DefaultRulesConfig returns the default rules configuration.
// Rules are enabled by default but none are pre-defined; users add rules in
// project or global configuration, or in the standalone rule pack.
func DefaultRulesConfig() *config.RulesConfig {
	enabled := true

	return &config.RulesConfig{
		Enabled:   &enabled,
		RulesFile: config.DefaultRulesFile,
		Rules:     []config.RuleConfig{},
	}
}

// DefaultLoggingConfig returns the default logging configuration.
func DefaultLoggingConfig() *config.LoggingConfig {
	debug := false
	trace := false

	return &config.LoggingConfig{
		Debug: &debug,
		Trace: &trace,
	}
}
