package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// HandlersConfig contains built-in handler settings, tag filters, and
// per-handler overrides.
type HandlersConfig struct {
	// EnableTags restricts registration to handlers whose tags intersect
	// this set. Empty means all handlers are eligible.
	EnableTags []string `json:"enable_tags,omitempty" koanf:"enable_tags" toml:"enable_tags,omitempty"`

	// DisableTags removes handlers whose tags intersect this set, after
	// EnableTags is applied.
	DisableTags []string `json:"disable_tags,omitempty" koanf:"disable_tags" toml:"disable_tags,omitempty"`

	// Overrides maps a handler identity to its enabled/priority override.
	// This is the config key named by decision footers:
	// handlers.overrides.<name>.enabled.
	Overrides map[string]*HandlerOverride `json:"overrides,omitempty" koanf:"overrides" toml:"overrides,omitempty"`

	// Bash configures the bash command policy handler.
	Bash *BashHandlerConfig `json:"bash,omitempty" koanf:"bash" toml:"bash,omitempty"`

	// Files configures the sensitive-path policy handler.
	Files *FilesHandlerConfig `json:"files,omitempty" koanf:"files" toml:"files,omitempty"`

	// Secrets configures the secret detection handler.
	Secrets *SecretsHandlerConfig `json:"secrets,omitempty" koanf:"secrets" toml:"secrets,omitempty"`

	// Permission configures the permission-request handler.
	Permission *PermissionHandlerConfig `json:"permission,omitempty" koanf:"permission" toml:"permission,omitempty"`

	// Prompt configures the prompt inspection handler.
	Prompt *PromptHandlerConfig `json:"prompt,omitempty" koanf:"prompt" toml:"prompt,omitempty"`

	// Session configures the session-start context handler.
	Session *SessionHandlerConfig `json:"session,omitempty" koanf:"session" toml:"session,omitempty"`
}

// GetOverride returns the override for a handler identity, or nil when none
// is configured.
func (h *HandlersConfig) GetOverride(name string) *HandlerOverride {
	if h == nil || h.Overrides == nil {
		return nil
	}

	return h.Overrides[name]
}

// GetBash returns the bash handler config, creating it if it doesn't exist.
func (h *HandlersConfig) GetBash() *BashHandlerConfig {
	if h.Bash == nil {
		h.Bash = &BashHandlerConfig{}
	}

	return h.Bash
}

// GetFiles returns the files handler config, creating it if it doesn't exist.
func (h *HandlersConfig) GetFiles() *FilesHandlerConfig {
	if h.Files == nil {
		h.Files = &FilesHandlerConfig{}
	}

	return h.Files
}

// GetSecrets returns the secrets handler config, creating it if it doesn't exist.
func (h *HandlersConfig) GetSecrets() *SecretsHandlerConfig {
	if h.Secrets == nil {
		h.Secrets = &SecretsHandlerConfig{}
	}

	return h.Secrets
}

// GetPermission returns the permission handler config, creating it if it
// doesn't exist.
func (h *HandlersConfig) GetPermission() *PermissionHandlerConfig {
	if h.Permission == nil {
		h.Permission = &PermissionHandlerConfig{}
	}

	return h.Permission
}

// GetPrompt returns the prompt handler config, creating it if it doesn't exist.
func (h *HandlersConfig) GetPrompt() *PromptHandlerConfig {
	if h.Prompt == nil {
		h.Prompt = &PromptHandlerConfig{}
	}

	return h.Prompt
}

// GetSession returns the session handler config, creating it if it doesn't
// exist.
func (h *HandlersConfig) GetSession() *SessionHandlerConfig {
	if h.Session == nil {
		h.Session = &SessionHandlerConfig{}
	}

	return h.Session
}

// HandlerOverride carries the per-handler enabled flag and priority override
// keyed by handler identity under handlers.overrides.
type HandlerOverride struct {
	// Enabled controls whether the handler is registered at startup.
	// Default: true
	Enabled *bool `json:"enabled,omitempty" koanf:"enabled" toml:"enabled"`

	// Priority replaces the handler's default chain position. Lower runs
	// earlier.
	Priority *int `json:"priority,omitempty" koanf:"priority" toml:"priority,omitempty"`
}

// IsEnabled returns true if the handler is enabled.
// Returns true if the override or its Enabled field is nil.
func (o *HandlerOverride) IsEnabled() bool {
	if o == nil || o.Enabled == nil {
		return true
	}

	return *o.Enabled
}

// GetPriority returns the overridden priority, or fallback when unset.
func (o *HandlerOverride) GetPriority(fallback int) int {
	if o == nil || o.Priority == nil {
		return fallback
	}

	return *o.Priority
}

// BashHandlerConfig configures the bash command policy handler.
type BashHandlerConfig struct {
	// ProtectedBranches lists branches that force-pushes are denied on.
	// Default: ["main", "master"]
	ProtectedBranches []string `json:"protected_branches,omitempty" koanf:"protected_branches" toml:"protected_branches,omitempty"`

	// DenySudo denies any command that invokes sudo.
	// Default: true
	DenySudo *bool `json:"deny_sudo,omitempty" koanf:"deny_sudo" toml:"deny_sudo,omitempty"`

	// DenyRemotePipes denies piping a downloader into a shell or
	// interpreter (curl | sh and friends).
	// Default: true
	DenyRemotePipes *bool `json:"deny_remote_pipes,omitempty" koanf:"deny_remote_pipes" toml:"deny_remote_pipes,omitempty"`
}

// GetProtectedBranches returns the protected branch list, defaulting to
// main and master.
func (c *BashHandlerConfig) GetProtectedBranches() []string {
	if c == nil || len(c.ProtectedBranches) == 0 {
		return []string{"main", "master"}
	}

	return c.ProtectedBranches
}

// IsDenySudoEnabled returns whether sudo invocations are denied.
// Returns true if DenySudo is nil.
func (c *BashHandlerConfig) IsDenySudoEnabled() bool {
	if c == nil || c.DenySudo == nil {
		return true
	}

	return *c.DenySudo
}

// IsDenyRemotePipesEnabled returns whether downloader-to-shell pipes are
// denied. Returns true if DenyRemotePipes is nil.
func (c *BashHandlerConfig) IsDenyRemotePipesEnabled() bool {
	if c == nil || c.DenyRemotePipes == nil {
		return true
	}

	return *c.DenyRemotePipes
}

// FilesHandlerConfig configures the sensitive-path policy handler.
type FilesHandlerConfig struct {
	// DenyPatterns lists doublestar globs for paths that must never be
	// written. Empty means the built-in deny list.
	DenyPatterns []string `json:"deny_patterns,omitempty" koanf:"deny_patterns" toml:"deny_patterns,omitempty"`

	// AskPatterns lists doublestar globs for paths that require user
	// confirmation. Empty means the built-in ask list.
	AskPatterns []string `json:"ask_patterns,omitempty" koanf:"ask_patterns" toml:"ask_patterns,omitempty"`
}

// GetDenyPatterns returns the configured deny globs, nil when unset.
func (c *FilesHandlerConfig) GetDenyPatterns() []string {
	if c == nil {
		return nil
	}

	return c.DenyPatterns
}

// GetAskPatterns returns the configured ask globs, nil when unset.
func (c *FilesHandlerConfig) GetAskPatterns() []string {
	if c == nil {
		return nil
	}

	return c.AskPatterns
}

// SecretsHandlerConfig configures the secret detection handler.
type SecretsHandlerConfig struct {
	// BlockOnDetection determines whether detected secrets deny the
	// operation. When false, findings are reported as context warnings.
	// Default: true
	BlockOnDetection *bool `json:"block_on_detection,omitempty" koanf:"block_on_detection" toml:"block_on_detection,omitempty"`

	// AllowList is a list of regex patterns; a finding whose matched text
	// matches any of them is ignored. Useful for test fixtures and
	// documentation examples.
	AllowList []string `json:"allow_list,omitempty" koanf:"allow_list" toml:"allow_list,omitempty"`

	// DisabledPatterns lists built-in pattern names to disable.
	DisabledPatterns []string `json:"disabled_patterns,omitempty" koanf:"disabled_patterns" toml:"disabled_patterns,omitempty"`

	// CustomPatterns adds custom regex patterns on top of the built-ins.
	CustomPatterns []CustomPatternConfig `json:"custom_patterns,omitempty" koanf:"custom_patterns" toml:"custom_patterns,omitempty"`

	// MaxContentSize caps how much written content is scanned.
	// Default: "1MB"
	MaxContentSize ByteSize `json:"max_content_size,omitempty" koanf:"max_content_size" toml:"max_content_size,omitempty"`
}

// CustomPatternConfig defines a custom secret detection pattern.
type CustomPatternConfig struct {
	// Name is a unique identifier for this pattern.
	Name string `json:"name" koanf:"name" toml:"name"`

	// Description explains what this pattern detects.
	Description string `json:"description" koanf:"description" toml:"description"`

	// Regex is the regular expression pattern.
	Regex string `json:"regex" koanf:"regex" toml:"regex"`
}

// IsBlockOnDetectionEnabled returns whether detection denies the operation.
// Returns true if BlockOnDetection is nil.
func (c *SecretsHandlerConfig) IsBlockOnDetectionEnabled() bool {
	if c == nil || c.BlockOnDetection == nil {
		return true
	}

	return *c.BlockOnDetection
}

// GetAllowList returns the allowlist regexes, nil when unset.
func (c *SecretsHandlerConfig) GetAllowList() []string {
	if c == nil {
		return nil
	}

	return c.AllowList
}

// GetDisabledPatterns returns the disabled pattern names, nil when unset.
func (c *SecretsHandlerConfig) GetDisabledPatterns() []string {
	if c == nil {
		return nil
	}

	return c.DisabledPatterns
}

// GetCustomPatterns returns the custom patterns, nil when unset.
func (c *SecretsHandlerConfig) GetCustomPatterns() []CustomPatternConfig {
	if c == nil {
		return nil
	}

	return c.CustomPatterns
}

// GetMaxContentSize returns the scan size cap, defaulting to
// DefaultMaxContentSize.
func (c *SecretsHandlerConfig) GetMaxContentSize() ByteSize {
	if c == nil || c.MaxContentSize == 0 {
		return DefaultMaxContentSize
	}

	return c.MaxContentSize
}

// PermissionHandlerConfig configures the permission-request handler.
type PermissionHandlerConfig struct {
	// ReadOnlyTools replaces the built-in list of tools that are
	// auto-allowed on PermissionRequest. Empty means the built-in list.
	ReadOnlyTools []string `json:"read_only_tools,omitempty" koanf:"read_only_tools" toml:"read_only_tools,omitempty"`
}

// GetReadOnlyTools returns the configured read-only tool names, nil when
// unset.
func (c *PermissionHandlerConfig) GetReadOnlyTools() []string {
	if c == nil {
		return nil
	}

	return c.ReadOnlyTools
}

// PromptHandlerConfig configures the prompt inspection handler.
type PromptHandlerConfig struct {
	// WarnOnSecrets attaches a context warning when a submitted prompt
	// looks like it embeds credential material.
	// Default: true
	WarnOnSecrets *bool `json:"warn_on_secrets,omitempty" koanf:"warn_on_secrets" toml:"warn_on_secrets,omitempty"`
}

// IsWarnOnSecretsEnabled returns whether prompt secret warnings are on.
// Returns true if WarnOnSecrets is nil.
func (c *PromptHandlerConfig) IsWarnOnSecretsEnabled() bool {
	if c == nil || c.WarnOnSecrets == nil {
		return true
	}

	return *c.WarnOnSecrets
}

// SessionHandlerConfig configures the session-start context handler.
type SessionHandlerConfig struct {
	// IncludeGitInfo injects repository branch and remote lines into
	// session context.
	// Default: true
	IncludeGitInfo *bool `json:"include_git_info,omitempty" koanf:"include_git_info" toml:"include_git_info,omitempty"`

	// ExtraContext lists additional literal context lines to inject.
	ExtraContext []string `json:"extra_context,omitempty" koanf:"extra_context" toml:"extra_context,omitempty"`
}

// IsGitInfoEnabled returns whether git context injection is on.
// Returns true if IncludeGitInfo is nil.
func (c *SessionHandlerConfig) IsGitInfoEnabled() bool {
	if c == nil || c.IncludeGitInfo == nil {
		return true
	}

	return *c.IncludeGitInfo
}

// GetExtraContext returns the extra context lines, nil when unset.
func (c *SessionHandlerConfig) GetExtraContext() []string {
	if c == nil {
		return nil
	}

	return c.ExtraContext
}

// ByteSize represents a byte size value that can be parsed from strings like "1MB".
type ByteSize int64

// Common byte size constants.
const (
	KB ByteSize = 1024
	MB ByteSize = 1024 * KB
	GB ByteSize = 1024 * MB
)

// DefaultMaxContentSize is the default scan cap for secret detection.
const DefaultMaxContentSize = MB

// JSONSchema returns the JSON Schema for the ByteSize type.
func (ByteSize) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "integer",
		Minimum:     json.Number("0"),
		Description: "Size in bytes",
		Examples:    []any{1048576, 10485760},
	}
}
