package config

// Default values for rule configuration.
const (
	// DefaultRulesFile is the standalone YAML rule pack path, relative to
	// the project root.
	DefaultRulesFile = ".hookd/rules.yaml"

	// DefaultRulePriority places rules after the built-in handlers.
	DefaultRulePriority = 50

	// DefaultRuleDecision is the decision a matching rule produces when
	// its action does not name one.
	DefaultRuleDecision = "deny"
)

// RulesConfig contains declarative project rule configuration.
type RulesConfig struct {
	// Enabled controls whether project rules are loaded at all.
	// Default: true
	Enabled *bool `json:"enabled,omitempty" koanf:"enabled" toml:"enabled"`

	// RulesFile is the path to a standalone YAML rule pack, loaded in
	// addition to inline rules. Relative paths resolve against the
	// project root.
	// Default: ".hookd/rules.yaml"
	RulesFile string `json:"rules_file,omitempty" koanf:"rules_file" toml:"rules_file,omitempty"`

	// Rules is the inline list of project rules ([[rules.rules]] in TOML).
	Rules []RuleConfig `json:"rules,omitempty" koanf:"rules" toml:"rules,omitempty"`
}

// IsEnabled returns true if project rules are enabled.
// Returns true if Enabled is nil (default behavior).
func (r *RulesConfig) IsEnabled() bool {
	if r == nil || r.Enabled == nil {
		return true
	}

	return *r.Enabled
}

// GetRulesFile returns the rule pack path, defaulting to DefaultRulesFile.
func (r *RulesConfig) GetRulesFile() string {
	if r == nil || r.RulesFile == "" {
		return DefaultRulesFile
	}

	return r.RulesFile
}

// RuleConfig represents a single declarative project rule. Each rule adapts
// into a handler and registers through the same conflict checks as the
// built-ins.
type RuleConfig struct {
	// Name uniquely identifies this rule. It becomes the handler identity.
	Name string `json:"name" koanf:"name" toml:"name" yaml:"name"`

	// Description explains what the rule enforces.
	Description string `json:"description,omitempty" koanf:"description" toml:"description,omitempty" yaml:"description,omitempty"`

	// Enabled controls whether this rule is active.
	// Default: true
	Enabled *bool `json:"enabled,omitempty" koanf:"enabled" toml:"enabled" yaml:"enabled,omitempty"`

	// Events lists the event types the rule registers for, by name
	// ("PreToolUse", "user_prompt_submit", ...). Empty means every
	// routable event.
	Events []string `json:"events,omitempty" koanf:"events" toml:"events,omitempty" yaml:"events,omitempty"`

	// Priority determines chain position. Lower runs earlier.
	// Default: 50 (after the built-in handlers)
	Priority int `json:"priority,omitempty" koanf:"priority" toml:"priority,omitempty" yaml:"priority,omitempty"`

	// Terminal stops the chain after this rule matches.
	// Default: false
	Terminal bool `json:"terminal,omitempty" koanf:"terminal" toml:"terminal,omitempty" yaml:"terminal,omitempty"`

	// Tags label the rule for enable_tags/disable_tags filtering.
	Tags []string `json:"tags,omitempty" koanf:"tags" toml:"tags,omitempty" yaml:"tags,omitempty"`

	// Match contains the conditions that must be satisfied.
	Match *RuleMatchConfig `json:"match,omitempty" koanf:"match" toml:"match,omitempty" yaml:"match,omitempty"`

	// Action specifies what happens when the rule matches.
	Action *RuleActionConfig `json:"action,omitempty" koanf:"action" toml:"action,omitempty" yaml:"action,omitempty"`
}

// IsRuleEnabled returns true if the rule is enabled.
// Returns true if Enabled is nil (default behavior).
func (r *RuleConfig) IsRuleEnabled() bool {
	if r.Enabled == nil {
		return true
	}

	return *r.Enabled
}

// GetPriority returns the rule's priority, defaulting to
// DefaultRulePriority when zero.
func (r *RuleConfig) GetPriority() int {
	if r.Priority == 0 {
		return DefaultRulePriority
	}

	return r.Priority
}

// RuleMatchConfig contains the conditions for a rule to match. All non-empty
// condition groups must be satisfied; within a group, any pattern may match.
// A nil or empty match config matches every event the rule is registered for.
type RuleMatchConfig struct {
	// Tools matches against the tool name ("Bash", "Write", "Edit", ...).
	// Glob patterns, regex auto-detection, and ! negation are supported.
	Tools []string `json:"tools,omitempty" koanf:"tools" toml:"tools,omitempty" yaml:"tools,omitempty"`

	// Commands matches against the bash command string.
	Commands []string `json:"commands,omitempty" koanf:"commands" toml:"commands,omitempty" yaml:"commands,omitempty"`

	// Paths matches against the file path a tool targets.
	Paths []string `json:"paths,omitempty" koanf:"paths" toml:"paths,omitempty" yaml:"paths,omitempty"`

	// Prompts matches against submitted prompt text.
	Prompts []string `json:"prompts,omitempty" koanf:"prompts" toml:"prompts,omitempty" yaml:"prompts,omitempty"`

	// CaseInsensitive enables case-insensitive matching for all pattern
	// groups.
	// Default: false
	CaseInsensitive *bool `json:"case_insensitive,omitempty" koanf:"case_insensitive" toml:"case_insensitive,omitempty" yaml:"case_insensitive,omitempty"`
}

// IsCaseInsensitive returns true if case-insensitive matching is enabled.
// Returns false if CaseInsensitive is nil (default behavior).
func (m *RuleMatchConfig) IsCaseInsensitive() bool {
	if m == nil || m.CaseInsensitive == nil {
		return false
	}

	return *m.CaseInsensitive
}

// RuleActionConfig specifies what happens when a rule matches.
type RuleActionConfig struct {
	// Decision is the decision the rule produces: "deny", "ask", "allow",
	// or "continue".
	// Default: "deny"
	Decision string `json:"decision,omitempty" jsonschema:"enum=deny,enum=ask,enum=allow,enum=continue" koanf:"decision" toml:"decision,omitempty" yaml:"decision,omitempty"`

	// Reason is the human-readable explanation attached to the decision.
	Reason string `json:"reason,omitempty" koanf:"reason" toml:"reason,omitempty" yaml:"reason,omitempty"`

	// Context lists additional context lines attached to the result.
	Context []string `json:"context,omitempty" koanf:"context" toml:"context,omitempty" yaml:"context,omitempty"`

	// Guidance is advisory text for the agent on how to proceed.
	Guidance string `json:"guidance,omitempty" koanf:"guidance" toml:"guidance,omitempty" yaml:"guidance,omitempty"`
}

// GetDecision returns the action decision, defaulting to
// DefaultRuleDecision.
func (a *RuleActionConfig) GetDecision() string {
	if a == nil || a.Decision == "" {
		return DefaultRuleDecision
	}

	return a.Decision
}
