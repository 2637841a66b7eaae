package rules

import (
	"github.com/smykla-skalski/hookd/pkg/config"
	"github.com/smykla-skalski/hookd/pkg/hook"
)

// Matcher evaluates one match condition against a hook input.
type Matcher interface {
	// Match returns true if the condition is satisfied.
	Match(input *hook.Input) bool

	// Name returns a descriptive name for the matcher.
	Name() string
}

// ToolMatcher matches against the tool name of a tool event.
type ToolMatcher struct {
	patterns []Pattern
}

// NewToolMatcher creates a matcher for tool name patterns.
func NewToolMatcher(patterns []string, opts PatternOptions) (*ToolMatcher, error) {
	compiled, err := CompilePatterns(patterns, opts)
	if err != nil {
		return nil, err
	}

	return &ToolMatcher{patterns: compiled}, nil
}

// Match returns true if the tool name matches any pattern.
func (m *ToolMatcher) Match(input *hook.Input) bool {
	if input.ToolName == "" {
		return false
	}

	return matchAny(m.patterns, input.ToolName)
}

// Name returns the matcher name.
func (m *ToolMatcher) Name() string {
	return "tools"
}

// CommandMatcher matches against the shell command of a Bash event.
type CommandMatcher struct {
	patterns []Pattern
}

// NewCommandMatcher creates a matcher for command patterns.
func NewCommandMatcher(patterns []string, opts PatternOptions) (*CommandMatcher, error) {
	compiled, err := CompilePatterns(patterns, opts)
	if err != nil {
		return nil, err
	}

	return &CommandMatcher{patterns: compiled}, nil
}

// Match returns true if the command matches any pattern.
func (m *CommandMatcher) Match(input *hook.Input) bool {
	command := input.Command()
	if command == "" {
		return false
	}

	return matchAny(m.patterns, command)
}

// Name returns the matcher name.
func (m *CommandMatcher) Name() string {
	return "commands"
}

// PathMatcher matches against the file path of a file event.
type PathMatcher struct {
	patterns []Pattern
}

// NewPathMatcher creates a matcher for file path patterns.
func NewPathMatcher(patterns []string, opts PatternOptions) (*PathMatcher, error) {
	compiled, err := CompilePatterns(patterns, opts)
	if err != nil {
		return nil, err
	}

	return &PathMatcher{patterns: compiled}, nil
}

// Match returns true if the file path matches any pattern.
func (m *PathMatcher) Match(input *hook.Input) bool {
	path := input.FilePath()
	if path == "" {
		return false
	}

	return matchAny(m.patterns, path)
}

// Name returns the matcher name.
func (m *PathMatcher) Name() string {
	return "paths"
}

// PromptMatcher matches against the submitted prompt text.
type PromptMatcher struct {
	patterns []Pattern
}

// NewPromptMatcher creates a matcher for prompt patterns.
func NewPromptMatcher(patterns []string, opts PatternOptions) (*PromptMatcher, error) {
	compiled, err := CompilePatterns(patterns, opts)
	if err != nil {
		return nil, err
	}

	return &PromptMatcher{patterns: compiled}, nil
}

// Match returns true if the prompt matches any pattern.
func (m *PromptMatcher) Match(input *hook.Input) bool {
	if input.Prompt == "" {
		return false
	}

	return matchAny(m.patterns, input.Prompt)
}

// Name returns the matcher name.
func (m *PromptMatcher) Name() string {
	return "prompts"
}

// AndMatcher requires every condition to match.
type AndMatcher struct {
	matchers []Matcher
}

// NewAndMatcher creates a matcher that requires all conditions to match.
func NewAndMatcher(matchers ...Matcher) *AndMatcher {
	return &AndMatcher{matchers: matchers}
}

// Match returns true if every matcher matches.
func (m *AndMatcher) Match(input *hook.Input) bool {
	for _, matcher := range m.matchers {
		if !matcher.Match(input) {
			return false
		}
	}

	return true
}

// Name returns the matcher name.
func (m *AndMatcher) Name() string {
	return "and"
}

// BuildMatcher compiles the match section of a rule into a single
// condition. A nil section or one with no conditions returns nil, which
// callers treat as match-everything.
//
//nolint:nilnil,ireturn // nil matcher means match-all; interface for polymorphism
func BuildMatcher(match *config.RuleMatchConfig) (Matcher, error) {
	if match == nil {
		return nil, nil
	}

	opts := PatternOptions{CaseInsensitive: match.IsCaseInsensitive()}

	var matchers []Matcher

	if len(match.Tools) > 0 {
		m, err := NewToolMatcher(match.Tools, opts)
		if err != nil {
			return nil, err
		}

		matchers = append(matchers, m)
	}

	if len(match.Commands) > 0 {
		m, err := NewCommandMatcher(match.Commands, opts)
		if err != nil {
			return nil, err
		}

		matchers = append(matchers, m)
	}

	if len(match.Paths) > 0 {
		m, err := NewPathMatcher(match.Paths, opts)
		if err != nil {
			return nil, err
		}

		matchers = append(matchers, m)
	}

	if len(match.Prompts) > 0 {
		m, err := NewPromptMatcher(match.Prompts, opts)
		if err != nil {
			return nil, err
		}

		matchers = append(matchers, m)
	}

	switch len(matchers) {
	case 0:
		return nil, nil
	case 1:
		return matchers[0], nil
	default:
		return NewAndMatcher(matchers...), nil
	}
}

// Verify interface compliance.
var (
	_ Matcher = (*ToolMatcher)(nil)
	_ Matcher = (*CommandMatcher)(nil)
	_ Matcher = (*PathMatcher)(nil)
	_ Matcher = (*PromptMatcher)(nil)
	_ Matcher = (*AndMatcher)(nil)
)
