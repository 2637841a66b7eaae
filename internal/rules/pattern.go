// Package rules compiles declarative project rules into handlers. Rules
// let a project shape policy without writing code: each one names its
// events, match conditions, and the decision to return.
package rules

import (
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

// PatternType indicates whether a pattern is a glob or regex.
type PatternType int

const (
	// PatternTypeGlob indicates a glob pattern (e.g., "git push*").
	PatternTypeGlob PatternType = iota

	// PatternTypeRegex indicates a regex pattern (e.g., "^git\s+push").
	PatternTypeRegex
)

// regexIndicators are strings that indicate a pattern is regex rather than glob.
var regexIndicators = []string{
	"^",   // Start anchor
	"$",   // End anchor
	"(?",  // Non-capturing group or flags
	"\\d", // Digit class
	"\\w", // Word class
	"\\s", // Whitespace class
	"\\b", // Word boundary
	"[",   // Character class start
	"]",   // Character class end
	"(",   // Capturing group start
	")",   // Capturing group end
	"|",   // Alternation
	"+",   // One or more quantifier
	".*",  // Wildcard in regex
	".+",  // One or more any
	"\\.", // Escaped dot
}

// DetectPatternType determines whether a pattern is a glob or regex.
// Returns PatternTypeRegex if the pattern contains regex-specific syntax,
// otherwise returns PatternTypeGlob.
func DetectPatternType(pattern string) PatternType {
	for _, indicator := range regexIndicators {
		if strings.Contains(pattern, indicator) {
			return PatternTypeRegex
		}
	}

	return PatternTypeGlob
}

// Pattern matches a single string.
type Pattern interface {
	// Match returns true if the string matches the pattern.
	Match(s string) bool

	// String returns the original pattern string.
	String() string
}

// GlobPattern wraps a compiled glob pattern.
type GlobPattern struct {
	pattern  string
	compiled glob.Glob
}

// NewGlobPattern creates a new GlobPattern from the given pattern string.
func NewGlobPattern(pattern string) (*GlobPattern, error) {
	compiled, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, err
	}

	return &GlobPattern{
		pattern:  pattern,
		compiled: compiled,
	}, nil
}

// Match returns true if the string matches the glob pattern.
func (p *GlobPattern) Match(s string) bool {
	return p.compiled.Match(s)
}

// String returns the original pattern string.
func (p *GlobPattern) String() string {
	return p.pattern
}

// RegexPattern wraps a compiled regular expression.
type RegexPattern struct {
	pattern  string
	compiled *regexp.Regexp
}

// NewRegexPattern creates a new RegexPattern from the given pattern string.
func NewRegexPattern(pattern string) (*RegexPattern, error) {
	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	return &RegexPattern{
		pattern:  pattern,
		compiled: compiled,
	}, nil
}

// Match returns true if the string matches the regex pattern.
func (p *RegexPattern) Match(s string) bool {
	return p.compiled.MatchString(s)
}

// String returns the original pattern string.
func (p *RegexPattern) String() string {
	return p.pattern
}

// NegatedPattern wraps a pattern and inverts its match result.
type NegatedPattern struct {
	inner Pattern
}

// NewNegatedPattern creates a pattern that matches when the inner pattern
// does not.
func NewNegatedPattern(inner Pattern) *NegatedPattern {
	return &NegatedPattern{inner: inner}
}

// Match returns true if the inner pattern does NOT match.
func (p *NegatedPattern) Match(s string) bool {
	return !p.inner.Match(s)
}

// String returns the original pattern string with ! prefix.
func (p *NegatedPattern) String() string {
	return "!" + p.inner.String()
}

// IsNegated returns true if the pattern string starts with !.
func IsNegated(pattern string) bool {
	return strings.HasPrefix(pattern, "!")
}

// StripNegation removes the ! prefix from a pattern string.
func StripNegation(pattern string) string {
	return strings.TrimPrefix(pattern, "!")
}

// CaseInsensitivePattern wraps a pattern compiled from a lowercased source
// and lowercases candidates before matching.
type CaseInsensitivePattern struct {
	inner   Pattern
	pattern string
}

// Match returns true if the lowercased string matches.
func (p *CaseInsensitivePattern) Match(s string) bool {
	return p.inner.Match(strings.ToLower(s))
}

// String returns the original pattern string.
func (p *CaseInsensitivePattern) String() string {
	return p.pattern
}

// PatternOptions configures pattern compilation behavior.
type PatternOptions struct {
	// CaseInsensitive enables case-insensitive matching.
	CaseInsensitive bool
}

// CompilePattern compiles a pattern string, auto-detecting glob versus
// regex and honoring a ! negation prefix. Rules compile once at startup;
// an error here is a configuration error and fatal to the caller.
//
//nolint:ireturn // interface for polymorphism
func CompilePattern(pattern string, opts PatternOptions) (Pattern, error) {
	negated := IsNegated(pattern)
	if negated {
		pattern = StripNegation(pattern)
	}

	var (
		compiled Pattern
		err      error
	)

	switch DetectPatternType(pattern) {
	case PatternTypeRegex:
		if opts.CaseInsensitive && !strings.HasPrefix(pattern, "(?i)") {
			pattern = "(?i)" + pattern
		}

		compiled, err = NewRegexPattern(pattern)

	default:
		if opts.CaseInsensitive {
			var inner *GlobPattern

			inner, err = NewGlobPattern(strings.ToLower(pattern))
			if err == nil {
				compiled = &CaseInsensitivePattern{inner: inner, pattern: pattern}
			}
		} else {
			compiled, err = NewGlobPattern(pattern)
		}
	}

	if err != nil {
		return nil, err
	}

	if negated {
		return NewNegatedPattern(compiled), nil
	}

	return compiled, nil
}

// CompilePatterns compiles a list of pattern strings with shared options.
func CompilePatterns(patterns []string, opts PatternOptions) ([]Pattern, error) {
	compiled := make([]Pattern, 0, len(patterns))

	for _, p := range patterns {
		pattern, err := CompilePattern(p, opts)
		if err != nil {
			return nil, err
		}

		compiled = append(compiled, pattern)
	}

	return compiled, nil
}

// matchAny reports whether any pattern matches the string.
func matchAny(patterns []Pattern, s string) bool {
	for _, pattern := range patterns {
		if pattern.Match(s) {
			return true
		}
	}

	return false
}
