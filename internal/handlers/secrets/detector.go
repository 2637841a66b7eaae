package secrets

import "strings"

// Detector scans content for secrets.
type Detector interface {
	// Detect returns all findings in content, ordered by position.
	Detect(content string) []Finding
}

// PatternDetector is a regex-based Detector.
type PatternDetector struct {
	patterns []Pattern
}

var _ Detector = (*PatternDetector)(nil)

// NewPatternDetector creates a detector using the given patterns.
func NewPatternDetector(patterns []Pattern) *PatternDetector {
	return &PatternDetector{patterns: patterns}
}

// NewDefaultPatternDetector creates a detector using the built-in patterns.
func NewDefaultPatternDetector() *PatternDetector {
	return NewPatternDetector(DefaultPatterns())
}

// AddPatterns appends patterns to the detector.
func (d *PatternDetector) AddPatterns(patterns ...Pattern) {
	d.patterns = append(d.patterns, patterns...)
}

// Detect scans content line by line against every pattern. Findings are
// ordered by line, then by the order patterns matched within the line.
func (d *PatternDetector) Detect(content string) []Finding {
	var findings []Finding

	for lineIdx, line := range strings.Split(content, "\n") {
		for patternIdx := range d.patterns {
			pattern := &d.patterns[patternIdx]

			matches := pattern.Regex.FindAllStringIndex(line, -1)
			for _, match := range matches {
				findings = append(findings, Finding{
					Pattern: pattern,
					Match:   line[match[0]:match[1]],
					Line:    lineIdx + 1,
					Column:  match[0] + 1,
				})
			}
		}
	}

	return findings
}
