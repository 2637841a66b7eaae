package secrets

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hookd/internal/handler"
	"github.com/smykla-skalski/hookd/pkg/config"
	"github.com/smykla-skalski/hookd/pkg/hook"
	"github.com/smykla-skalski/hookd/pkg/logger"
)

const (
	// Name is the handler identity and its key under handlers.overrides.
	Name = "secrets"

	// DefaultPriority runs the secrets handler after the files handler, so
	// a protected-path denial carries the more specific reason.
	DefaultPriority = 20
)

// SecretsHandler scans content about to be written for credentials. A
// finding denies by default; with block_on_detection disabled it degrades
// to a context warning on an allow.
type SecretsHandler struct {
	handler.Base

	detector Detector

	// customDetector runs config-supplied patterns. Kept separate so an
	// injected detector is never mutated.
	customDetector *PatternDetector

	config *config.SecretsHandlerConfig

	allowList []*regexp.Regexp

	disabledPatterns map[string]bool
}

// NewSecretsHandler creates a SecretsHandler. A nil detector falls back to
// the built-in pattern set. Custom patterns that do not compile are a
// configuration error; invalid allowlist entries are logged and skipped,
// since dropping one only blocks more.
func NewSecretsHandler(
	log logger.Logger,
	detector Detector,
	cfg *config.SecretsHandlerConfig,
) (*SecretsHandler, error) {
	if detector == nil {
		detector = NewDefaultPatternDetector()
	}

	h := &SecretsHandler{
		Base:             handler.NewBase(Name, DefaultPriority, log),
		detector:         detector,
		config:           cfg,
		disabledPatterns: make(map[string]bool),
	}
	h.SetTags("secrets", "security")

	custom, err := compileCustomPatterns(cfg.GetCustomPatterns())
	if err != nil {
		return nil, err
	}

	if len(custom) > 0 {
		h.customDetector = NewPatternDetector(custom)
	}

	h.allowList = compileAllowList(h.Logger(), cfg.GetAllowList())

	for _, name := range cfg.GetDisabledPatterns() {
		h.disabledPatterns[name] = true
	}

	return h, nil
}

// compileCustomPatterns compiles config-supplied patterns into the
// detector's Pattern form.
func compileCustomPatterns(configs []config.CustomPatternConfig) ([]Pattern, error) {
	patterns := make([]Pattern, 0, len(configs))

	for _, c := range configs {
		regex, err := regexp.Compile(c.Regex)
		if err != nil {
			return nil, errors.Wrapf(err, "custom pattern %q", c.Name)
		}

		patterns = append(patterns, Pattern{
			Name:        c.Name,
			Description: c.Description,
			Regex:       regex,
		})
	}

	return patterns, nil
}

// compileAllowList compiles allowlist entries, skipping ones that fail.
func compileAllowList(log logger.Logger, entries []string) []*regexp.Regexp {
	regexes := make([]*regexp.Regexp, 0, len(entries))

	for _, entry := range entries {
		regex, err := regexp.Compile(entry)
		if err != nil {
			log.Warn("skipping invalid allowlist pattern",
				"pattern", entry,
				"error", err,
			)

			continue
		}

		regexes = append(regexes, regex)
	}

	return regexes
}

// Matches reports interest in tools that write file content.
func (h *SecretsHandler) Matches(input *hook.Input) bool {
	return input.IsFileTool()
}

// Handle scans the would-be file content and reports findings. Content
// over the configured size cap is allowed unscanned; scanning is advisory,
// not a completeness guarantee.
func (h *SecretsHandler) Handle(_ context.Context, input *hook.Input) *handler.Result {
	content := writtenContent(input)
	if content == "" {
		return handler.Allow()
	}

	if limit := h.config.GetMaxContentSize(); int64(len(content)) > int64(limit) {
		h.Logger().Debug("content exceeds scan size cap, skipping",
			"size", len(content),
			"cap", int64(limit),
		)

		return handler.Allow()
	}

	findings := h.detect(content)
	if len(findings) == 0 {
		return handler.Allow()
	}

	message := formatFindings(findings)

	var res *handler.Result
	if h.config.IsBlockOnDetectionEnabled() {
		res = handler.DenyWithGuidance(
			message,
			"Reference secrets via environment variables instead of writing them to files.",
		)
	} else {
		res = handler.AllowWithContext(message)
	}

	h.LogDecision(res)

	return res
}

// detect runs both detectors and drops disabled and allowlisted findings.
func (h *SecretsHandler) detect(content string) []Finding {
	raw := h.detector.Detect(content)
	if h.customDetector != nil {
		raw = append(raw, h.customDetector.Detect(content)...)
	}

	findings := make([]Finding, 0, len(raw))

	for _, finding := range raw {
		if h.disabledPatterns[finding.Pattern.Name] {
			continue
		}

		if h.isAllowed(finding.Match) {
			continue
		}

		findings = append(findings, finding)
	}

	return findings
}

// isAllowed reports whether the matched text is covered by an allowlist
// entry.
func (h *SecretsHandler) isAllowed(match string) bool {
	for _, regex := range h.allowList {
		if regex.MatchString(match) {
			return true
		}
	}

	return false
}

// formatFindings builds the user-facing report. The matched text itself is
// never echoed back.
func formatFindings(findings []Finding) string {
	lines := make([]string, 0, len(findings)+1)
	lines = append(lines, fmt.Sprintf("Potential secrets detected (%d finding(s)):", len(findings)))

	for _, finding := range findings {
		lines = append(lines, fmt.Sprintf(
			"Line %d: %s (%s)",
			finding.Line, finding.Pattern.Description, finding.Pattern.Name,
		))
	}

	return strings.Join(lines, "\n")
}

// writtenContent extracts the text a file tool is about to put on disk.
func writtenContent(input *hook.Input) string {
	if content := input.Content(); content != "" {
		return content
	}

	return input.ToolInput.NewString
}
