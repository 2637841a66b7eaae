// Package prompt implements the prompt inspection handler. It never
// blocks a prompt; pasting a credential into the session is the user's
// call, but they should hear about it while rotation is still cheap.
package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/smykla-skalski/hookd/internal/handler"
	"github.com/smykla-skalski/hookd/internal/handlers/secrets"
	"github.com/smykla-skalski/hookd/pkg/config"
	"github.com/smykla-skalski/hookd/pkg/hook"
	"github.com/smykla-skalski/hookd/pkg/logger"
)

const (
	// Name is the handler identity and its key under handlers.overrides.
	Name = "prompt"

	// DefaultPriority is the execution rank among prompt handlers.
	DefaultPriority = 10
)

// PromptHandler warns when a submitted prompt appears to contain
// credentials.
type PromptHandler struct {
	handler.Base

	detector secrets.Detector
	config   *config.PromptHandlerConfig
}

// NewPromptHandler creates a PromptHandler. A nil detector falls back to
// the built-in pattern set, shared with the secrets handler when the
// caller passes the same instance.
func NewPromptHandler(
	log logger.Logger,
	detector secrets.Detector,
	cfg *config.PromptHandlerConfig,
) *PromptHandler {
	if detector == nil {
		detector = secrets.NewDefaultPatternDetector()
	}

	h := &PromptHandler{
		Base:     handler.NewBase(Name, DefaultPriority, log),
		detector: detector,
		config:   cfg,
	}
	h.SetTags("prompt")

	return h
}

// Matches reports interest in events that carry a prompt.
func (h *PromptHandler) Matches(input *hook.Input) bool {
	return input.Prompt != ""
}

// Handle scans the prompt and attaches a warning for any findings. The
// decision is always allow.
func (h *PromptHandler) Handle(_ context.Context, input *hook.Input) *handler.Result {
	if !h.config.IsWarnOnSecretsEnabled() {
		return handler.Allow()
	}

	findings := h.detector.Detect(input.Prompt)
	if len(findings) == 0 {
		return handler.Allow()
	}

	res := handler.AllowWithContext(fmt.Sprintf(
		"Warning: the prompt appears to contain credentials (%s). "+
			"Rotate anything real and reference secrets by name instead.",
		strings.Join(findingDescriptions(findings), ", "),
	))

	h.LogDecision(res)

	return res
}

// findingDescriptions returns the distinct pattern descriptions in
// first-seen order.
func findingDescriptions(findings []secrets.Finding) []string {
	seen := make(map[string]bool, len(findings))
	descriptions := make([]string, 0, len(findings))

	for _, finding := range findings {
		if seen[finding.Pattern.Description] {
			continue
		}

		seen[finding.Pattern.Description] = true
		descriptions = append(descriptions, finding.Pattern.Description)
	}

	return descriptions
}
