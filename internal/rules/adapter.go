package rules

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hookd/internal/handler"
	"github.com/smykla-skalski/hookd/pkg/config"
	"github.com/smykla-skalski/hookd/pkg/hook"
	"github.com/smykla-skalski/hookd/pkg/logger"
)

// ErrInvalidRule is returned when a rule configuration cannot compile.
var ErrInvalidRule = errors.New("invalid rule")

// RuleHandler adapts one compiled rule into the handler contract. It
// registers and executes exactly like a built-in handler.
type RuleHandler struct {
	handler.Base

	events  []hook.EventType
	matcher Matcher

	decision handler.Decision
	reason   string
	context  []string
	guidance string
}

// Compile builds a RuleHandler from its configuration. Every error here
// is a configuration error; startup treats it as fatal rather than
// silently running with less policy than the project wrote down.
func Compile(cfg *config.RuleConfig, log logger.Logger) (*RuleHandler, error) {
	if cfg.Name == "" {
		return nil, errors.Wrap(ErrInvalidRule, "rule name is required")
	}

	events, err := parseEvents(cfg.Events)
	if err != nil {
		return nil, errors.Wrapf(err, "rule %q", cfg.Name)
	}

	matcher, err := BuildMatcher(cfg.Match)
	if err != nil {
		return nil, errors.Wrapf(err, "rule %q", cfg.Name)
	}

	decisionName := cfg.Action.GetDecision()

	decision, err := handler.DecisionString(strings.ToLower(decisionName))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidRule,
			"rule %q: unknown decision %q", cfg.Name, decisionName)
	}

	base := handler.NewBase(cfg.Name, cfg.GetPriority(), log)
	if cfg.Terminal {
		base = handler.NewTerminalBase(cfg.Name, cfg.GetPriority(), log)
	}

	h := &RuleHandler{
		Base:     base,
		events:   events,
		matcher:  matcher,
		decision: decision,
	}
	h.SetTags(cfg.Tags...)

	if cfg.Action != nil {
		h.reason = cfg.Action.Reason
		h.context = cfg.Action.Context
		h.guidance = cfg.Action.Guidance
	}

	if h.reason == "" {
		h.reason = defaultReason(decision, cfg.Name)
	}

	return h, nil
}

// parseEvents resolves event names into types. An empty list means every
// routable event.
func parseEvents(names []string) ([]hook.EventType, error) {
	if len(names) == 0 {
		return hook.RoutableEventTypes(), nil
	}

	events := make([]hook.EventType, 0, len(names))

	for _, name := range names {
		event, err := hook.ParseEventType(name)
		if err != nil {
			return nil, err
		}

		events = append(events, event)
	}

	return events, nil
}

// defaultReason fills in a reason for rules that do not state one.
func defaultReason(decision handler.Decision, name string) string {
	switch decision {
	case handler.DecisionDeny:
		return fmt.Sprintf("blocked by rule %q", name)
	case handler.DecisionAsk:
		return fmt.Sprintf("rule %q requires approval", name)
	case handler.DecisionContinue:
		return fmt.Sprintf("rule %q matched", name)
	default:
		return ""
	}
}

// Events returns the event types the rule registers for.
func (h *RuleHandler) Events() []hook.EventType {
	return h.events
}

// Matches reports whether the rule's conditions are satisfied. A rule
// without conditions matches every event it registered for.
func (h *RuleHandler) Matches(input *hook.Input) bool {
	if h.matcher == nil {
		return true
	}

	return h.matcher.Match(input)
}

// Handle produces the rule's configured decision.
func (h *RuleHandler) Handle(_ context.Context, _ *hook.Input) *handler.Result {
	var res *handler.Result

	switch h.decision {
	case handler.DecisionDeny:
		res = handler.Deny(h.reason)
	case handler.DecisionAsk:
		res = handler.Ask(h.reason)
	case handler.DecisionContinue:
		res = handler.Continue(h.reason)
	default:
		res = handler.Allow()
	}

	if len(h.context) > 0 {
		res.AddContext(h.context...)
	}

	if h.guidance != "" {
		res.WithGuidance(h.guidance)
	}

	h.LogDecision(res)

	return res
}

// Verify interface compliance.
var _ handler.Handler = (*RuleHandler)(nil)
