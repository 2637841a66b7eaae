package handler

import (
	"fmt"
	"slices"
	"strings"
)

// Result is the outcome of a single handler, or the merged outcome of a
// whole chain.
type Result struct {
	// Decision is the verdict for the action.
	Decision Decision

	// Reason explains a deny, ask, or continue in human terms. Empty for
	// plain allows.
	Reason string

	// Context carries extra lines surfaced to the agent alongside the
	// decision. Never contains empty strings.
	Context []string

	// Guidance optionally tells the agent what to do instead of the
	// blocked action.
	Guidance string

	// HandlersMatched lists the handlers that considered this input
	// relevant, in first-seen order with no duplicates.
	HandlersMatched []string
}

// Allow creates an allow result with no annotations.
func Allow() *Result {
	return &Result{Decision: DecisionAllow}
}

// AllowWithContext creates an allow result carrying context lines.
func AllowWithContext(lines ...string) *Result {
	return Allow().AddContext(lines...)
}

// Deny creates a deny result with the given reason.
func Deny(reason string) *Result {
	return &Result{Decision: DecisionDeny, Reason: reason}
}

// Denyf creates a deny result with a formatted reason.
func Denyf(format string, args ...any) *Result {
	return Deny(fmt.Sprintf(format, args...))
}

// DenyWithGuidance creates a deny result with a reason and a suggested
// alternative.
func DenyWithGuidance(reason, guidance string) *Result {
	return &Result{Decision: DecisionDeny, Reason: reason, Guidance: guidance}
}

// Ask creates a result deferring the action to the user.
func Ask(reason string) *Result {
	return &Result{Decision: DecisionAsk, Reason: reason}
}

// Askf creates an ask result with a formatted reason.
func Askf(format string, args ...any) *Result {
	return Ask(fmt.Sprintf(format, args...))
}

// AskWithGuidance creates an ask result with a reason and a suggested
// alternative.
func AskWithGuidance(reason, guidance string) *Result {
	return &Result{Decision: DecisionAsk, Reason: reason, Guidance: guidance}
}

// Continue creates a continue result with the given reason.
func Continue(reason string) *Result {
	return &Result{Decision: DecisionContinue, Reason: reason}
}

// AddContext appends context lines, skipping empty strings.
func (r *Result) AddContext(lines ...string) *Result {
	for _, line := range lines {
		if line == "" {
			continue
		}

		r.Context = append(r.Context, line)
	}

	return r
}

// WithGuidance sets the guidance text.
func (r *Result) WithGuidance(guidance string) *Result {
	r.Guidance = guidance

	return r
}

// MarkMatched records handler names in first-seen order, dropping
// duplicates.
func (r *Result) MarkMatched(names ...string) *Result {
	for _, name := range names {
		if slices.Contains(r.HandlersMatched, name) {
			continue
		}

		r.HandlersMatched = append(r.HandlersMatched, name)
	}

	return r
}

// Merge folds another handler's result into this one. Context lines and
// matched handlers accumulate; guidance is overwritten by any non-empty
// incoming value; decision and reason are overwritten only when the
// incoming result is not a plain allow, so a later allow never erases an
// earlier deny. A nil incoming result is an implicit allow and merges
// nothing.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}

	r.AddContext(other.Context...)
	r.MarkMatched(other.HandlersMatched...)

	if other.Guidance != "" {
		r.Guidance = other.Guidance
	}

	if other.Decision != DecisionAllow {
		r.Decision = other.Decision
		r.Reason = other.Reason
	}
}

// String renders the result for logs: the decision in upper case,
// followed by the reason when present.
func (r *Result) String() string {
	decision := strings.ToUpper(r.Decision.String())
	if r.Reason == "" {
		return decision
	}

	return decision + ": " + r.Reason
}
