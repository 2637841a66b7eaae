// Package handler defines the handler contract for hook event processing.
//
// A handler is the unit of policy: it declares which events it handles
// (identity, priority, tags), inspects a single hook input, and produces a
// Result carrying a decision plus optional reason, context, and guidance.
// Handlers are composed into priority-ordered chains by the dispatcher
// package; this package only defines the contract and shared base type.
package handler

import (
	"context"

	"github.com/smykla-skalski/hookd/pkg/hook"
	"github.com/smykla-skalski/hookd/pkg/logger"
)

//go:generate mockgen -source=handler.go -destination=handler_mock.go -package=handler

// Handler processes a single hook event and produces a decision.
type Handler interface {
	// Name returns the handler's unique identity within a chain.
	Name() string

	// Priority returns the execution rank. Lower values run earlier.
	Priority() int

	// Terminal reports whether a result from this handler ends the chain.
	Terminal() bool

	// Tags returns the capability tags used for configuration filtering.
	Tags() []string

	// Matches reports whether this handler wants to see the given input.
	// It must be cheap and side-effect free; expensive work belongs in
	// Handle.
	Matches(input *hook.Input) bool

	// Handle inspects the input and returns a decision. A nil result is
	// treated as an implicit allow by the chain.
	Handle(ctx context.Context, input *hook.Input) *Result
}

// Base provides common identity plumbing for handler implementations.
// Embed it and supply Matches/Handle.
type Base struct {
	name     string
	priority int
	terminal bool
	tags     []string
	log      logger.Logger
}

// NewBase creates a Base with the given identity and priority.
func NewBase(name string, priority int, log logger.Logger) Base {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return Base{
		name:     name,
		priority: priority,
		log:      log,
	}
}

// NewTerminalBase creates a Base whose results end the chain.
func NewTerminalBase(name string, priority int, log logger.Logger) Base {
	base := NewBase(name, priority, log)
	base.terminal = true

	return base
}

// Name returns the handler identity.
func (b *Base) Name() string {
	return b.name
}

// Priority returns the execution rank.
func (b *Base) Priority() int {
	return b.priority
}

// SetPriority replaces the execution rank. Configuration overrides are
// applied through this before the handler is registered.
func (b *Base) SetPriority(priority int) {
	b.priority = priority
}

// Terminal reports whether results from this handler end the chain.
func (b *Base) Terminal() bool {
	return b.terminal
}

// Tags returns the capability tags.
func (b *Base) Tags() []string {
	return b.tags
}

// SetTags replaces the capability tags.
func (b *Base) SetTags(tags ...string) {
	b.tags = tags
}

// HasTag reports whether the handler carries the given tag.
func (b *Base) HasTag(tag string) bool {
	for _, t := range b.tags {
		if t == tag {
			return true
		}
	}

	return false
}

// Logger returns the handler's logger.
func (b *Base) Logger() logger.Logger {
	return b.log
}

// LogDecision logs the outcome of a Handle call at the appropriate level.
// Allows are logged at debug to keep the common path quiet; everything
// else is visible at info.
func (b *Base) LogDecision(result *Result) {
	if result == nil {
		b.log.Debug("handler decision", "handler", b.name, "decision", DecisionAllow.String())

		return
	}

	if result.Decision == DecisionAllow {
		b.log.Debug("handler decision", "handler", b.name, "decision", result.Decision.String())

		return
	}

	b.log.Info("handler decision",
		"handler", b.name,
		"decision", result.Decision.String(),
		"reason", result.Reason,
	)
}
