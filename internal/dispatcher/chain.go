// Package dispatcher executes handler chains and routes hook events to them.
package dispatcher

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/smykla-skalski/hookd/internal/handler"
	"github.com/smykla-skalski/hookd/pkg/hook"
	"github.com/smykla-skalski/hookd/pkg/logger"
)

// HandlerExecution records the decision of one executed handler within a
// chain run. The controller turns these into history entries.
type HandlerExecution struct {
	// Handler is the identity of the executed handler.
	Handler string

	// Decision is what the handler decided. A nil result counts as allow.
	Decision handler.Decision

	// Reason is the handler's reason, if any.
	Reason string
}

// ChainResult is the outcome of executing one chain against one input.
// It is produced per dispatch and discarded once the response is sent.
type ChainResult struct {
	// Result is the merged outcome across all executed handlers.
	Result *handler.Result

	// HandlersExecuted lists executed handlers in execution order. Handlers
	// whose Matches returned false never appear here.
	HandlersExecuted []string

	// TerminatedBy names the terminal handler that ended the chain early,
	// or is empty when the chain ran to completion.
	TerminatedBy string

	// ExecutionTimeMS is the wall-clock duration of the whole chain run,
	// in milliseconds.
	ExecutionTimeMS float64

	// Executions holds the per-handler decisions in execution order.
	Executions []HandlerExecution
}

// DecidedBy returns the identity of the handler whose decision prevailed,
// or the empty string when every executed handler allowed.
func (r *ChainResult) DecidedBy() string {
	for i := len(r.Executions) - 1; i >= 0; i-- {
		if r.Executions[i].Decision != handler.DecisionAllow {
			return r.Executions[i].Handler
		}
	}

	return ""
}

// Chain is the ordered set of handlers registered for one event type. It
// is mutated only during initialization and treated as read-only once the
// daemon begins serving.
type Chain struct {
	handlers []handler.Handler
	logger   logger.Logger
}

// NewChain creates an empty chain.
func NewChain(log logger.Logger) *Chain {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Chain{logger: log}
}

// Add inserts a handler, keeping the chain sorted by ascending priority.
// Handlers with equal priority keep their registration order.
func (c *Chain) Add(h handler.Handler) {
	c.handlers = append(c.handlers, h)

	sort.SliceStable(c.handlers, func(i, j int) bool {
		return c.handlers[i].Priority() < c.handlers[j].Priority()
	})
}

// Remove removes the handler with the given identity, reporting whether
// anything was removed.
func (c *Chain) Remove(name string) bool {
	for i, h := range c.handlers {
		if h.Name() == name {
			c.handlers = append(c.handlers[:i], c.handlers[i+1:]...)

			return true
		}
	}

	return false
}

// Find returns the registered handler with the given identity, or nil.
func (c *Chain) Find(name string) handler.Handler {
	for _, h := range c.handlers {
		if h.Name() == name {
			return h
		}
	}

	return nil
}

// Handlers returns the handlers in execution order.
func (c *Chain) Handlers() []handler.Handler {
	out := make([]handler.Handler, len(c.handlers))
	copy(out, c.handlers)

	return out
}

// Len returns the number of registered handlers.
func (c *Chain) Len() int {
	return len(c.handlers)
}

// Execute runs every matching handler in priority order and merges their
// results. Non-matching handlers are skipped entirely and never counted as
// executed. A terminal handler ends the chain after its result merges; a
// non-terminal handler never stops the chain regardless of its decision.
// An empty chain, or one where nothing matches, yields a plain allow.
func (c *Chain) Execute(ctx context.Context, input *hook.Input) *ChainResult {
	start := time.Now()
	chainResult := &ChainResult{Result: handler.Allow()}

loop:
	for _, h := range c.handlers {
		select {
		case <-ctx.Done():
			c.logger.Debug("chain execution cancelled",
				"executed", len(chainResult.HandlersExecuted),
			)

			break loop
		default:
		}

		if !c.matches(h, input) {
			continue
		}

		result := c.run(ctx, h, input)

		execution := HandlerExecution{Handler: h.Name(), Decision: handler.DecisionAllow}
		if result != nil {
			execution.Decision = result.Decision
			execution.Reason = result.Reason
		}

		chainResult.Result.MarkMatched(h.Name())
		chainResult.Result.Merge(result)
		chainResult.HandlersExecuted = append(chainResult.HandlersExecuted, h.Name())
		chainResult.Executions = append(chainResult.Executions, execution)

		if h.Terminal() {
			chainResult.TerminatedBy = h.Name()

			break
		}
	}

	chainResult.ExecutionTimeMS = float64(time.Since(start)) / float64(time.Millisecond)

	return chainResult
}

// matches calls the handler's Matches, converting a panic into a skip so
// one broken predicate cannot take the daemon down.
func (c *Chain) matches(h handler.Handler, input *hook.Input) (matched bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("handler match panicked, skipping handler",
				"handler", h.Name(),
				"panic", fmt.Sprintf("%v", r),
			)

			matched = false
		}
	}()

	return h.Matches(input)
}

// run calls the handler's Handle, converting a panic into an allow that
// carries a visible warning in context. Lack of protection must never look
// identical to a clean allow.
func (c *Chain) run(ctx context.Context, h handler.Handler, input *hook.Input) (result *handler.Result) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("handler panicked, treating as allow",
				"handler", h.Name(),
				"panic", fmt.Sprintf("%v", r),
			)

			result = handler.AllowWithContext(fmt.Sprintf(
				"WARNING: handler %s failed (%v); the action was allowed without its check",
				h.Name(), r,
			))
		}
	}()

	return h.Handle(ctx, input)
}
