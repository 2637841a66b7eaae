package dispatcher

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hookd/internal/handler"
	"github.com/smykla-skalski/hookd/internal/hookresponse"
	"github.com/smykla-skalski/hookd/pkg/hook"
	"github.com/smykla-skalski/hookd/pkg/logger"
)

// Router owns exactly one chain per routable event type. The set of event
// types is closed at construction; registration only mutates the chains,
// never the mapping, and must finish before the first request is served.
type Router struct {
	chains map[hook.EventType]*Chain
	logger logger.Logger
}

// NewRouter creates a router with an empty chain for every routable event
// type.
func NewRouter(log logger.Logger) *Router {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	routable := hook.RoutableEventTypes()
	chains := make(map[hook.EventType]*Chain, len(routable))

	for _, eventType := range routable {
		chains[eventType] = NewChain(log)
	}

	return &Router{
		chains: chains,
		logger: log,
	}
}

// Register adds a handler to the chain for the given event type.
func (r *Router) Register(eventType hook.EventType, h handler.Handler) error {
	chain, ok := r.chains[eventType]
	if !ok {
		return errors.Newf("no chain for event type %q", eventType.String())
	}

	chain.Add(h)

	r.logger.Debug("handler registered",
		"event", eventType.String(),
		"handler", h.Name(),
		"priority", h.Priority(),
	)

	return nil
}

// RegisterForAll adds the handler to every event type's chain.
func (r *Router) RegisterForAll(h handler.Handler) {
	for _, eventType := range hook.RoutableEventTypes() {
		r.chains[eventType].Add(h)
	}

	r.logger.Debug("handler registered for all events",
		"handler", h.Name(),
		"priority", h.Priority(),
	)
}

// Unregister removes a handler by identity from one event type's chain,
// reporting whether anything was removed.
func (r *Router) Unregister(eventType hook.EventType, name string) bool {
	chain, ok := r.chains[eventType]
	if !ok {
		return false
	}

	removed := chain.Remove(name)
	if removed {
		r.logger.Debug("handler unregistered",
			"event", eventType.String(),
			"handler", name,
		)
	}

	return removed
}

// Chain returns the chain for an event type, or nil for an unknown type.
func (r *Router) Chain(eventType hook.EventType) *Chain {
	return r.chains[eventType]
}

// Route executes the chain for the event type, then appends the disable
// hint naming the configuration key of the deciding handler to deny and
// ask results.
func (r *Router) Route(ctx context.Context, eventType hook.EventType, input *hook.Input) *ChainResult {
	chain, ok := r.chains[eventType]
	if !ok {
		// The protocol layer rejects unknown event names before routing;
		// anything that still lands here gets the default allow.
		return &ChainResult{Result: handler.Allow()}
	}

	r.logger.Debug("routing event",
		"event", eventType.String(),
		"handlers", chain.Len(),
	)

	chainResult := chain.Execute(ctx, input)
	r.appendDisableHint(eventType, chainResult)

	if chainResult.Result.Decision.Blocks() {
		r.logger.Info("event blocked",
			"event", eventType.String(),
			"decision", chainResult.Result.Decision.String(),
			"handler", chainResult.DecidedBy(),
		)
	}

	return chainResult
}

// RouteByString resolves an event-type name that may be PascalCase or
// snake_case, case-insensitively, then routes.
func (r *Router) RouteByString(ctx context.Context, eventName string, input *hook.Input) (*ChainResult, error) {
	eventType, err := hook.ParseEventType(eventName)
	if err != nil {
		return nil, err
	}

	return r.Route(ctx, eventType, input), nil
}

// AllHandlers returns the registered handlers grouped per event type, in
// execution order. Used by status tooling.
func (r *Router) AllHandlers() map[hook.EventType][]handler.Handler {
	out := make(map[hook.EventType][]handler.Handler, len(r.chains))

	for eventType, chain := range r.chains {
		out[eventType] = chain.Handlers()
	}

	return out
}

// HandlerCount returns the number of registered handlers per event type.
func (r *Router) HandlerCount() map[hook.EventType]int {
	out := make(map[hook.EventType]int, len(r.chains))

	for eventType, chain := range r.chains {
		out[eventType] = chain.Len()
	}

	return out
}

// appendDisableHint appends the configuration hint for the handler whose
// decision prevailed. The decider may have been unregistered between
// execution and this step; in that case, or when nothing executed, the
// hint is silently omitted.
func (r *Router) appendDisableHint(eventType hook.EventType, chainResult *ChainResult) {
	result := chainResult.Result
	if result == nil || !result.Decision.Blocks() {
		return
	}

	decider := chainResult.DecidedBy()
	if decider == "" {
		return
	}

	chain, ok := r.chains[eventType]
	if !ok || chain.Find(decider) == nil {
		return
	}

	hint := hookresponse.FormatDisableHint(decider)

	if result.Reason == "" {
		result.Reason = hint
	} else {
		result.Reason += "\n\n" + hint
	}
}
