// Package controller wires handler construction, registration, dispatch,
// and decision accounting into the single unit the daemon serves from.
package controller

import (
	"context"
	"os"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hookd/internal/config/factory"
	"github.com/smykla-skalski/hookd/internal/dispatcher"
	"github.com/smykla-skalski/hookd/internal/gitinfo"
	"github.com/smykla-skalski/hookd/internal/handler"
	"github.com/smykla-skalski/hookd/internal/history"
	"github.com/smykla-skalski/hookd/pkg/config"
	"github.com/smykla-skalski/hookd/pkg/hook"
	"github.com/smykla-skalski/hookd/pkg/logger"
)

// Controller owns the router, the handler factories, and the decision
// records for one daemon process. The server holds exactly one instance;
// tests construct their own.
type Controller struct {
	log     logger.Logger
	cfg     *config.Config
	workDir string
	version string

	git         gitinfo.Resolver
	historySize int

	router  *dispatcher.Router
	history *history.History
	stats   *history.Stats

	handlerFactory *factory.HandlerFactory
	rulesFactory   *factory.RulesFactory

	// strictInput is captured at construction so request goroutines never
	// touch the shared config.
	strictInput bool

	mu          sync.Mutex
	initialized bool
	shutdown    func()
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log logger.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithWorkDir sets the directory project rule packs are resolved against.
// Defaults to the process working directory.
func WithWorkDir(dir string) Option {
	return func(c *Controller) {
		if dir != "" {
			c.workDir = dir
		}
	}
}

// WithVersion sets the version string reported to liveness probes.
func WithVersion(version string) Option {
	return func(c *Controller) {
		if version != "" {
			c.version = version
		}
	}
}

// WithGitResolver sets the git resolver passed to handlers that surface
// repository state.
func WithGitResolver(git gitinfo.Resolver) Option {
	return func(c *Controller) {
		c.git = git
	}
}

// WithHistorySize overrides the decision history capacity.
func WithHistorySize(size int) Option {
	return func(c *Controller) {
		if size > 0 {
			c.historySize = size
		}
	}
}

// New creates a Controller for the given configuration. Handlers are not
// registered until Initialize or the first dispatched event.
func New(cfg *config.Config, opts ...Option) *Controller {
	if cfg == nil {
		cfg = &config.Config{}
	}

	c := &Controller{
		log:         logger.NewNoOpLogger(),
		cfg:         cfg,
		version:     "dev",
		historySize: history.DefaultMaxSize,
		strictInput: cfg.GetDaemon().IsStrictInputEnabled(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			wd = "."
		}

		c.workDir = wd
	}

	factoryOpts := []factory.Option{}
	if c.git != nil {
		factoryOpts = append(factoryOpts, factory.WithGitResolver(c.git))
	}

	c.router = dispatcher.NewRouter(c.log)
	c.history = history.New(c.historySize, history.WithLogger(c.log))
	c.stats = history.NewStats()
	c.handlerFactory = factory.NewHandlerFactory(c.log, factoryOpts...)
	c.rulesFactory = factory.NewRulesFactory(c.log)

	return c
}

// Initialize registers the built-in handlers, then the project rule
// handlers. Safe to call more than once; every call after the first is a
// no-op. A built-in or explicitly configured rule that fails to construct
// makes initialization fail.
func (c *Controller) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.initializeLocked()
}

func (c *Controller) initializeLocked() error {
	if c.initialized {
		return nil
	}

	builtins, err := c.handlerFactory.CreateBuiltins(c.cfg)
	if err != nil {
		return errors.Wrap(err, "failed to create built-in handlers")
	}

	for _, hw := range builtins {
		for _, eventType := range hw.Events {
			if err := c.router.Register(eventType, hw.Handler); err != nil {
				return errors.Wrapf(err, "failed to register %s handler", hw.Handler.Name())
			}
		}
	}

	project, err := c.rulesFactory.CreateProjectHandlers(c.cfg, c.workDir)
	if err != nil {
		return errors.Wrap(err, "failed to create project handlers")
	}

	registered := 0

	for _, hw := range project {
		for _, eventType := range hw.Events {
			if c.registerProject(eventType, hw.Handler) {
				registered++
			}
		}
	}

	c.initialized = true

	c.log.Info("controller initialized",
		"builtin_handlers", len(builtins),
		"project_handlers", registered,
	)

	return nil
}

// registerProject adds one project handler to one chain, enforcing the
// registration rules: a name collision with an already-registered handler
// rejects the project handler; a priority collision is allowed but warned
// about since execution order within a priority is registration order.
func (c *Controller) registerProject(eventType hook.EventType, h handler.Handler) bool {
	chain := c.router.Chain(eventType)
	if chain == nil {
		c.log.Error("project handler targets unroutable event, skipping",
			"handler", h.Name(),
			"event", eventType.String(),
		)

		return false
	}

	if chain.Find(h.Name()) != nil {
		c.log.Error("project handler name collides with a registered handler, skipping",
			"handler", h.Name(),
			"event", eventType.String(),
		)

		return false
	}

	for _, existing := range chain.Handlers() {
		if existing.Priority() == h.Priority() {
			c.log.Warn("project handler shares a priority with a registered handler",
				"handler", h.Name(),
				"existing", existing.Name(),
				"priority", h.Priority(),
				"event", eventType.String(),
			)

			break
		}
	}

	if err := c.router.Register(eventType, h); err != nil {
		c.log.Error("failed to register project handler",
			"handler", h.Name(),
			"event", eventType.String(),
			"error", err,
		)

		return false
	}

	return true
}

func (c *Controller) ensureInitialized() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.initializeLocked()
}

// ProcessEvent dispatches one event through its chain, recording one
// history entry per executed handler and one stats sample for the
// request. Initializes the controller on first use.
func (c *Controller) ProcessEvent(ctx context.Context, event *hook.Event) (*dispatcher.ChainResult, error) {
	if err := c.ensureInitialized(); err != nil {
		return nil, err
	}

	chainResult := c.router.Route(ctx, event.Type, event.Input)

	var tool string
	if event.Input != nil {
		tool = event.Input.ToolName
	}

	for _, execution := range chainResult.Executions {
		c.history.Record(history.Record{
			Handler:  execution.Handler,
			Event:    event.Type,
			Decision: execution.Decision,
			Tool:     tool,
			Reason:   execution.Reason,
		})
	}

	c.stats.RecordRequest(event.Type, chainResult.ExecutionTimeMS)

	return chainResult, nil
}

// SetShutdownFunc installs the callback invoked when a shutdown command
// arrives over the socket. The server installs its stop trigger here
// before serving begins.
func (c *Controller) SetShutdownFunc(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.shutdown = fn
}

// StatsSnapshot returns the current request counters.
func (c *Controller) StatsSnapshot() history.Snapshot {
	return c.stats.Snapshot()
}

// RecentRecords returns the n most recent decision records, newest first.
func (c *Controller) RecentRecords(n int) []history.Record {
	return c.history.Recent(n)
}

// HandlerCounts returns the number of registered handlers per event type
// name.
func (c *Controller) HandlerCounts() map[string]int {
	counts := c.router.HandlerCount()

	out := make(map[string]int, len(counts))
	for eventType, n := range counts {
		out[eventType.String()] = n
	}

	return out
}

// AllHandlers returns the registered handlers grouped per event type, in
// execution order.
func (c *Controller) AllHandlers() map[hook.EventType][]handler.Handler {
	return c.router.AllHandlers()
}
