package factory

import (
	"github.com/smykla-skalski/hookd/internal/rules"
	"github.com/smykla-skalski/hookd/pkg/config"
	"github.com/smykla-skalski/hookd/pkg/logger"
)

// RulesFactory compiles declarative project rules into handlers.
type RulesFactory struct {
	log    logger.Logger
	loader *rules.Loader
}

// NewRulesFactory creates a new RulesFactory.
func NewRulesFactory(log logger.Logger) *RulesFactory {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &RulesFactory{
		log:    log,
		loader: rules.NewLoader(log),
	}
}

// CreateProjectHandlers compiles every enabled project rule into a handler,
// with the same override and tag filters the built-ins go through. baseDir
// anchors relative rule pack paths, usually the working directory.
//
// A rule that fails to compile is fatal: it was explicitly configured, and
// running with less policy than the project wrote down is worse than not
// starting.
func (f *RulesFactory) CreateProjectHandlers(
	cfg *config.Config,
	baseDir string,
) ([]HandlerWithEvents, error) {
	compiled, err := f.loader.Load(cfg.GetRules(), baseDir)
	if err != nil {
		return nil, err
	}

	handlersCfg := cfg.GetHandlers()
	created := make([]HandlerWithEvents, 0, len(compiled))

	for _, rh := range compiled {
		override := handlersCfg.GetOverride(rh.Name())
		if !override.IsEnabled() {
			f.log.Debug("project handler disabled by override", "handler", rh.Name())

			continue
		}

		if !tagsAllowed(handlersCfg, rh.Tags()) {
			f.log.Debug("project handler filtered by tags",
				"handler", rh.Name(),
				"tags", rh.Tags(),
			)

			continue
		}

		applyPriorityOverride(rh, override)

		created = append(created, HandlerWithEvents{Handler: rh, Events: rh.Events()})
	}

	return created, nil
}
