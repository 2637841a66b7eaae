// Package factory instantiates handlers from configuration.
package factory

import (
	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hookd/internal/gitinfo"
	"github.com/smykla-skalski/hookd/internal/handler"
	"github.com/smykla-skalski/hookd/internal/handlers/bash"
	"github.com/smykla-skalski/hookd/internal/handlers/files"
	"github.com/smykla-skalski/hookd/internal/handlers/permission"
	"github.com/smykla-skalski/hookd/internal/handlers/prompt"
	"github.com/smykla-skalski/hookd/internal/handlers/secrets"
	"github.com/smykla-skalski/hookd/internal/handlers/session"
	"github.com/smykla-skalski/hookd/pkg/config"
	"github.com/smykla-skalski/hookd/pkg/hook"
	"github.com/smykla-skalski/hookd/pkg/logger"
)

// HandlerWithEvents pairs a constructed handler with the event types it
// registers for.
type HandlerWithEvents struct {
	Handler handler.Handler
	Events  []hook.EventType
}

// HandlerFactory creates the built-in handlers from configuration. The
// built-ins are statically linked and listed here; project extensibility
// goes through declarative rules, not dynamic loading.
type HandlerFactory struct {
	log logger.Logger
	git gitinfo.Resolver
}

// Option configures a HandlerFactory.
type Option func(*HandlerFactory)

// WithGitResolver pins the git resolver the bash and session handlers
// consult. Tests use it to stay away from the real working tree.
func WithGitResolver(git gitinfo.Resolver) Option {
	return func(f *HandlerFactory) {
		f.git = git
	}
}

// NewHandlerFactory creates a new HandlerFactory.
func NewHandlerFactory(log logger.Logger, opts ...Option) *HandlerFactory {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	f := &HandlerFactory{log: log}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// builtinSpec declares one built-in handler: its identity, the events it
// serves, and how to construct it.
type builtinSpec struct {
	name   string
	events []hook.EventType
	create func() (handler.Handler, error)
}

// BuiltinNames returns the identities of every statically linked handler,
// registered or not. Tooling uses it to tell known handler names from typos.
func BuiltinNames() []string {
	return []string{
		bash.Name,
		files.Name,
		secrets.Name,
		permission.Name,
		prompt.Name,
		session.Name,
	}
}

// CreateBuiltins creates every enabled built-in handler with overrides and
// tag filters applied. A handler that fails to construct is fatal; policy
// that cannot start must not be silently skipped.
func (f *HandlerFactory) CreateBuiltins(cfg *config.Config) ([]HandlerWithEvents, error) {
	handlersCfg := cfg.GetHandlers()

	// One detector serves both content and prompt scanning, so the two
	// handlers always agree on what counts as a secret.
	detector := secrets.NewDefaultPatternDetector()

	builtins := []builtinSpec{
		{
			name:   bash.Name,
			events: []hook.EventType{hook.EventTypePreToolUse},
			create: func() (handler.Handler, error) {
				return bash.NewBashHandler(f.log, handlersCfg.Bash, f.git), nil
			},
		},
		{
			name:   files.Name,
			events: []hook.EventType{hook.EventTypePreToolUse},
			create: func() (handler.Handler, error) {
				return files.NewFilesHandler(f.log, handlersCfg.Files)
			},
		},
		{
			name:   secrets.Name,
			events: []hook.EventType{hook.EventTypePreToolUse},
			create: func() (handler.Handler, error) {
				return secrets.NewSecretsHandler(f.log, detector, handlersCfg.Secrets)
			},
		},
		{
			name:   permission.Name,
			events: []hook.EventType{hook.EventTypePermissionRequest},
			create: func() (handler.Handler, error) {
				return permission.NewPermissionHandler(f.log, handlersCfg.Permission), nil
			},
		},
		{
			name:   prompt.Name,
			events: []hook.EventType{hook.EventTypeUserPromptSubmit},
			create: func() (handler.Handler, error) {
				return prompt.NewPromptHandler(f.log, detector, handlersCfg.Prompt), nil
			},
		},
		{
			name:   session.Name,
			events: []hook.EventType{hook.EventTypeSessionStart},
			create: func() (handler.Handler, error) {
				return session.NewSessionHandler(f.log, handlersCfg.Session, f.git), nil
			},
		},
	}

	created := make([]HandlerWithEvents, 0, len(builtins))

	for _, spec := range builtins {
		override := handlersCfg.GetOverride(spec.name)
		if !override.IsEnabled() {
			f.log.Debug("handler disabled by override", "handler", spec.name)

			continue
		}

		h, err := spec.create()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create %s handler", spec.name)
		}

		if !tagsAllowed(handlersCfg, h.Tags()) {
			f.log.Debug("handler filtered by tags",
				"handler", spec.name,
				"tags", h.Tags(),
			)

			continue
		}

		applyPriorityOverride(h, override)

		created = append(created, HandlerWithEvents{Handler: h, Events: spec.events})
	}

	return created, nil
}
