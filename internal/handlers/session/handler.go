// Package session implements the session-start context handler.
package session

import (
	"context"

	"github.com/smykla-skalski/hookd/internal/gitinfo"
	"github.com/smykla-skalski/hookd/internal/handler"
	"github.com/smykla-skalski/hookd/pkg/config"
	"github.com/smykla-skalski/hookd/pkg/hook"
	"github.com/smykla-skalski/hookd/pkg/logger"
)

const (
	// Name is the handler identity and its key under handlers.overrides.
	Name = "session"

	// DefaultPriority is the execution rank among session handlers.
	DefaultPriority = 10
)

// SessionHandler injects project context lines when a session starts:
// repository facts when inside one, plus any configured extra lines.
type SessionHandler struct {
	handler.Base

	git    gitinfo.Resolver
	config *config.SessionHandlerConfig
}

// NewSessionHandler creates a SessionHandler. A nil resolver means git
// context is resolved from the current directory.
func NewSessionHandler(
	log logger.Logger,
	cfg *config.SessionHandlerConfig,
	git gitinfo.Resolver,
) *SessionHandler {
	if git == nil {
		git = gitinfo.Detect(".")
	}

	h := &SessionHandler{
		Base:   handler.NewBase(Name, DefaultPriority, log),
		git:    git,
		config: cfg,
	}
	h.SetTags("session")

	return h
}

// Matches reports interest in every session start.
func (h *SessionHandler) Matches(_ *hook.Input) bool {
	return true
}

// Handle allows the session and attaches whatever context it can gather.
// Lookups that fail are skipped rather than reported; a fresh session is
// not the place for plumbing errors.
func (h *SessionHandler) Handle(_ context.Context, _ *hook.Input) *handler.Result {
	var lines []string

	if h.config.IsGitInfoEnabled() {
		lines = append(lines, h.gitContext()...)
	}

	lines = append(lines, h.config.GetExtraContext()...)

	if len(lines) == 0 {
		return handler.Allow()
	}

	return handler.AllowWithContext(lines...)
}

// gitContext resolves repository facts, skipping any that fail.
func (h *SessionHandler) gitContext() []string {
	if !h.git.IsRepo() {
		return nil
	}

	var lines []string

	if root, err := h.git.Root(); err == nil {
		lines = append(lines, "Repository: "+root)
	}

	if branch, err := h.git.CurrentBranch(); err == nil {
		lines = append(lines, "Branch: "+branch)
	}

	if url, err := h.git.RemoteURL("origin"); err == nil {
		lines = append(lines, "Remote origin: "+url)
	}

	return lines
}
