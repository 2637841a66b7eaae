// Package permission implements the auto-approval handler for permission
// request events. Tools that cannot change anything are approved without
// bothering the user; everything else is asked.
package permission

import (
	"context"

	"github.com/smykla-skalski/hookd/internal/handler"
	"github.com/smykla-skalski/hookd/pkg/config"
	"github.com/smykla-skalski/hookd/pkg/hook"
	"github.com/smykla-skalski/hookd/pkg/logger"
)

const (
	// Name is the handler identity and its key under handlers.overrides.
	Name = "permission"

	// DefaultPriority is the execution rank among permission handlers.
	DefaultPriority = 10
)

// defaultReadOnlyTools are tools approved without asking. Overriding the
// list in config replaces it entirely.
var defaultReadOnlyTools = []string{
	"Read",
	"Grep",
	"Glob",
	"WebFetch",
	"WebSearch",
}

// DefaultReadOnlyTools returns a copy of the built-in read-only tool list.
func DefaultReadOnlyTools() []string {
	tools := make([]string, len(defaultReadOnlyTools))
	copy(tools, defaultReadOnlyTools)

	return tools
}

// PermissionHandler answers permission requests: read-only tools are
// allowed outright, the rest stay an ask for the user.
type PermissionHandler struct {
	handler.Base

	config *config.PermissionHandlerConfig

	readOnlyTools map[string]bool
}

// NewPermissionHandler creates a PermissionHandler.
func NewPermissionHandler(
	log logger.Logger,
	cfg *config.PermissionHandlerConfig,
) *PermissionHandler {
	h := &PermissionHandler{
		Base:          handler.NewBase(Name, DefaultPriority, log),
		config:        cfg,
		readOnlyTools: make(map[string]bool),
	}
	h.SetTags("permission")

	tools := cfg.GetReadOnlyTools()
	if len(tools) == 0 {
		tools = defaultReadOnlyTools
	}

	for _, tool := range tools {
		h.readOnlyTools[tool] = true
	}

	return h
}

// Matches reports interest in requests that name a tool.
func (h *PermissionHandler) Matches(input *hook.Input) bool {
	return input.ToolName != ""
}

// Handle approves read-only tools and defers everything else to the user.
// The approval carries a context line so the outcome is visible rather
// than a silent allow.
func (h *PermissionHandler) Handle(_ context.Context, input *hook.Input) *handler.Result {
	tool := input.ToolName

	var res *handler.Result
	if h.readOnlyTools[tool] {
		res = handler.Allow().AddContext("Auto-approved read-only tool: " + tool)
	} else {
		res = handler.Askf("%s requires approval", tool)
	}

	h.LogDecision(res)

	return res
}
