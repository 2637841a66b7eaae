// Package bash implements the command policy handler for Bash tool events.
//
// Commands are parsed into an AST before any judgement: the handler never
// pattern-matches raw command strings, so quoting and nesting tricks that
// fool substring checks do not fool it. It denies catastrophic invocations
// (recursive force-removal of root paths, writes to raw block devices,
// piping downloads into an interpreter, force-pushes to protected branches,
// sudo) and allows everything else.
package bash

import (
	"context"
	"fmt"

	"github.com/smykla-skalski/hookd/internal/gitinfo"
	"github.com/smykla-skalski/hookd/internal/handler"
	"github.com/smykla-skalski/hookd/pkg/config"
	"github.com/smykla-skalski/hookd/pkg/hook"
	"github.com/smykla-skalski/hookd/pkg/logger"
	"github.com/smykla-skalski/hookd/pkg/parser"
)

const (
	// Name is the handler identity and its key under handlers.overrides.
	Name = "bash"

	// DefaultPriority runs the bash handler after the files and secrets
	// handlers, so their context merges before a terminal stop.
	DefaultPriority = 30
)

// BashHandler denies catastrophic shell commands on PreToolUse events.
// It is terminal: a denial from this handler ends the chain.
type BashHandler struct {
	handler.Base

	parser *parser.BashParser
	git    gitinfo.Resolver
	config *config.BashHandlerConfig

	protectedBranches map[string]bool
}

// NewBashHandler creates a BashHandler. A nil resolver disables the
// force-push check outside repositories rather than failing.
func NewBashHandler(
	log logger.Logger,
	cfg *config.BashHandlerConfig,
	git gitinfo.Resolver,
) *BashHandler {
	if git == nil {
		git = gitinfo.Detect(".")
	}

	h := &BashHandler{
		Base:              handler.NewTerminalBase(Name, DefaultPriority, log),
		parser:            parser.NewBashParser(),
		git:               git,
		config:            cfg,
		protectedBranches: make(map[string]bool),
	}
	h.SetTags("bash", "security")

	for _, branch := range cfg.GetProtectedBranches() {
		h.protectedBranches[branch] = true
	}

	return h
}

// Matches reports interest in Bash tool invocations that carry a command.
func (h *BashHandler) Matches(input *hook.Input) bool {
	return input.IsBashTool() && input.Command() != ""
}

// Handle parses the command and runs the policy checks in order of
// specificity. The first denial wins; an unparseable command is allowed,
// since the shell will reject it anyway.
func (h *BashHandler) Handle(_ context.Context, input *hook.Input) *handler.Result {
	log := h.Logger()

	result, err := h.parser.Parse(input.Command())
	if err != nil {
		log.Debug("failed to parse command", "error", err)

		return handler.Allow()
	}

	checks := []func(*parser.ParseResult) *handler.Result{
		h.checkDangerousRemove,
		h.checkBlockDeviceWrite,
		h.checkRemotePipes,
		h.checkForcePush,
		h.checkSudo,
	}

	for _, check := range checks {
		if res := check(result); res != nil {
			h.LogDecision(res)

			return res
		}
	}

	return handler.Allow()
}

// checkSudo denies any command that reaches for sudo. The agent runs with
// the user's own privileges on purpose.
func (h *BashHandler) checkSudo(result *parser.ParseResult) *handler.Result {
	if !h.config.IsDenySudoEnabled() {
		return nil
	}

	if !result.HasCommand("sudo") {
		return nil
	}

	return handler.DenyWithGuidance(
		"sudo is not allowed from the agent",
		"Run the command without sudo, or run the privileged step yourself in a terminal.",
	)
}

// checkRemotePipes denies pipelines that feed a downloader's output into a
// shell or interpreter, in any later stage of the same pipeline.
func (h *BashHandler) checkRemotePipes(result *parser.ParseResult) *handler.Result {
	if !h.config.IsDenyRemotePipesEnabled() {
		return nil
	}

	for i := range result.Pipelines {
		pipeline := &result.Pipelines[i]

		for j, stage := range pipeline.Commands {
			if !isDownloader(effectiveCommand(stage).Name) {
				continue
			}

			for _, later := range pipeline.Commands[j+1:] {
				target := effectiveCommand(later).Name
				if !isShellOrInterpreter(target) {
					continue
				}

				return handler.DenyWithGuidance(
					fmt.Sprintf(
						"%s output is piped into %s; remote scripts must not run unseen",
						stage.Name, target,
					),
					"Download the script to a file, review it, then run it.",
				)
			}
		}
	}

	return nil
}
