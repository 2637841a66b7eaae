// Package files implements the sensitive-path policy handler. It watches
// file-writing tools and shell commands that write files, and checks every
// target path against deny and ask glob lists.
package files

import (
	"context"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hookd/internal/handler"
	"github.com/smykla-skalski/hookd/pkg/config"
	"github.com/smykla-skalski/hookd/pkg/hook"
	"github.com/smykla-skalski/hookd/pkg/logger"
	"github.com/smykla-skalski/hookd/pkg/parser"
)

const (
	// Name is the handler identity and its key under handlers.overrides.
	Name = "files"

	// DefaultPriority runs the files handler first among the built-ins so
	// its path context is available to everything after it.
	DefaultPriority = 10
)

// ErrInvalidPattern is returned when a configured glob does not compile.
var ErrInvalidPattern = errors.New("invalid glob pattern")

// defaultDenyPatterns are paths no tool may write. Overriding the list in
// config replaces it entirely.
var defaultDenyPatterns = []string{
	"**/.env",
	"**/.env.*",
	"**/id_rsa",
	"**/id_dsa",
	"**/id_ecdsa",
	"**/id_ed25519",
	"**/*.pem",
	"**/.ssh/**",
	"**/.aws/credentials",
	"**/.kube/config",
	"**/.git/**",
}

// defaultAskPatterns are paths that need explicit user approval.
var defaultAskPatterns = []string{
	"**/secrets/**",
	"**/*.key",
	"**/.npmrc",
	"**/.pypirc",
	"**/.netrc",
	"**/credentials.json",
}

// DefaultDenyPatterns returns a copy of the built-in deny globs.
func DefaultDenyPatterns() []string {
	patterns := make([]string, len(defaultDenyPatterns))
	copy(patterns, defaultDenyPatterns)

	return patterns
}

// DefaultAskPatterns returns a copy of the built-in ask globs.
func DefaultAskPatterns() []string {
	patterns := make([]string, len(defaultAskPatterns))
	copy(patterns, defaultAskPatterns)

	return patterns
}

// FilesHandler denies or escalates writes to sensitive paths. It inspects
// file-tool paths directly and parses Bash commands for redirects, tee,
// cp, and mv targets.
type FilesHandler struct {
	handler.Base

	parser       *parser.BashParser
	denyPatterns []string
	askPatterns  []string
}

// NewFilesHandler creates a FilesHandler. Configured globs replace the
// built-in lists; an invalid glob is a construction error, since a pattern
// that never matches is a policy hole.
func NewFilesHandler(log logger.Logger, cfg *config.FilesHandlerConfig) (*FilesHandler, error) {
	deny := cfg.GetDenyPatterns()
	if len(deny) == 0 {
		deny = DefaultDenyPatterns()
	}

	ask := cfg.GetAskPatterns()
	if len(ask) == 0 {
		ask = DefaultAskPatterns()
	}

	for _, pattern := range deny {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Wrapf(ErrInvalidPattern, "deny pattern %q", pattern)
		}
	}

	for _, pattern := range ask {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Wrapf(ErrInvalidPattern, "ask pattern %q", pattern)
		}
	}

	h := &FilesHandler{
		Base:         handler.NewBase(Name, DefaultPriority, log),
		parser:       parser.NewBashParser(),
		denyPatterns: deny,
		askPatterns:  ask,
	}
	h.SetTags("files", "security")

	return h, nil
}

// Matches reports interest in file-writing tools and Bash commands.
func (h *FilesHandler) Matches(input *hook.Input) bool {
	if input.IsFileTool() {
		return true
	}

	return input.IsBashTool() && input.Command() != ""
}

// Handle checks every target path against the deny list, then the ask
// list. A deny on any path wins over an ask on another.
func (h *FilesHandler) Handle(_ context.Context, input *hook.Input) *handler.Result {
	paths := h.collectPaths(input)
	if len(paths) == 0 {
		return handler.Allow()
	}

	for _, target := range paths {
		if pattern, ok := matchAny(h.denyPatterns, target); ok {
			res := handler.DenyWithGuidance(
				"write to protected path "+target+" (matched "+pattern+")",
				"If this file must change, edit it yourself outside the agent.",
			)
			h.LogDecision(res)

			return res
		}
	}

	for _, target := range paths {
		if pattern, ok := matchAny(h.askPatterns, target); ok {
			res := handler.Askf("writing to %s requires approval (matched %s)", target, pattern)
			h.LogDecision(res)

			return res
		}
	}

	return handler.Allow()
}

// collectPaths gathers every path the invocation writes: the file-tool
// target, plus redirect, tee, cp, and mv targets parsed out of Bash
// commands.
func (h *FilesHandler) collectPaths(input *hook.Input) []string {
	var paths []string

	if input.IsFileTool() {
		if target := input.FilePath(); target != "" {
			paths = append(paths, target)
		}

		return paths
	}

	result, err := h.parser.Parse(input.Command())
	if err != nil {
		h.Logger().Debug("failed to parse command", "error", err)

		return nil
	}

	for _, write := range result.FileWrites {
		if write.Path != "" {
			paths = append(paths, write.Path)
		}
	}

	return paths
}

// matchAny reports the first pattern matching the normalized path.
func matchAny(patterns []string, target string) (string, bool) {
	normalized := path.Clean(filepath.ToSlash(target))

	for _, pattern := range patterns {
		// Patterns are validated at construction; Match cannot fail here.
		if ok, _ := doublestar.Match(pattern, normalized); ok {
			return pattern, true
		}
	}

	return "", false
}
