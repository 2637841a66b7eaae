package bash

import (
	"fmt"
	"strings"

	"github.com/smykla-skalski/hookd/internal/handler"
	"github.com/smykla-skalski/hookd/pkg/parser"
)

// checkForcePush denies force-pushes aimed at protected branches. The target
// branch comes from the refspec when one is given, otherwise from the
// repository's current branch.
func (h *BashHandler) checkForcePush(result *parser.ParseResult) *handler.Result {
	for _, cmd := range result.Commands {
		eff := effectiveCommand(cmd)
		if eff.Name != "git" {
			continue
		}

		rest, ok := pushArgs(eff.Args)
		if !ok {
			continue
		}

		flags, positional := splitFlags(rest)

		force := flags["f"] || flags["force"]
		branch := ""

		if len(positional) >= 2 { //nolint:mnd // Remote plus refspec
			refspec := positional[1]

			if strings.HasPrefix(refspec, "+") {
				// +refspec is the refspec spelling of --force.
				force = true
				refspec = refspec[1:]
			}

			if idx := strings.Index(refspec, ":"); idx >= 0 {
				refspec = refspec[idx+1:]
			}

			branch = refspec
		}

		if !force || flags["force-with-lease"] {
			continue
		}

		if branch == "" {
			current, err := h.git.CurrentBranch()
			if err != nil {
				h.Logger().Debug("cannot resolve current branch, skipping force-push check", "error", err)

				continue
			}

			branch = current
		}

		if h.protectedBranches[branch] {
			return handler.DenyWithGuidance(
				fmt.Sprintf("force-push to protected branch %q", branch),
				"Use --force-with-lease on a feature branch, or open a pull request instead.",
			)
		}
	}

	return nil
}

// pushArgs returns the arguments after the push subcommand, skipping git's
// global flags. Returns false when the command is not a push.
func pushArgs(args []string) ([]string, bool) {
	i := 0
	for i < len(args) {
		arg := args[i]

		switch {
		case arg == "-C" || arg == "-c":
			// Global flags that consume a value argument.
			i += 2
		case strings.HasPrefix(arg, "-"):
			i++
		default:
			if arg == "push" {
				return args[i+1:], true
			}

			return nil, false
		}
	}

	return nil, false
}
