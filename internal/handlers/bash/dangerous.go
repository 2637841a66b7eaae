package bash

import (
	"strings"

	"github.com/smykla-skalski/hookd/internal/handler"
	"github.com/smykla-skalski/hookd/pkg/parser"
)

// execWrappers are commands that run another command unchanged; policy
// checks look through them at the command that actually executes.
var execWrappers = map[string]bool{
	"sudo":    true,
	"env":     true,
	"nohup":   true,
	"command": true,
}

// systemDirs are directories whose recursive removal takes the machine
// down with it.
var systemDirs = map[string]bool{
	"/etc": true, "/usr": true, "/usr/bin": true, "/usr/lib": true,
	"/var": true, "/boot": true, "/sys": true, "/proc": true,
	"/lib": true, "/lib64": true, "/sbin": true, "/bin": true,
	"/opt": true, "/home": true, "/dev": true,
}

// checkDangerousRemove denies rm invocations that combine recursive and
// force flags with a root, home, or system-directory target. This check has
// no config knob.
func (h *BashHandler) checkDangerousRemove(result *parser.ParseResult) *handler.Result {
	for _, cmd := range result.Commands {
		eff := effectiveCommand(cmd)
		if eff.Name != "rm" {
			continue
		}

		flags, targets := splitFlags(eff.Args)

		recursive := flags["r"] || flags["R"] || flags["recursive"]
		force := flags["f"] || flags["force"]

		if !recursive || !force {
			continue
		}

		for _, target := range targets {
			switch {
			case isRootTarget(target):
				return handler.Denyf(
					"rm with recursive and force flags targets a root path: %s", target,
				)
			case isHomeTarget(target):
				return handler.Denyf(
					"rm with recursive and force flags targets the home directory: %s", target,
				)
			case isSystemPath(target):
				return handler.Denyf(
					"rm with recursive and force flags targets a system directory: %s", target,
				)
			}
		}
	}

	return nil
}

// checkBlockDeviceWrite denies dd invocations whose output file is a raw
// block device.
func (h *BashHandler) checkBlockDeviceWrite(result *parser.ParseResult) *handler.Result {
	for _, cmd := range result.Commands {
		eff := effectiveCommand(cmd)
		if eff.Name != "dd" {
			continue
		}

		for _, arg := range eff.Args {
			target, ok := strings.CutPrefix(arg, "of=")
			if !ok {
				continue
			}

			if isBlockDevice(target) {
				return handler.Denyf("dd writes to a raw block device: %s", target)
			}
		}
	}

	return nil
}

// effectiveCommand strips permission and environment wrappers so checks see
// the command that actually runs. `sudo env FOO=1 rm -rf /` resolves to
// `rm -rf /`.
func effectiveCommand(cmd parser.Command) parser.Command {
	name, args := cmd.Name, cmd.Args

	for execWrappers[name] {
		next, rest, ok := unwrapArgs(name, args)
		if !ok {
			break
		}

		name, args = next, rest
	}

	return parser.Command{Name: name, Args: args, Location: cmd.Location}
}

// unwrapArgs skips a wrapper's own flags and assignments and returns the
// wrapped command name with its arguments. Returns false when the wrapper
// has no command argument.
func unwrapArgs(wrapper string, args []string) (string, []string, bool) {
	i := 0
	for i < len(args) {
		arg := args[i]

		switch {
		case wrapper == "sudo" && (arg == "-u" || arg == "-g"):
			// These sudo flags consume a value argument.
			i += 2
		case wrapper == "env" && strings.Contains(arg, "="):
			// KEY=VALUE assignments belong to env.
			i++
		case strings.HasPrefix(arg, "-"):
			i++
		default:
			return arg, args[i+1:], true
		}
	}

	return "", nil, false
}

// splitFlags separates arguments into flags and positional targets. Short
// flag groups are split per character, so -rf yields both r and f. Long
// flags keep any =value suffix stripped.
func splitFlags(args []string) (map[string]bool, []string) {
	flags := make(map[string]bool)

	var positional []string

	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "--") && len(arg) > 2: //nolint:mnd // Length of the "--" prefix
			name := arg[2:]
			if idx := strings.Index(name, "="); idx >= 0 {
				name = name[:idx]
			}

			flags[name] = true
		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			for _, ch := range arg[1:] {
				flags[string(ch)] = true
			}
		default:
			positional = append(positional, arg)
		}
	}

	return flags, positional
}

func isRootTarget(path string) bool {
	cleaned := strings.TrimRight(path, "/")

	return cleaned == "" || path == "/*"
}

func isHomeTarget(path string) bool {
	cleaned := strings.TrimRight(path, "/")

	return cleaned == "~" || cleaned == "~/*"
}

func isSystemPath(path string) bool {
	cleaned := strings.TrimRight(path, "/")
	if systemDirs[cleaned] {
		return true
	}

	for dir := range systemDirs {
		if strings.HasPrefix(path, dir+"/") {
			return true
		}
	}

	return false
}

func isBlockDevice(path string) bool {
	for _, prefix := range []string{"/dev/sd", "/dev/hd", "/dev/nvme", "/dev/vd", "/dev/xvd", "/dev/disk"} {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}

var downloaders = map[string]bool{
	"curl":   true,
	"wget":   true,
	"fetch":  true,
	"aria2c": true,
}

var shellInterpreters = map[string]bool{
	"sh":   true,
	"bash": true,
	"zsh":  true,
	"dash": true,
	"ksh":  true,
	"fish": true,
	"csh":  true,
	"tcsh": true,
}

var codeInterpreters = map[string]bool{
	"python":  true,
	"python3": true,
	"python2": true,
	"node":    true,
	"ruby":    true,
	"perl":    true,
	"lua":     true,
	"php":     true,
}

func isDownloader(exe string) bool {
	return downloaders[exe]
}

func isShellOrInterpreter(exe string) bool {
	return shellInterpreters[exe] || codeInterpreters[exe]
}
