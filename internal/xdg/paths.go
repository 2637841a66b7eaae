// Package xdg provides centralized path management following XDG Base Directory conventions.
// All global/user-level paths hookd touches on disk are defined here.
// Project-local paths (.hookd/hookd.toml, .hookd/rules.yaml) remain in internal/config.
package xdg

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

const appName = "hookd"

func userHome() (string, error) {
	return os.UserHomeDir()
}

// --- XDG base directory functions ---

// ConfigHome returns $XDG_CONFIG_HOME or ~/.config.
func ConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}

	home, err := userHome()
	if err != nil {
		return filepath.Join("~", ".config")
	}

	return filepath.Join(home, ".config")
}

// StateHome returns $XDG_STATE_HOME or ~/.local/state.
func StateHome() string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return v
	}

	home, err := userHome()
	if err != nil {
		return filepath.Join("~", ".local", "state")
	}

	return filepath.Join(home, ".local", "state")
}

// --- hookd-specific directories ---

// ConfigDir returns ConfigHome()/hookd.
func ConfigDir() string {
	return filepath.Join(ConfigHome(), appName)
}

// StateDir returns StateHome()/hookd.
func StateDir() string {
	return filepath.Join(StateHome(), appName)
}

// RuntimeDir returns ~/.hookd, where the daemon keeps its socket and PID
// file. Runtime artifacts stay out of the XDG config tree so a config wipe
// never strands a running daemon.
func RuntimeDir() string {
	home, err := userHome()
	if err != nil {
		return filepath.Join("~", ".hookd")
	}

	return filepath.Join(home, ".hookd")
}

// --- Specific file paths ---

// GlobalConfigFile returns ConfigDir()/hookd.toml.
func GlobalConfigFile() string {
	return filepath.Join(ConfigDir(), "hookd.toml")
}

// LogFile returns the log file path.
// Respects HOOKD_LOG_FILE env var, otherwise StateDir()/hookd.log.
func LogFile() string {
	if v := os.Getenv("HOOKD_LOG_FILE"); v != "" {
		return v
	}

	return filepath.Join(StateDir(), "hookd.log")
}

// --- Utility functions ---

// ExpandPath resolves ~ prefix to the user's home directory.
// Returns the path unchanged if it doesn't start with ~.
// Returns error for invalid tilde usage like "~foo".
func ExpandPath(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	home, err := userHome()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}

	switch {
	case path == "~":
		return home, nil
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(home, path[2:]), nil
	default:
		return "", errors.Newf("paths starting with ~ must be either ~ or ~/subdir, got %q", path)
	}
}

// ExpandPathSilent resolves ~ prefix, returning the original path on error.
// Use this for cases where failing gracefully is preferred over returning an error.
func ExpandPathSilent(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}

	return expanded
}

// EnsureDir creates a directory with 0700 permissions if it doesn't exist,
// and fixes permissions on existing directories if they're too open.
func EnsureDir(path string) error {
	const dirMode = 0o700

	if err := os.MkdirAll(path, dirMode); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", path)
	}

	// MkdirAll only sets perms on new dirs. Fix existing ones if too open.
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "failed to stat directory %s", path)
	}

	if info.Mode().Perm() != dirMode {
		if err := os.Chmod(path, dirMode); err != nil {
			return errors.Wrapf(err, "failed to set permissions on %s", path)
		}
	}

	return nil
}
