// Package daemon serves the dispatch socket: one Unix listener, one
// connection goroutine per client, newline-delimited JSON lines handed to
// the controller, an idle watchdog, and a bounded graceful shutdown.
package daemon

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hookd/internal/xdg"
)

// PidFileMode keeps the PID file private to the owning user.
const PidFileMode = 0o600

// writePidFile records the current process id, creating the parent
// directory if needed.
func writePidFile(path string) error {
	if err := xdg.EnsureDir(filepath.Dir(path)); err != nil {
		return errors.Wrap(err, "failed to create pid file directory")
	}

	data := []byte(strconv.Itoa(os.Getpid()) + "\n")

	if err := os.WriteFile(path, data, PidFileMode); err != nil {
		return errors.Wrapf(err, "failed to write pid file %s", path)
	}

	return nil
}

// ReadPidFile returns the process id recorded at path.
func ReadPidFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to read pid file %s", path)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, errors.Wrapf(err, "pid file %s is not a number", path)
	}

	return pid, nil
}

// ProcessAlive reports whether a process with the given pid exists. Uses
// the null signal, so it never disturbs the target.
func ProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	return process.Signal(syscall.Signal(0)) == nil
}
