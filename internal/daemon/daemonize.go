// Package daemon serves the dispatch socket: one Unix listener, one
// connection goroutine per client, newline-delimited JSON lines handed to
// the controller, an idle watchdog, and a bounded graceful shutdown.
package daemon

import (
	"os"
	"os/exec"
	"syscall"

	"github.com/cockroachdb/errors"
)

// Daemonize re-executes the current binary with the given arguments in a
// new session, detached from the terminal and the parent's stdio. Returns
// the child pid. The child is responsible for its own logging and PID
// file.
func Daemonize(args ...string) (int, error) {
	exe, err := os.Executable()
	if err != nil {
		return 0, errors.Wrap(err, "failed to resolve executable path")
	}

	cmd := exec.Command(exe, args...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return 0, errors.Wrap(err, "failed to start daemon process")
	}

	pid := cmd.Process.Pid

	// The child belongs to its own session now; releasing avoids holding
	// a handle the parent will never wait on.
	if err := cmd.Process.Release(); err != nil {
		return pid, errors.Wrap(err, "failed to release daemon process")
	}

	return pid, nil
}
