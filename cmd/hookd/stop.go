// Package main provides the CLI entry point for hookd.
package main

import (
	"context"
	"fmt"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/hookd/pkg/config"
)

const (
	// stopTimeout bounds how long stop waits for the daemon to exit.
	stopTimeout = 10 * time.Second

	// stopPollInterval paces the liveness probe while waiting.
	stopPollInterval = 100 * time.Millisecond
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running dispatch daemon",
	Long: `Stop the running dispatch daemon gracefully.

The shutdown command is sent over the socket so in-flight requests get
their responses. When the socket is unreachable but the PID file names a
live process, SIGTERM is sent instead. Stopping a daemon that is not
running is a no-op.`,
	RunE: runStop,
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, _ []string) error {
	log := cliLogger()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	stopped, err := stopDaemon(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if !stopped {
		fmt.Println("hookd is not running")

		return nil
	}

	fmt.Println("hookd stopped")

	return nil
}

// stopDaemon asks the daemon to shut down and waits for it to exit.
// Returns false when no daemon was running.
func stopDaemon(ctx context.Context, cfg *config.Config) (bool, error) {
	cli, err := daemonClient(cfg)
	if err != nil {
		return false, err
	}

	if shutdownErr := cli.Shutdown(ctx); shutdownErr == nil {
		return true, waitForExit(ctx, cfg)
	}

	// Socket unreachable. Fall back to the PID file: a live process gets
	// SIGTERM, anything else means there is nothing to stop.
	pid, running := daemonRunning(cfg)
	if !running {
		return false, nil
	}

	if killErr := syscall.Kill(pid, syscall.SIGTERM); killErr != nil {
		return false, errors.Wrapf(killErr, "failed to signal daemon process %d", pid)
	}

	return true, waitForExit(ctx, cfg)
}

// waitForExit polls until the daemon stops answering and its recorded
// process is gone.
func waitForExit(ctx context.Context, cfg *config.Config) error {
	cli, err := daemonClient(cfg)
	if err != nil {
		return err
	}

	deadline := time.Now().Add(stopTimeout)

	for time.Now().Before(deadline) {
		_, pingErr := cli.Ping(ctx)
		_, running := daemonRunning(cfg)

		if pingErr != nil && !running {
			return nil
		}

		time.Sleep(stopPollInterval)
	}

	return errors.New("timed out waiting for the daemon to stop")
}
