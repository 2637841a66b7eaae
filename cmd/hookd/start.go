// Package main provides the CLI entry point for hookd.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/hookd/internal/daemon"
	"github.com/smykla-skalski/hookd/internal/xdg"
	"github.com/smykla-skalski/hookd/pkg/client"
	"github.com/smykla-skalski/hookd/pkg/config"
)

const (
	// startTimeout bounds how long start waits for the daemon to answer.
	startTimeout = 5 * time.Second

	// startPollInterval paces the readiness probe.
	startPollInterval = 100 * time.Millisecond
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the dispatch daemon in the background",
	Long: `Start the dispatch daemon as a detached background process.

The daemon re-execs "hookd serve" in its own session with logging
redirected to a file, then start waits until the socket answers a ping.
Starting an already-running daemon is a no-op.`,
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, _ []string) error {
	log := cliLogger()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	if pid, running := daemonRunning(cfg); running {
		fmt.Printf("hookd is already running (pid %d)\n", pid)

		return nil
	}

	pid, err := daemon.Daemonize(daemonizeArgs(cfg)...)
	if err != nil {
		return errors.Wrap(err, "failed to start daemon")
	}

	if err := waitForDaemon(cmd.Context(), cfg); err != nil {
		return errors.Wrapf(err, "daemon process %d did not become ready", pid)
	}

	socketPath, err := resolveSocketPath(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("hookd started (pid %d)\n", pid)
	fmt.Printf("socket: %s\n", socketPath)

	return nil
}

// daemonizeArgs builds the argument list for the detached serve process,
// forwarding the flags the user set. A detached process has no stderr, so
// when neither the flags nor the config name a log file, the state-dir
// default is passed explicitly.
func daemonizeArgs(cfg *config.Config) []string {
	args := []string{"serve"}

	if configPath != "" {
		args = append(args, "--config", configPath)
	}

	if socketFlag != "" {
		args = append(args, "--socket", socketFlag)
	}

	if debugMode {
		args = append(args, "--debug")
	}

	if traceMode {
		args = append(args, "--trace")
	}

	logFile := logFileFlag
	if logFile == "" && cfg.GetLogging().GetFile() == "" {
		logFile = xdg.LogFile()
	}

	if logFile != "" {
		args = append(args, "--log-file", logFile)
	}

	return args
}

// daemonRunning reports whether the configured PID file names a live
// process.
func daemonRunning(cfg *config.Config) (int, bool) {
	pidPath, err := resolvePidPath(cfg)
	if err != nil {
		return 0, false
	}

	pid, err := daemon.ReadPidFile(pidPath)
	if err != nil {
		return 0, false
	}

	return pid, daemon.ProcessAlive(pid)
}

// waitForDaemon polls the socket until the daemon answers a ping.
func waitForDaemon(ctx context.Context, cfg *config.Config) error {
	socketPath, err := resolveSocketPath(cfg)
	if err != nil {
		return err
	}

	cli := client.New(socketPath, client.WithDialTimeout(startPollInterval))
	deadline := time.Now().Add(startTimeout)

	var lastErr error

	for time.Now().Before(deadline) {
		if _, lastErr = cli.Ping(ctx); lastErr == nil {
			return nil
		}

		time.Sleep(startPollInterval)
	}

	return errors.Wrap(lastErr, "timed out waiting for the daemon socket")
}
