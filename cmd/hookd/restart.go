// Package main provides the CLI entry point for hookd.
package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/hookd/internal/daemon"
)

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the dispatch daemon",
	Long: `Stop the running dispatch daemon, then start a fresh one.

Restarting picks up configuration changes; the in-memory decision
history and request counters start over.`,
	RunE: runRestart,
}

func init() {
	rootCmd.AddCommand(restartCmd)
}

func runRestart(cmd *cobra.Command, _ []string) error {
	log := cliLogger()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	stopped, err := stopDaemon(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if stopped {
		fmt.Println("hookd stopped")
	}

	pid, err := daemon.Daemonize(daemonizeArgs(cfg)...)
	if err != nil {
		return errors.Wrap(err, "failed to start daemon")
	}

	if err := waitForDaemon(cmd.Context(), cfg); err != nil {
		return errors.Wrapf(err, "daemon process %d did not become ready", pid)
	}

	fmt.Printf("hookd started (pid %d)\n", pid)

	return nil
}
