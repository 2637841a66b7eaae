// Package main provides the CLI entry point for hookd.
package main

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/hookd/internal/controller"
	"github.com/smykla-skalski/hookd/internal/daemon"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dispatch daemon in the foreground",
	Long: `Run the dispatch daemon in the foreground.

The daemon binds the configured Unix socket, writes its PID file, and
serves newline-delimited JSON requests until it is stopped, the process
receives SIGTERM/SIGINT, or the idle timeout expires. Use "hookd start"
to run it in the background instead.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	log := cliLogger()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	log, err = buildLogger(cfg)
	if err != nil {
		return err
	}

	ctrl := controller.New(cfg,
		controller.WithLogger(log),
		controller.WithVersion(version),
	)

	srv, err := daemon.NewServer(cfg.GetDaemon(), ctrl, daemon.WithLogger(log))
	if err != nil {
		return errors.Wrap(err, "failed to create daemon server")
	}

	if err := srv.Run(cmd.Context()); err != nil {
		if errors.Is(err, daemon.ErrAlreadyRunning) {
			return errors.Wrapf(err, "socket %s", srv.SocketPath())
		}

		return errors.Wrap(err, "daemon exited with error")
	}

	return nil
}
