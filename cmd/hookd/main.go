// Package main provides the CLI entry point for hookd.
package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	internalconfig "github.com/smykla-skalski/hookd/internal/config"
	"github.com/smykla-skalski/hookd/internal/xdg"
	"github.com/smykla-skalski/hookd/pkg/client"
	"github.com/smykla-skalski/hookd/pkg/config"
	"github.com/smykla-skalski/hookd/pkg/logger"
)

var (
	configPath  string
	socketFlag  string
	debugMode   bool
	traceMode   bool
	logFileFlag string
)

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return 1
	}

	return 0
}

var rootCmd = &cobra.Command{
	Use:   "hookd",
	Short: "Policy-enforcement dispatch daemon for agent hooks",
	Long: `hookd sits between an AI coding agent and the operating system. Every
tool invocation the agent attempts is submitted as an event over a Unix
socket; hookd answers allow, deny, or ask based on built-in policy
handlers and per-project rules.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		checkVersionFlag()
	},
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configPath,
		"config",
		"c",
		"",
		"Path to project configuration file (default: .hookd/hookd.toml or hookd.toml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&socketFlag,
		"socket",
		"",
		"Unix socket path (default: from configuration)",
	)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&traceMode, "trace", false, "Enable trace logging")
	rootCmd.PersistentFlags().StringVar(
		&logFileFlag,
		"log-file",
		"",
		"Log file path (default: stderr in the foreground, state dir when daemonized)",
	)
}

// loadConfig loads the merged configuration, folding in whichever global
// flags the user set.
func loadConfig(log logger.Logger) (*config.Config, error) {
	loader, err := internalconfig.NewKoanfLoader(log)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create config loader")
	}

	if configPath != "" {
		loader.SetConfigFile(configPath)
	}

	cfg, err := loader.Load(buildFlagsMap())
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	return cfg, nil
}

// buildFlagsMap converts set CLI flags to a map for the config provider.
func buildFlagsMap() map[string]any {
	flags := make(map[string]any)

	if socketFlag != "" {
		flags["socket"] = socketFlag
	}

	if debugMode {
		flags["debug"] = true
	}

	if traceMode {
		flags["trace"] = true
	}

	if logFileFlag != "" {
		flags["log-file"] = logFileFlag
	}

	return flags
}

// cliLogger returns the logger for short-lived CLI commands: stderr, with
// verbosity from the global flags. Config warnings stay visible without a
// log file in the way.
func cliLogger() logger.Logger {
	return logger.NewFileLoggerWithWriter(os.Stderr, debugMode, traceMode)
}

// buildLogger returns the logger for long-running serve processes. An
// explicit log file wins; otherwise foreground serving logs to stderr.
func buildLogger(cfg *config.Config) (logger.Logger, error) {
	logging := cfg.GetLogging()

	path := logging.GetFile()
	if path == "" {
		return logger.NewFileLoggerWithWriter(
			os.Stderr,
			logging.IsDebugEnabled(),
			logging.IsTraceEnabled(),
		), nil
	}

	expanded, err := xdg.ExpandPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve log file path")
	}

	log, err := logger.NewFileLogger(expanded, logging.IsDebugEnabled(), logging.IsTraceEnabled())
	if err != nil {
		return nil, errors.Wrap(err, "failed to create logger")
	}

	return log, nil
}

// resolveSocketPath returns the expanded socket path from flags and config.
func resolveSocketPath(cfg *config.Config) (string, error) {
	path, err := xdg.ExpandPath(cfg.GetDaemon().GetSocket())
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve socket path")
	}

	return path, nil
}

// resolvePidPath returns the expanded PID file path from config.
func resolvePidPath(cfg *config.Config) (string, error) {
	path, err := xdg.ExpandPath(cfg.GetDaemon().GetPidFile())
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve pid file path")
	}

	return path, nil
}

// daemonClient returns a client for the configured socket.
func daemonClient(cfg *config.Config) (*client.Client, error) {
	socketPath, err := resolveSocketPath(cfg)
	if err != nil {
		return nil, err
	}

	return client.New(socketPath), nil
}
