// Package main provides the CLI entry point for hookd.
package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	internalconfig "github.com/smykla-skalski/hookd/internal/config"
	"github.com/smykla-skalski/hookd/internal/config/factory"
	"github.com/smykla-skalski/hookd/internal/xdg"
	"github.com/smykla-skalski/hookd/pkg/config"
	"github.com/smykla-skalski/hookd/pkg/logger"
)

// scopeGlobal is the display name for the global config scope.
const scopeGlobal = "global"

var overrideGlobal bool

var disableCmd = &cobra.Command{
	Use:   "disable HANDLER...",
	Short: "Disable a handler",
	Long: `Disable one or more handlers by name.

Targets can be built-in handlers (bash, files, secrets, permission,
prompt, session) or project rule names. The change is written to
handlers.overrides.<name>.enabled in the project configuration; a
running daemon picks it up on restart.

Examples:
  hookd disable bash
  hookd disable no-curl-pipe secrets
  hookd disable prompt --global`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDisable,
}

var enableCmd = &cobra.Command{
	Use:   "enable HANDLER...",
	Short: "Re-enable a handler",
	Long: `Re-enable one or more handlers by removing their override entry.

Examples:
  hookd enable bash
  hookd enable no-curl-pipe secrets --global`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEnable,
}

func init() {
	rootCmd.AddCommand(disableCmd)
	rootCmd.AddCommand(enableCmd)

	disableCmd.Flags().
		BoolVar(&overrideGlobal, "global", false, "Write to global config instead of project")
	enableCmd.Flags().
		BoolVar(&overrideGlobal, "global", false, "Remove from global config instead of project")
}

func runDisable(_ *cobra.Command, args []string) error {
	cfg, err := loadOverrideConfig(overrideGlobal)
	if err != nil {
		return err
	}

	warnUnknownTargets(cfg, args)

	if cfg.Handlers == nil {
		cfg.Handlers = &config.HandlersConfig{}
	}

	if cfg.Handlers.Overrides == nil {
		cfg.Handlers.Overrides = make(map[string]*config.HandlerOverride)
	}

	disabled := false

	for _, target := range args {
		override := cfg.Handlers.Overrides[target]
		if override == nil {
			override = &config.HandlerOverride{}
			cfg.Handlers.Overrides[target] = override
		}

		override.Enabled = &disabled

		fmt.Printf("%s disabled\n", target)
	}

	if err := writeOverrideConfig(cfg, overrideGlobal); err != nil {
		return err
	}

	fmt.Printf("\nWritten to %s config. Restart the daemon to apply.\n", scopeName(overrideGlobal))

	return nil
}

func runEnable(_ *cobra.Command, args []string) error {
	cfg, err := loadOverrideConfig(overrideGlobal)
	if err != nil {
		return err
	}

	if cfg.Handlers == nil || len(cfg.Handlers.Overrides) == 0 {
		return errors.New("no handler overrides configured")
	}

	removed := 0

	for _, target := range args {
		override, exists := cfg.Handlers.Overrides[target]
		if !exists {
			fmt.Fprintf(os.Stderr, "warning: no override found for %q\n", target)

			continue
		}

		// An override may also carry a priority; only drop the entry when
		// the enabled flag was all it held.
		if override.Priority == nil {
			delete(cfg.Handlers.Overrides, target)
		} else {
			override.Enabled = nil
		}

		removed++

		fmt.Printf("%s enabled\n", target)
	}

	if removed == 0 {
		return nil
	}

	if len(cfg.Handlers.Overrides) == 0 {
		cfg.Handlers.Overrides = nil
	}

	if err := writeOverrideConfig(cfg, overrideGlobal); err != nil {
		return err
	}

	fmt.Printf("\nWritten to %s config. Restart the daemon to apply.\n", scopeName(overrideGlobal))

	return nil
}

func scopeName(global bool) string {
	if global {
		return scopeGlobal
	}

	return "project"
}

// warnUnknownTargets points out names that match neither a built-in
// handler nor a configured rule. The override is still written; the name
// may belong to a rule configured elsewhere.
func warnUnknownTargets(cfg *config.Config, targets []string) {
	known := factory.BuiltinNames()

	for _, rule := range cfg.GetRules().Rules {
		if rule.Name != "" {
			known = append(known, rule.Name)
		}
	}

	for _, target := range targets {
		if !slices.Contains(known, target) {
			fmt.Fprintf(
				os.Stderr,
				"warning: %q is not a known built-in handler or configured rule\n",
				target,
			)
		}
	}
}

// loadOverrideConfig loads the config for one scope in isolation, without
// merging defaults or other sources, so writing it back does not bake
// merged values into the file.
func loadOverrideConfig(global bool) (*config.Config, error) {
	log := cliLogger()

	if global {
		return loadGlobalConfigOnly(log)
	}

	loader, err := internalconfig.NewKoanfLoader(log)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create config loader")
	}

	if configPath != "" {
		loader.SetConfigFile(configPath)
	}

	cfg, _, err := loader.LoadProjectConfigOnly()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load project config")
	}

	if cfg == nil {
		return &config.Config{Version: config.CurrentConfigVersion}, nil
	}

	if cfg.Version == 0 {
		cfg.Version = config.CurrentConfigVersion
	}

	return cfg, nil
}

// loadGlobalConfigOnly loads just the global config file. A loader rooted
// at the global config directory finds it through the same project-file
// lookup, keeping one code path for isolated loads.
func loadGlobalConfigOnly(log logger.Logger) (*config.Config, error) {
	globalPath := xdg.GlobalConfigFile()

	if _, err := os.Stat(globalPath); os.IsNotExist(err) {
		return &config.Config{Version: config.CurrentConfigVersion}, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get home directory")
	}

	loader := internalconfig.NewKoanfLoaderWithDirs(log, homeDir, xdg.ConfigDir())

	cfg, _, err := loader.LoadProjectConfigOnly()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load global config")
	}

	if cfg == nil {
		return &config.Config{Version: config.CurrentConfigVersion}, nil
	}

	if cfg.Version == 0 {
		cfg.Version = config.CurrentConfigVersion
	}

	return cfg, nil
}

// writeOverrideConfig writes the config back to the scope's file.
func writeOverrideConfig(cfg *config.Config, global bool) error {
	writer := internalconfig.NewWriter()

	if global {
		return errors.Wrap(writer.WriteGlobal(cfg), "failed to write global config")
	}

	return errors.Wrap(writer.WriteProject(cfg), "failed to write project config")
}
