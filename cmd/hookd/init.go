// Package main provides the CLI entry point for hookd.
package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	internalconfig "github.com/smykla-skalski/hookd/internal/config"
)

var (
	initGlobal bool
	initForce  bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize hookd configuration",
	Long: `Initialize a hookd configuration file with the defaults written out.

By default, creates a project-local configuration file (.hookd/hookd.toml).
Use --global or -g to create the global configuration file instead
(~/.config/hookd/hookd.toml, or $XDG_CONFIG_HOME/hookd/hookd.toml).

Use --force to overwrite an existing configuration file.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVarP(
		&initGlobal,
		"global",
		"g",
		false,
		"Initialize global configuration",
	)

	initCmd.Flags().BoolVarP(
		&initForce,
		"force",
		"f",
		false,
		"Overwrite existing configuration file",
	)
}

func runInit(_ *cobra.Command, _ []string) error {
	writer := internalconfig.NewWriter()

	var (
		targetPath string
		exists     bool
	)

	if initGlobal {
		targetPath = writer.GlobalConfigPath()
		exists = writer.IsGlobalConfigExists()
	} else {
		targetPath = writer.ProjectConfigPath()
		exists = writer.IsProjectConfigExists()
	}

	if exists && !initForce {
		return errors.Newf(
			"configuration file already exists: %s\nUse --force to overwrite",
			targetPath,
		)
	}

	cfg := internalconfig.DefaultConfig()

	if initGlobal {
		if err := writer.WriteGlobal(cfg); err != nil {
			return errors.Wrap(err, "failed to write global configuration")
		}
	} else {
		if err := writer.WriteProject(cfg); err != nil {
			return errors.Wrap(err, "failed to write project configuration")
		}
	}

	fmt.Printf("Configuration written to: %s\n", targetPath)
	fmt.Println("")
	fmt.Println("Next steps:")
	fmt.Println("  hookd handlers   # see what the defaults register")
	fmt.Println("  hookd start      # start the dispatch daemon")

	return nil
}
