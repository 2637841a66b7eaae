// Package main provides the CLI entry point for hookd.
package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for hookd.

To load completions:

Bash:

  $ source <(hookd completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ hookd completion bash > /etc/bash_completion.d/hookd
  # macOS:
  $ hookd completion bash > $(brew --prefix)/etc/bash_completion.d/hookd

Zsh:

  # If shell completion is not already enabled in your environment,
  # you will need to enable it.  You can execute the following once:

  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ hookd completion zsh > "${fpath[1]}/_hookd"

  # You will need to start a new shell for this setup to take effect.

Fish:

  $ hookd completion fish | source

  # To load completions for each session, execute once:
  $ hookd completion fish > ~/.config/fish/completions/hookd.fish

PowerShell:

  PS> hookd completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> hookd completion powershell > hookd.ps1
  # and source this file from your PowerShell profile.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE:                  runCompletion,
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

func runCompletion(_ *cobra.Command, args []string) error {
	var err error

	switch args[0] {
	case "bash":
		err = rootCmd.GenBashCompletion(os.Stdout)
	case "zsh":
		err = rootCmd.GenZshCompletion(os.Stdout)
	case "fish":
		err = rootCmd.GenFishCompletion(os.Stdout, true)
	case "powershell":
		err = rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
	}

	if err != nil {
		return errors.Wrap(err, "failed to generate completion script")
	}

	return nil
}
