// Package main provides the CLI entry point for hookd.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/hookd/internal/controller"
	"github.com/smykla-skalski/hookd/internal/hookresponse"
	"github.com/smykla-skalski/hookd/pkg/hook"
)

var runEvent string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Dispatch one event without the daemon",
	Long: `Dispatch a single hook event in-process and print the formatted
response on stdout. The hook input JSON is read from stdin.

This is the path a hook integration uses when it invokes hookd directly
instead of talking to a running daemon:

  echo '{"tool_name":"Bash","tool_input":{"command":"ls"}}' | hookd run --event PreToolUse`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(
		&runEvent,
		"event",
		"e",
		hook.EventTypePreToolUse.String(),
		"Event type (PreToolUse, PostToolUse, PermissionRequest, ...)",
	)
}

func runRun(cmd *cobra.Command, _ []string) error {
	log := cliLogger()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	eventType, err := hook.ParseEventType(runEvent)
	if err != nil {
		return err
	}

	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return errors.Wrap(err, "failed to read hook input")
	}

	// No input means nothing to decide about; stay silent and allow.
	if len(strings.TrimSpace(string(raw))) == 0 {
		fmt.Println("{}")

		return nil
	}

	input, err := hook.ParseInput(raw)
	if err != nil {
		return errors.Wrap(err, "failed to parse hook input")
	}

	ctrl := controller.New(cfg,
		controller.WithLogger(log),
		controller.WithVersion(version),
	)

	chainResult, err := ctrl.ProcessEvent(cmd.Context(), &hook.Event{
		Type:  eventType,
		Input: input,
	})
	if err != nil {
		return err
	}

	response := hookresponse.Format(chainResult.Result, eventType)

	data, err := json.Marshal(response)
	if err != nil {
		return errors.Wrap(err, "failed to marshal response")
	}

	fmt.Printf("%s\n", data)

	return nil
}
