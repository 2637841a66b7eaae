// Package main provides the CLI entry point for hookd.
package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/hookd/pkg/client"
)

var recentCount int

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show recent handler decisions",
	Long: `Show the most recent handler decisions from the running daemon's
in-memory history, newest first. The history is bounded and lives only
as long as the daemon process.`,
	RunE: runRecent,
}

func init() {
	rootCmd.AddCommand(recentCmd)

	recentCmd.Flags().IntVarP(
		&recentCount,
		"count",
		"n",
		0,
		"Number of records to show (default: daemon default)",
	)
}

func runRecent(cmd *cobra.Command, _ []string) error {
	log := cliLogger()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	cli, err := daemonClient(cfg)
	if err != nil {
		return err
	}

	records, err := cli.Recent(cmd.Context(), recentCount)
	if err != nil {
		// A structured reply means the daemon is up and rejected the
		// request; only a transport failure means it is not running.
		var serverErr *client.ServerError
		if errors.As(err, &serverErr) {
			return err
		}

		fmt.Println("hookd is not running")
		fmt.Println("")
		fmt.Println("Start it with: hookd start")

		return nil
	}

	if len(records) == 0 {
		fmt.Println("No decisions recorded yet.")

		return nil
	}

	rows := make([][]string, 0, len(records))

	for _, record := range records {
		rows = append(rows, []string{
			humanize.Time(record.Timestamp),
			record.Handler,
			record.Event,
			record.Decision,
			record.Tool,
			record.Reason,
		})
	}

	fmt.Println(renderTable(
		[]string{"When", "Handler", "Event", "Decision", "Tool", "Reason"},
		rows,
	))

	return nil
}
