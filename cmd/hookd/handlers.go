// Package main provides the CLI entry point for hookd.
package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smykla-skalski/hookd/internal/controller"
)

var handlersCmd = &cobra.Command{
	Use:   "handlers",
	Short: "List registered handlers",
	Long: `List every handler the current configuration registers, per event
type in execution order. This initializes a fresh controller from the
configuration on disk; it does not require a running daemon.`,
	RunE: runHandlers,
}

func init() {
	rootCmd.AddCommand(handlersCmd)
}

func runHandlers(_ *cobra.Command, _ []string) error {
	log := cliLogger()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	ctrl := controller.New(cfg,
		controller.WithLogger(log),
		controller.WithVersion(version),
	)

	if err := ctrl.Initialize(); err != nil {
		return err
	}

	all := ctrl.AllHandlers()
	if len(all) == 0 {
		fmt.Println("No handlers registered.")

		return nil
	}

	rows := make([][]string, 0, len(all))

	for eventType, handlers := range all {
		event := eventType.String()

		for _, h := range handlers {
			terminal := ""
			if h.Terminal() {
				terminal = "yes"
			}

			rows = append(rows, []string{
				event,
				h.Name(),
				strconv.Itoa(h.Priority()),
				terminal,
				strings.Join(h.Tags(), ", "),
			})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i][0] != rows[j][0] {
			return rows[i][0] < rows[j][0]
		}

		pi, _ := strconv.Atoi(rows[i][2])
		pj, _ := strconv.Atoi(rows[j][2])

		if pi != pj {
			return pi < pj
		}

		return rows[i][1] < rows[j][1]
	})

	fmt.Println(renderTable([]string{"Event", "Handler", "Priority", "Terminal", "Tags"}, rows))

	return nil
}
