// Package main provides the CLI entry point for hookd.
package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/hookd/pkg/client"
)

// durationDisplayUnits limits uptime rendering to the two largest units.
const durationDisplayUnits = 2

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Long: `Show the running daemon's status: version, uptime, request counters,
and registered handlers per event type.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	log := cliLogger()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	socketPath, err := resolveSocketPath(cfg)
	if err != nil {
		return err
	}

	cli, err := daemonClient(cfg)
	if err != nil {
		return err
	}

	if _, err := cli.Ping(cmd.Context()); err != nil {
		fmt.Println("hookd is not running")
		fmt.Printf("socket: %s\n", socketPath)
		fmt.Println("")
		fmt.Println("Start it with: hookd start")

		return nil
	}

	info, err := cli.Status(cmd.Context())
	if err != nil {
		return err
	}

	pid, _ := daemonRunning(cfg)

	displayStatus(info, socketPath, pid)

	return nil
}

func displayStatus(info *client.StatusInfo, socketPath string, pid int) {
	stats := info.Stats

	fmt.Println("hookd daemon")
	fmt.Println("============")
	fmt.Println("")
	fmt.Println("Status:        running")
	fmt.Printf("Version:       %s\n", info.Version)

	if skew := versionSkew(info.Version); skew != "" {
		fmt.Printf("               %s\n", skew)
	}

	if pid > 0 {
		fmt.Printf("PID:           %d\n", pid)
	}

	fmt.Printf("Socket:        %s\n", socketPath)
	fmt.Printf("Uptime:        %s\n", formatUptime(stats.UptimeSeconds))
	fmt.Printf("Requests:      %d (%d errors)\n", stats.RequestsProcessed, stats.Errors)
	fmt.Printf("Last request:  %s\n", formatLastRequest(stats.LastRequestTime))
	fmt.Println("")

	table := eventTable(info.Handlers, stats.RequestsByEvent)
	if table != "" {
		fmt.Println(table)
	}
}

// versionSkew returns a warning when the daemon binary predates or
// postdates the CLI binary. Non-semver builds ("dev") are skipped.
func versionSkew(daemonVersion string) string {
	daemonVer, err := semver.NewVersion(strings.TrimPrefix(daemonVersion, "v"))
	if err != nil {
		return ""
	}

	cliVer, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return ""
	}

	if daemonVer.Equal(cliVer) {
		return ""
	}

	return fmt.Sprintf(
		"warning: CLI version is %s; restart the daemon to match",
		version,
	)
}

func formatUptime(uptimeSeconds float64) string {
	uptime := time.Duration(uptimeSeconds * float64(time.Second))
	if uptime <= 0 {
		return "0 seconds"
	}

	return durafmt.Parse(uptime.Round(time.Second)).LimitFirstN(durationDisplayUnits).String()
}

func formatLastRequest(last *time.Time) string {
	if last == nil || last.IsZero() {
		return "never"
	}

	return humanize.Time(*last)
}

// eventTable renders one row per event type that has registered handlers
// or recorded requests.
func eventTable(handlers, requests map[string]int) string {
	events := make([]string, 0, len(handlers))

	for event := range handlers {
		events = append(events, event)
	}

	for event := range requests {
		if !slices.Contains(events, event) {
			events = append(events, event)
		}
	}

	if len(events) == 0 {
		return ""
	}

	slices.Sort(events)

	rows := make([][]string, 0, len(events))

	for _, event := range events {
		rows = append(rows, []string{
			event,
			strconv.Itoa(handlers[event]),
			strconv.Itoa(requests[event]),
		})
	}

	return renderTable([]string{"Event", "Handlers", "Requests"}, rows)
}
