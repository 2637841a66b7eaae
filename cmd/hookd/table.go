// Package main provides the CLI entry point for hookd.
package main

import (
	"bytes"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// renderTable renders rows with rounded borders, shared by the status,
// handlers, and recent commands.
func renderTable(headers []string, rows [][]string) string {
	var buf bytes.Buffer

	t := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleRounded),
		})),
		tablewriter.WithPadding(tw.Padding{Left: " ", Right: " "}),
	)

	t.Header(headers)

	for _, row := range rows {
		_ = t.Append(row)
	}

	_ = t.Render()

	return strings.TrimRight(buf.String(), "\n")
}
