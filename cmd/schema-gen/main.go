// Command schema-gen writes the hookd config JSON Schema to docs/.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/smykla-skalski/hookd/internal/schema"
)

// schemaFilename is the published schema file name; the config writer's
// schema directive points at this file on the main branch.
const schemaFilename = "hookd.schema.json"

func main() {
	data, err := schema.GenerateJSON(true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	outDir := "docs"
	if len(os.Args) > 1 {
		outDir = os.Args[1]
	}

	outPath := filepath.Clean(filepath.Join(outDir, schemaFilename))

	const filePerms = 0o644

	//nolint:gosec // dev tool, outDir from CLI arg
	writeErr := os.WriteFile(outPath, data, filePerms)
	if writeErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", writeErr)
		os.Exit(1)
	}

	fmt.Println(outPath)
}
