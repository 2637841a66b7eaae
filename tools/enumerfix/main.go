// Package main rewrites enumer-generated files to report errors through
// cockroachdb/errors, matching the rest of the repository. Wired into the
// go:generate pipeline right after enumer runs.
package main

import (
	"bytes"
	"fmt"
	"os"
	"regexp"

	"github.com/cockroachdb/errors"
)

const errorsImport = `"github.com/cockroachdb/errors"`

// ErrUsage indicates the tool was invoked without a target file.
var ErrUsage = errors.New("usage: enumerfix <file>")

var (
	// errorfCall matches the generated fmt.Errorf call sites.
	errorfCall = regexp.MustCompile(`\bfmt\.Errorf\b`)

	// fmtRef matches any remaining use of the fmt package.
	fmtRef = regexp.MustCompile(`\bfmt\.[A-Za-z]`)

	// fmtImportLine matches the fmt import, as a block entry or a
	// single-line import declaration.
	fmtImportLine = regexp.MustCompile(`(import )?(\t?)"fmt"`)

	// importBlock matches a parenthesized import block.
	importBlock = regexp.MustCompile(`(?s)import \(\n(.*?)\n\)`)
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}

	path := args[1]

	//nolint:gosec // G304: the path comes from the go:generate directive
	src, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading file")
	}

	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrap(err, "inspecting file")
	}

	if err := os.WriteFile(path, rewrite(src), info.Mode().Perm()); err != nil {
		return errors.Wrap(err, "writing file")
	}

	return nil
}

// rewrite swaps fmt.Errorf for errors.Newf and reconciles the imports:
// when nothing else uses fmt its import becomes the errors import, and
// when fmt survives (Sprintf, Stringer) the errors import is added
// alongside it.
func rewrite(src []byte) []byte {
	out := errorfCall.ReplaceAll(src, []byte("errors.Newf"))

	if bytes.Contains(out, []byte(errorsImport)) {
		return out
	}

	if !fmtRef.Match(out) {
		return fmtImportLine.ReplaceAll(out, []byte("${1}${2}"+errorsImport))
	}

	return importBlock.ReplaceAllFunc(out, func(block []byte) []byte {
		// Copy before appending: the match aliases the source buffer.
		entry := []byte("\n\t" + errorsImport + "\n)")

		return append(append([]byte(nil), block[:len(block)-2]...), entry...)
	})
}
