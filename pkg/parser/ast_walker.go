package parser

import (
	"mvdan.cc/sh/v3/syntax"
)

// astWalker walks the AST and extracts commands, pipelines, and file
// operations.
type astWalker struct {
	commands   []Command
	pipelines  []Pipeline
	fileWrites []FileWrite

	// consumedPipes tracks pipe nodes already folded into an enclosing
	// pipeline, so nested BinaryCmd visits don't emit partial pipelines.
	consumedPipes map[*syntax.BinaryCmd]bool
}

func newASTWalker() *astWalker {
	return &astWalker{
		commands:      make([]Command, 0),
		pipelines:     make([]Pipeline, 0),
		fileWrites:    make([]FileWrite, 0),
		consumedPipes: make(map[*syntax.BinaryCmd]bool),
	}
}

// visit is called for each node in the AST.
func (w *astWalker) visit(node syntax.Node) bool {
	switch n := node.(type) {
	case *syntax.CallExpr:
		w.extractCommand(n)
	case *syntax.BinaryCmd:
		if isPipeOp(n.Op) {
			w.extractPipeline(n)
		}
	case *syntax.Stmt:
		w.extractRedirect(n)
	}

	return true
}

func isPipeOp(op syntax.BinCmdOperator) bool {
	return op == syntax.Pipe || op == syntax.PipeAll
}

// commandFromCall builds a Command from a CallExpr node. Returns false when
// the call has no resolvable name (e.g., bare assignments).
func commandFromCall(call *syntax.CallExpr) (Command, bool) {
	if len(call.Args) == 0 {
		return Command{}, false
	}

	name := wordToString(call.Args[0])
	if name == "" {
		return Command{}, false
	}

	return Command{
		Name: name,
		Args: wordsToStrings(call.Args[1:]),
		Location: Location{
			Line:   call.Pos().Line(),
			Column: call.Pos().Col(),
		},
	}, true
}

// extractCommand extracts a command from a CallExpr node.
func (w *astWalker) extractCommand(call *syntax.CallExpr) {
	cmd, ok := commandFromCall(call)
	if !ok {
		return
	}

	w.commands = append(w.commands, cmd)

	// Check if this is a file write command
	w.extractFileWriteCommand(cmd)
}

// extractPipeline flattens a pipe sequence into a single Pipeline. The AST
// nests multi-stage pipes as binary nodes; recursing through X before Y
// yields source order regardless of nesting direction.
func (w *astWalker) extractPipeline(bin *syntax.BinaryCmd) {
	if w.consumedPipes[bin] {
		return
	}

	stages := make([]Command, 0)

	var collect func(stmt *syntax.Stmt)
	collect = func(stmt *syntax.Stmt) {
		if stmt == nil || stmt.Cmd == nil {
			return
		}

		switch cmd := stmt.Cmd.(type) {
		case *syntax.BinaryCmd:
			if isPipeOp(cmd.Op) {
				w.consumedPipes[cmd] = true
				collect(cmd.X)
				collect(cmd.Y)

				return
			}
		case *syntax.CallExpr:
			if c, ok := commandFromCall(cmd); ok {
				stages = append(stages, c)
			}
		}
	}

	collect(bin.X)
	collect(bin.Y)

	if len(stages) < 2 {
		return
	}

	w.pipelines = append(w.pipelines, Pipeline{
		Commands: stages,
		Location: Location{
			Line:   bin.Pos().Line(),
			Column: bin.Pos().Col(),
		},
	})
}

// extractRedirect extracts file write operations from redirections.
func (w *astWalker) extractRedirect(stmt *syntax.Stmt) {
	if stmt.Redirs == nil {
		return
	}

	// First pass: collect output redirections and heredocs separately
	var outputPath string

	var outputOp WriteOp

	var outputLoc Location

	var heredocContent string

	var heredocLoc Location

	hasOutput := false
	hasHeredoc := false

	for _, redir := range stmt.Redirs {
		if redir.Op == syntax.RdrOut || redir.Op == syntax.AppOut {
			path := wordToString(redir.Word)
			if path == "" {
				continue
			}

			outputPath = path

			outputOp = WriteOpRedirect
			if redir.Op == syntax.AppOut {
				outputOp = WriteOpAppend
			}

			outputLoc = Location{
				Line:   redir.Pos().Line(),
				Column: redir.Pos().Col(),
			}
			hasOutput = true
		}

		if redir.Op == syntax.Hdoc || redir.Op == syntax.DashHdoc {
			// Hdoc may be empty; an empty heredoc is still a heredoc
			if redir.Hdoc != nil {
				heredocContent = wordToString(redir.Hdoc)
			}

			heredocLoc = Location{
				Line:   redir.Pos().Line(),
				Column: redir.Pos().Col(),
			}
			hasHeredoc = true
		}
	}

	// Second pass: create FileWrite entries. An output redirection combined
	// with a heredoc is a single heredoc write.
	if hasOutput && hasHeredoc {
		fw := FileWrite{
			Path:      outputPath,
			Operation: WriteOpHeredoc,
			Content:   heredocContent,
			Location:  heredocLoc,
		}
		w.fileWrites = append(w.fileWrites, fw)
	} else if hasOutput {
		fw := FileWrite{
			Path:      outputPath,
			Operation: outputOp,
			Location:  outputLoc,
		}
		w.fileWrites = append(w.fileWrites, fw)
	}
	// A heredoc without output redirection just feeds stdin of a command
	// and writes nothing.
}

// extractFileWriteCommand detects file write commands (tee, cp, mv).
func (w *astWalker) extractFileWriteCommand(cmd Command) {
	op, targets := getFileWriteOperation(cmd)
	if op == WriteOpNone {
		return
	}

	for _, target := range targets {
		fw := FileWrite{
			Path:      target,
			Operation: op,
			Source:    cmd.Name,
			Location:  cmd.Location,
		}

		w.fileWrites = append(w.fileWrites, fw)
	}
}

// getFileWriteOperation determines if a command writes to files.
func getFileWriteOperation(cmd Command) (WriteOp, []string) {
	switch cmd.Name {
	case "tee":
		// tee writes to all file arguments
		return WriteOpTee, extractTeeTargets(cmd.Args)

	case "cp", "copy":
		// cp writes to the last argument
		if len(cmd.Args) >= 2 { //nolint:mnd // Trivial check for minimum args (source + dest)
			return WriteOpCopy, []string{cmd.Args[len(cmd.Args)-1]}
		}

	case "mv", "move":
		// mv writes to the last argument
		if len(cmd.Args) >= 2 { //nolint:mnd // Trivial check for minimum args (source + dest)
			return WriteOpMove, []string{cmd.Args[len(cmd.Args)-1]}
		}
	}

	return WriteOpNone, nil
}

// extractTeeTargets extracts file targets from tee command arguments.
func extractTeeTargets(args []string) []string {
	targets := make([]string, 0)

	// Skip flags (starting with -)
	for _, arg := range args {
		if len(arg) > 0 && arg[0] != '-' {
			targets = append(targets, arg)
		}
	}

	return targets
}
