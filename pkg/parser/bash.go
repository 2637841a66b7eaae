// Package parser provides Bash command parsing built on mvdan.cc/sh. It
// extracts the commands a command line would run, the pipelines connecting
// them, and the file writes they would perform, without executing anything.
package parser

import (
	"strings"

	"github.com/cockroachdb/errors"
	"mvdan.cc/sh/v3/syntax"
)

var (
	// ErrEmptyCommand is returned when trying to parse an empty command.
	ErrEmptyCommand = errors.New("empty command")
	// ErrParseFailed is returned when parsing fails.
	ErrParseFailed = errors.New("failed to parse command")
)

// ParseResult contains everything extracted from a parsed Bash command.
type ParseResult struct {
	Commands   []Command   // All commands found, in source order
	Pipelines  []Pipeline  // Pipe sequences (commands also appear in Commands)
	FileWrites []FileWrite // All file write operations
}

// HasCommand checks if a command with the given name exists in the result.
func (r *ParseResult) HasCommand(name string) bool {
	for _, cmd := range r.Commands {
		if cmd.Name == name {
			return true
		}
	}

	return false
}

// GetCommands returns all commands with the given name.
func (r *ParseResult) GetCommands(name string) []Command {
	result := make([]Command, 0)

	for _, cmd := range r.Commands {
		if cmd.Name == name {
			result = append(result, cmd)
		}
	}

	return result
}

// BashParser parses Bash commands using mvdan.cc/sh.
type BashParser struct {
	parser *syntax.Parser
}

// NewBashParser creates a new BashParser instance.
func NewBashParser() *BashParser {
	return &BashParser{
		parser: syntax.NewParser(),
	}
}

// Parse parses a Bash command string and extracts all commands, pipelines,
// and file write operations.
func (p *BashParser) Parse(command string) (*ParseResult, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, ErrEmptyCommand
	}

	file, err := p.parser.Parse(strings.NewReader(command), "")
	if err != nil {
		return nil, errors.Wrap(ErrParseFailed, err.Error())
	}

	walker := newASTWalker()
	syntax.Walk(file, walker.visit)

	return &ParseResult{
		Commands:   walker.commands,
		Pipelines:  walker.pipelines,
		FileWrites: walker.fileWrites,
	}, nil
}
