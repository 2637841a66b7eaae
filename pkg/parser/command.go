package parser

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Location represents position in source code.
type Location struct {
	Line   uint
	Column uint
}

// Command represents a parsed command with metadata.
type Command struct {
	Name     string   // Command name (e.g., "git")
	Args     []string // Command arguments
	Location Location // Position in source
}

// String returns a string representation of the command.
func (c *Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}

	return fmt.Sprintf("%s %s", c.Name, strings.Join(c.Args, " "))
}

// Pipeline represents a sequence of commands connected by pipes, in source
// order. Only simple-command stages are included; subshell stages are
// skipped.
type Pipeline struct {
	Commands []Command // Pipe stages, left to right
	Location Location  // Position of the pipeline in source
}

// Final returns the last stage of the pipeline, the command that consumes
// the piped output. Returns nil for an empty pipeline.
func (p *Pipeline) Final() *Command {
	if len(p.Commands) == 0 {
		return nil
	}

	return &p.Commands[len(p.Commands)-1]
}

// wordToString converts syntax.Word to string, handling quotes and expansions.
func wordToString(word *syntax.Word) string {
	if word == nil {
		return ""
	}

	var result strings.Builder

	for _, part := range word.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			result.WriteString(p.Value)
		case *syntax.SglQuoted:
			result.WriteString(p.Value)
		case *syntax.DblQuoted:
			for _, dqPart := range p.Parts {
				switch dqp := dqPart.(type) {
				case *syntax.Lit:
					result.WriteString(dqp.Value)
				case *syntax.CmdSubst:
					// Handle command substitution (e.g., "$(cat <<'EOF' ... EOF)")
					if heredoc := extractHeredocFromCmdSubst(dqp); heredoc != "" {
						result.WriteString(heredoc)
					}
				}
			}
		case *syntax.CmdSubst:
			// Handle unquoted command substitution
			if heredoc := extractHeredocFromCmdSubst(p); heredoc != "" {
				result.WriteString(heredoc)
			}
		}
	}

	return result.String()
}

// extractHeredocFromCmdSubst extracts heredoc content from command substitution.
// It looks for patterns like "$(cat <<'EOF' ... EOF)" or "$(cat <<EOF ... EOF)".
func extractHeredocFromCmdSubst(cmdSubst *syntax.CmdSubst) string {
	if cmdSubst == nil || len(cmdSubst.Stmts) == 0 {
		return ""
	}

	for _, stmt := range cmdSubst.Stmts {
		if stmt.Redirs == nil {
			continue
		}

		for _, redir := range stmt.Redirs {
			if redir.Op == syntax.Hdoc || redir.Op == syntax.DashHdoc {
				if redir.Hdoc != nil {
					return wordToString(redir.Hdoc)
				}
			}
		}
	}

	return ""
}

// wordsToStrings converts a slice of syntax.Word to string slice.
func wordsToStrings(words []*syntax.Word) []string {
	result := make([]string, 0, len(words))

	for _, word := range words {
		if s := wordToString(word); s != "" {
			result = append(result, s)
		}
	}

	return result
}
