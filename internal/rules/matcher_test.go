package rules_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/hookd/internal/rules"
	"github.com/smykla-skalski/hookd/pkg/config"
	"github.com/smykla-skalski/hookd/pkg/hook"
)

var _ = Describe("BuildMatcher", func() {
	build := func(match *config.RuleMatchConfig) rules.Matcher {
		matcher, err := rules.BuildMatcher(match)
		Expect(err).NotTo(HaveOccurred())

		return matcher
	}

	It("returns nil for a nil match section", func() {
		Expect(build(nil)).To(BeNil())
	})

	It("returns nil when no conditions are set", func() {
		Expect(build(&config.RuleMatchConfig{})).To(BeNil())
	})

	It("matches tool names against any pattern", func() {
		m := build(&config.RuleMatchConfig{Tools: []string{"Bash", "mcp__*"}})

		Expect(m.Match(&hook.Input{ToolName: "Bash"})).To(BeTrue())
		Expect(m.Match(&hook.Input{ToolName: "mcp__db__query"})).To(BeTrue())
		Expect(m.Match(&hook.Input{ToolName: "Write"})).To(BeFalse())
		Expect(m.Match(&hook.Input{})).To(BeFalse())
	})

	It("matches commands with glob patterns", func() {
		m := build(&config.RuleMatchConfig{Commands: []string{"git push*"}})

		input := &hook.Input{
			ToolName:  "Bash",
			ToolInput: hook.ToolInput{Command: "git push --force"},
		}
		Expect(m.Match(input)).To(BeTrue())

		input.ToolInput.Command = "git status"
		Expect(m.Match(input)).To(BeFalse())
	})

	It("matches commands with auto-detected regex patterns", func() {
		m := build(&config.RuleMatchConfig{Commands: []string{`^terraform\s+(apply|destroy)`}})

		input := &hook.Input{
			ToolName:  "Bash",
			ToolInput: hook.ToolInput{Command: "terraform apply -auto-approve"},
		}
		Expect(m.Match(input)).To(BeTrue())

		input.ToolInput.Command = "terraform plan"
		Expect(m.Match(input)).To(BeFalse())
	})

	It("matches file paths across directories", func() {
		m := build(&config.RuleMatchConfig{Paths: []string{"**.sql"}})

		write := &hook.Input{
			ToolName:  "Write",
			ToolInput: hook.ToolInput{FilePath: "migrations/0001_init.sql"},
		}
		Expect(m.Match(write)).To(BeTrue())

		write.ToolInput.FilePath = "main.go"
		Expect(m.Match(write)).To(BeFalse())
	})

	It("matches prompt text", func() {
		m := build(&config.RuleMatchConfig{Prompts: []string{"*production*"}})

		Expect(m.Match(&hook.Input{Prompt: "deploy this to production now"})).To(BeTrue())
		Expect(m.Match(&hook.Input{Prompt: "run the tests"})).To(BeFalse())
	})

	It("honors negated patterns", func() {
		m := build(&config.RuleMatchConfig{Commands: []string{"!git*"}})

		input := &hook.Input{
			ToolName:  "Bash",
			ToolInput: hook.ToolInput{Command: "make deploy"},
		}
		Expect(m.Match(input)).To(BeTrue())

		input.ToolInput.Command = "git push"
		Expect(m.Match(input)).To(BeFalse())
	})

	It("matches case-insensitively when asked", func() {
		insensitive := true
		m := build(&config.RuleMatchConfig{
			Tools:           []string{"bash"},
			CaseInsensitive: &insensitive,
		})

		Expect(m.Match(&hook.Input{ToolName: "Bash"})).To(BeTrue())
	})

	It("requires every condition group to match", func() {
		m := build(&config.RuleMatchConfig{
			Tools:    []string{"Bash"},
			Commands: []string{"git push*"},
		})

		input := &hook.Input{
			ToolName:  "Bash",
			ToolInput: hook.ToolInput{Command: "git push origin main"},
		}
		Expect(m.Match(input)).To(BeTrue())

		input.ToolInput.Command = "ls"
		Expect(m.Match(input)).To(BeFalse())
	})

	It("propagates pattern compile errors", func() {
		_, err := rules.BuildMatcher(&config.RuleMatchConfig{Commands: []string{"["}})
		Expect(err).To(HaveOccurred())
	})
})
