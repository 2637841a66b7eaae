package rules_test

import (
	"context"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/hookd/internal/handler"
	"github.com/smykla-skalski/hookd/internal/rules"
	"github.com/smykla-skalski/hookd/pkg/config"
	"github.com/smykla-skalski/hookd/pkg/hook"
	"github.com/smykla-skalski/hookd/pkg/logger"
)

var _ = Describe("Compile", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	compile := func(cfg *config.RuleConfig) *rules.RuleHandler {
		h, err := rules.Compile(cfg, logger.NewNoOpLogger())
		Expect(err).NotTo(HaveOccurred())

		return h
	}

	It("requires a rule name", func() {
		_, err := rules.Compile(&config.RuleConfig{}, logger.NewNoOpLogger())
		Expect(errors.Is(err, rules.ErrInvalidRule)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("name is required"))
	})

	It("rejects an unknown event name", func() {
		cfg := &config.RuleConfig{Name: "r", Events: []string{"NotAnEvent"}}

		_, err := rules.Compile(cfg, logger.NewNoOpLogger())
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring(`rule "r"`))
	})

	It("rejects an unknown decision", func() {
		cfg := &config.RuleConfig{
			Name:   "r",
			Action: &config.RuleActionConfig{Decision: "explode"},
		}

		_, err := rules.Compile(cfg, logger.NewNoOpLogger())
		Expect(errors.Is(err, rules.ErrInvalidRule)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring(`unknown decision "explode"`))
	})

	It("rejects an invalid match pattern", func() {
		cfg := &config.RuleConfig{
			Name:  "r",
			Match: &config.RuleMatchConfig{Commands: []string{"["}},
		}

		_, err := rules.Compile(cfg, logger.NewNoOpLogger())
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring(`rule "r"`))
	})

	It("carries the rule identity into the handler", func() {
		h := compile(&config.RuleConfig{
			Name:     "no-prod-deploys",
			Priority: 70,
			Terminal: true,
			Tags:     []string{"deploy", "security"},
		})

		Expect(h.Name()).To(Equal("no-prod-deploys"))
		Expect(h.Priority()).To(Equal(70))
		Expect(h.Terminal()).To(BeTrue())
		Expect(h.Tags()).To(ContainElements("deploy", "security"))
	})

	It("defaults the priority to run after the built-ins", func() {
		h := compile(&config.RuleConfig{Name: "r"})
		Expect(h.Priority()).To(Equal(config.DefaultRulePriority))
	})

	Describe("Events", func() {
		It("registers for every routable event by default", func() {
			h := compile(&config.RuleConfig{Name: "r"})
			Expect(h.Events()).To(Equal(hook.RoutableEventTypes()))
		})

		It("parses event names in any accepted form", func() {
			h := compile(&config.RuleConfig{
				Name:   "r",
				Events: []string{"PreToolUse", "user_prompt_submit"},
			})

			Expect(h.Events()).To(Equal([]hook.EventType{
				hook.EventTypePreToolUse,
				hook.EventTypeUserPromptSubmit,
			}))
		})
	})

	Describe("Matches", func() {
		It("matches everything without a match section", func() {
			h := compile(&config.RuleConfig{Name: "r"})
			Expect(h.Matches(&hook.Input{})).To(BeTrue())
			Expect(h.Matches(&hook.Input{ToolName: "Bash"})).To(BeTrue())
		})

		It("applies the compiled conditions", func() {
			h := compile(&config.RuleConfig{
				Name:  "r",
				Match: &config.RuleMatchConfig{Tools: []string{"Write"}},
			})

			Expect(h.Matches(&hook.Input{ToolName: "Write"})).To(BeTrue())
			Expect(h.Matches(&hook.Input{ToolName: "Bash"})).To(BeFalse())
		})
	})

	Describe("Handle", func() {
		It("produces the configured deny with context and guidance", func() {
			h := compile(&config.RuleConfig{
				Name: "no-prod-deploys",
				Action: &config.RuleActionConfig{
					Decision: "deny",
					Reason:   "production deploys go through CI",
					Context:  []string{"See the release runbook."},
					Guidance: "Push the branch and let the pipeline deploy it.",
				},
			})

			res := h.Handle(ctx, &hook.Input{})
			Expect(res.Decision).To(Equal(handler.DecisionDeny))
			Expect(res.Reason).To(Equal("production deploys go through CI"))
			Expect(res.Context).To(ContainElement("See the release runbook."))
			Expect(res.Guidance).To(Equal("Push the branch and let the pipeline deploy it."))
		})

		It("defaults to deny with a named reason", func() {
			h := compile(&config.RuleConfig{Name: "quiet-rule"})

			res := h.Handle(ctx, &hook.Input{})
			Expect(res.Decision).To(Equal(handler.DecisionDeny))
			Expect(res.Reason).To(Equal(`blocked by rule "quiet-rule"`))
		})

		It("produces ask decisions", func() {
			h := compile(&config.RuleConfig{
				Name:   "r",
				Action: &config.RuleActionConfig{Decision: "ask"},
			})

			res := h.Handle(ctx, &hook.Input{})
			Expect(res.Decision).To(Equal(handler.DecisionAsk))
			Expect(res.Reason).To(Equal(`rule "r" requires approval`))
		})

		It("produces allow decisions with context", func() {
			h := compile(&config.RuleConfig{
				Name: "r",
				Action: &config.RuleActionConfig{
					Decision: "allow",
					Context:  []string{"proceed"},
				},
			})

			res := h.Handle(ctx, &hook.Input{})
			Expect(res.Decision).To(Equal(handler.DecisionAllow))
			Expect(res.Reason).To(BeEmpty())
			Expect(res.Context).To(ContainElement("proceed"))
		})

		It("produces continue decisions", func() {
			h := compile(&config.RuleConfig{
				Name:   "r",
				Action: &config.RuleActionConfig{Decision: "continue"},
			})

			res := h.Handle(ctx, &hook.Input{})
			Expect(res.Decision).To(Equal(handler.DecisionContinue))
		})

		It("accepts decisions in any case", func() {
			h := compile(&config.RuleConfig{
				Name:   "r",
				Action: &config.RuleActionConfig{Decision: "Ask"},
			})

			res := h.Handle(ctx, &hook.Input{})
			Expect(res.Decision).To(Equal(handler.DecisionAsk))
		})
	})
})
