package config_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/hookd/pkg/config"
)

// Tests are run as part of Config Suite from config_test.go.

var _ = Describe("RulesConfig", func() {
	Describe("IsEnabled", func() {
		It("should return true when Enabled is nil", func() {
			cfg := &config.RulesConfig{}
			Expect(cfg.IsEnabled()).To(BeTrue())
		})

		It("should return true for a nil config", func() {
			var cfg *config.RulesConfig
			Expect(cfg.IsEnabled()).To(BeTrue())
		})

		It("should return false when disabled", func() {
			enabled := false
			cfg := &config.RulesConfig{Enabled: &enabled}
			Expect(cfg.IsEnabled()).To(BeFalse())
		})
	})

	Describe("GetRulesFile", func() {
		It("should return the default when empty", func() {
			cfg := &config.RulesConfig{}
			Expect(cfg.GetRulesFile()).To(Equal(config.DefaultRulesFile))
		})

		It("should return the configured path", func() {
			cfg := &config.RulesConfig{RulesFile: "policy/rules.yaml"}
			Expect(cfg.GetRulesFile()).To(Equal("policy/rules.yaml"))
		})
	})
})

var _ = Describe("RuleConfig", func() {
	Describe("IsRuleEnabled", func() {
		It("should return true when Enabled is nil", func() {
			rule := &config.RuleConfig{Name: "no-test-skips"}
			Expect(rule.IsRuleEnabled()).To(BeTrue())
		})

		It("should return false when disabled", func() {
			enabled := false
			rule := &config.RuleConfig{Name: "no-test-skips", Enabled: &enabled}
			Expect(rule.IsRuleEnabled()).To(BeFalse())
		})
	})

	Describe("GetPriority", func() {
		It("should default to running after the built-ins", func() {
			rule := &config.RuleConfig{}
			Expect(rule.GetPriority()).To(Equal(config.DefaultRulePriority))
		})

		It("should return the configured priority", func() {
			rule := &config.RuleConfig{Priority: 5}
			Expect(rule.GetPriority()).To(Equal(5))
		})
	})
})

var _ = Describe("RuleMatchConfig", func() {
	Describe("IsCaseInsensitive", func() {
		It("should return false when nil", func() {
			var match *config.RuleMatchConfig
			Expect(match.IsCaseInsensitive()).To(BeFalse())
		})

		It("should return true when enabled", func() {
			insensitive := true
			match := &config.RuleMatchConfig{CaseInsensitive: &insensitive}
			Expect(match.IsCaseInsensitive()).To(BeTrue())
		})
	})
})

var _ = Describe("RuleActionConfig", func() {
	Describe("GetDecision", func() {
		It("should default to deny", func() {
			var action *config.RuleActionConfig
			Expect(action.GetDecision()).To(Equal("deny"))
		})

		It("should default to deny when empty", func() {
			action := &config.RuleActionConfig{Reason: "not allowed"}
			Expect(action.GetDecision()).To(Equal("deny"))
		})

		It("should return the configured decision", func() {
			action := &config.RuleActionConfig{Decision: "ask"}
			Expect(action.GetDecision()).To(Equal("ask"))
		})
	})
})
