package config

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/hookd/pkg/config"
)

var _ = Describe("Validator", func() {
	var validator *Validator

	BeforeEach(func() {
		validator = NewValidator()
	})

	Describe("Validate", func() {
		It("rejects a nil config", func() {
			err := validator.Validate(nil)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrInvalidConfig)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("config is nil"))
		})

		It("accepts the default config", func() {
			Expect(validator.Validate(DefaultConfig())).To(Succeed())
		})

		It("accepts an empty config", func() {
			Expect(validator.Validate(&config.Config{})).To(Succeed())
		})

		It("rejects an unknown version", func() {
			err := validator.Validate(&config.Config{Version: config.CurrentConfigVersion + 1})
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrInvalidConfig)).To(BeTrue())
		})

		It("counts every failure", func() {
			cfg := &config.Config{
				Version: -1,
				Daemon:  &config.DaemonConfig{MaxConnections: -1},
			}

			err := validator.Validate(cfg)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrInvalidConfig)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("validation failed with 2 error(s)"))
		})
	})

	Describe("validateDaemonConfig", func() {
		It("rejects a socket path over the sun_path limit", func() {
			cfg := &config.DaemonConfig{
				Socket: "/tmp/" + strings.Repeat("x", 120) + ".sock",
			}

			err := validator.validateDaemonConfig(cfg)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrInvalidValue)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("socket path exceeds 104 bytes"))
		})

		It("accepts the default tilde socket path", func() {
			cfg := &config.DaemonConfig{Socket: config.DefaultSocketPath}

			Expect(validator.validateDaemonConfig(cfg)).To(Succeed())
		})

		It("rejects negative durations by field name", func() {
			cfg := &config.DaemonConfig{
				IdlePollInterval: config.Duration(-time.Second),
			}

			err := validator.validateDaemonConfig(cfg)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrInvalidValue)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("idle_poll_interval must be non-negative"))
		})

		It("rejects negative max_connections", func() {
			cfg := &config.DaemonConfig{MaxConnections: -4}

			err := validator.validateDaemonConfig(cfg)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("max_connections must be non-negative, got -4"))
		})

		It("reports each bad field", func() {
			cfg := &config.DaemonConfig{
				IdleTimeout: config.Duration(-time.Minute),
				GracePeriod: config.Duration(-time.Second),
			}

			err := validator.validateDaemonConfig(cfg)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("idle_timeout"))
			Expect(err.Error()).To(ContainSubstring("grace_period"))
		})
	})

	Describe("validateHandlersConfig", func() {
		patterns := func(entries ...config.CustomPatternConfig) *config.HandlersConfig {
			return &config.HandlersConfig{
				Secrets: &config.SecretsHandlerConfig{CustomPatterns: entries},
			}
		}

		It("accepts a well-formed pattern", func() {
			cfg := patterns(config.CustomPatternConfig{
				Name:  "internal-token",
				Regex: `tok_[a-z0-9]{32}`,
			})

			Expect(validator.validateHandlersConfig(cfg)).To(Succeed())
		})

		It("requires a name", func() {
			err := validator.validateHandlersConfig(
				patterns(config.CustomPatternConfig{Regex: "x+"}),
			)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrEmptyValue)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("custom_patterns[0]"))
		})

		It("requires a regex", func() {
			err := validator.validateHandlersConfig(
				patterns(config.CustomPatternConfig{Name: "x"}),
			)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrEmptyValue)).To(BeTrue())
		})

		It("rejects a regex that does not compile", func() {
			err := validator.validateHandlersConfig(
				patterns(config.CustomPatternConfig{Name: "x", Regex: "["}),
			)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrInvalidOption)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("regex does not compile"))
		})

		It("indexes the failing pattern", func() {
			err := validator.validateHandlersConfig(patterns(
				config.CustomPatternConfig{Name: "ok", Regex: "x+"},
				config.CustomPatternConfig{Name: "bad", Regex: "["},
			))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("custom_patterns[1]"))
		})
	})

	Describe("validateRulesConfig", func() {
		rules := func(entries ...config.RuleConfig) *config.RulesConfig {
			return &config.RulesConfig{Rules: entries}
		}

		It("accepts a well-formed rule", func() {
			cfg := rules(config.RuleConfig{
				Name:   "no-force-push",
				Events: []string{"PreToolUse"},
				Action: &config.RuleActionConfig{Decision: "deny"},
			})

			Expect(validator.validateRulesConfig(cfg)).To(Succeed())
		})

		It("requires a rule name", func() {
			err := validator.validateRulesConfig(rules(config.RuleConfig{}))
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrEmptyValue)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("rules.rules[0].name"))
		})

		It("rejects duplicate rule names", func() {
			err := validator.validateRulesConfig(rules(
				config.RuleConfig{Name: "twice"},
				config.RuleConfig{Name: "twice"},
			))
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrDuplicateRule)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring(`rules.rules[1]: "twice"`))
		})

		It("rejects unknown event names", func() {
			err := validator.validateRulesConfig(rules(config.RuleConfig{
				Name:   "r",
				Events: []string{"NotAnEvent"},
			}))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("rules.rules[0].events"))
		})

		It("accepts snake_case event names", func() {
			cfg := rules(config.RuleConfig{
				Name:   "r",
				Events: []string{"pre_tool_use", "SessionStart"},
			})

			Expect(validator.validateRulesConfig(cfg)).To(Succeed())
		})

		It("rejects unknown decisions", func() {
			err := validator.validateRulesConfig(rules(config.RuleConfig{
				Name:   "r",
				Action: &config.RuleActionConfig{Decision: "explode"},
			}))
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrInvalidOption)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring(`action.decision: "explode"`))
		})

		It("accepts decisions in any case", func() {
			cfg := rules(config.RuleConfig{
				Name:   "r",
				Action: &config.RuleActionConfig{Decision: "Ask"},
			})

			Expect(validator.validateRulesConfig(cfg)).To(Succeed())
		})

		It("defaults a missing action to deny", func() {
			Expect(validator.validateRulesConfig(rules(config.RuleConfig{Name: "r"}))).
				To(Succeed())
		})
	})
})
