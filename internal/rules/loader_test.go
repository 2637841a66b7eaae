package rules_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/hookd/internal/rules"
	"github.com/smykla-skalski/hookd/pkg/config"
)

var _ = Describe("Loader", func() {
	var (
		loader  *rules.Loader
		tempDir string
	)

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "hookd-rules-*")
		Expect(err).NotTo(HaveOccurred())

		loader = rules.NewLoader(nil)
	})

	AfterEach(func() {
		Expect(os.RemoveAll(tempDir)).To(Succeed())
	})

	writePack := func(path, content string) {
		full := filepath.Join(tempDir, path)
		Expect(os.MkdirAll(filepath.Dir(full), 0o755)).To(Succeed())
		Expect(os.WriteFile(full, []byte(content), 0o600)).To(Succeed())
	}

	It("compiles inline rules", func() {
		cfg := &config.RulesConfig{
			Rules: []config.RuleConfig{
				{Name: "first"},
				{Name: "second", Priority: 60},
			},
		}

		handlers, err := loader.Load(cfg, tempDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(handlers).To(HaveLen(2))
		Expect(handlers[0].Name()).To(Equal("first"))
		Expect(handlers[1].Name()).To(Equal("second"))
	})

	It("loads the rule pack relative to the project root", func() {
		writePack(".hookd/rules.yaml", `rules:
  - name: no-force-push
    match:
      commands:
        - "git push*--force*"
    action:
      decision: deny
      reason: force pushes rewrite shared history
`)

		handlers, err := loader.Load(&config.RulesConfig{}, tempDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(handlers).To(HaveLen(1))
		Expect(handlers[0].Name()).To(Equal("no-force-push"))
	})

	It("combines inline rules with the pack", func() {
		writePack(".hookd/rules.yaml", `rules:
  - name: from-pack
`)

		cfg := &config.RulesConfig{
			Rules: []config.RuleConfig{{Name: "from-inline"}},
		}

		handlers, err := loader.Load(cfg, tempDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(handlers).To(HaveLen(2))
		Expect(handlers[0].Name()).To(Equal("from-inline"))
		Expect(handlers[1].Name()).To(Equal("from-pack"))
	})

	It("honors a custom pack location", func() {
		writePack("policies/extra.yaml", `rules:
  - name: custom-location
`)

		cfg := &config.RulesConfig{RulesFile: "policies/extra.yaml"}

		handlers, err := loader.Load(cfg, tempDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(handlers).To(HaveLen(1))
		Expect(handlers[0].Name()).To(Equal("custom-location"))
	})

	It("skips disabled rules", func() {
		disabled := false
		cfg := &config.RulesConfig{
			Rules: []config.RuleConfig{
				{Name: "active"},
				{Name: "parked", Enabled: &disabled},
			},
		}

		handlers, err := loader.Load(cfg, tempDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(handlers).To(HaveLen(1))
		Expect(handlers[0].Name()).To(Equal("active"))
	})

	It("returns nothing when rules are disabled", func() {
		disabled := false
		cfg := &config.RulesConfig{
			Enabled: &disabled,
			Rules:   []config.RuleConfig{{Name: "ignored"}},
		}

		handlers, err := loader.Load(cfg, tempDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(handlers).To(BeEmpty())
	})

	It("treats a missing pack as empty", func() {
		handlers, err := loader.Load(&config.RulesConfig{}, tempDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(handlers).To(BeEmpty())
	})

	It("fails on a malformed pack", func() {
		writePack(".hookd/rules.yaml", "rules: [not: valid: yaml")

		_, err := loader.Load(&config.RulesConfig{}, tempDir)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("failed to parse rule pack"))
	})

	It("fails when an inline rule does not compile", func() {
		cfg := &config.RulesConfig{
			Rules: []config.RuleConfig{{Name: ""}},
		}

		_, err := loader.Load(cfg, tempDir)
		Expect(err).To(HaveOccurred())
	})
})
