package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/hookd/pkg/config"
)

var _ = Describe("Writer", func() {
	var (
		homeDir string
		workDir string
		writer  *Writer
	)

	BeforeEach(func() {
		var err error

		homeDir, err = os.MkdirTemp("", "hookd-home-*")
		Expect(err).NotTo(HaveOccurred())

		workDir, err = os.MkdirTemp("", "hookd-work-*")
		Expect(err).NotTo(HaveOccurred())

		writer = NewWriterWithDirs(homeDir, workDir)
	})

	AfterEach(func() {
		Expect(os.RemoveAll(homeDir)).To(Succeed())
		Expect(os.RemoveAll(workDir)).To(Succeed())
	})

	Describe("WriteFile", func() {
		It("rejects a nil config", func() {
			err := writer.WriteFile(filepath.Join(workDir, "out.toml"), nil)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrInvalidConfig)).To(BeTrue())
		})

		It("creates parent directories", func() {
			path := filepath.Join(workDir, "deep", "nested", "out.toml")

			Expect(writer.WriteFile(path, DefaultConfig())).To(Succeed())

			_, err := os.Stat(path)
			Expect(err).NotTo(HaveOccurred())
		})

		It("writes user-only file permissions", func() {
			path := filepath.Join(workDir, "out.toml")

			Expect(writer.WriteFile(path, DefaultConfig())).To(Succeed())

			info, err := os.Stat(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))
		})

		It("starts the file with the schema directive", func() {
			path := filepath.Join(workDir, "out.toml")

			Expect(writer.WriteFile(path, DefaultConfig())).To(Succeed())

			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())

			first := strings.SplitN(string(data), "\n", 2)[0]
			Expect(first).To(HavePrefix("#:schema "))
		})

		It("renders the expected sections", func() {
			path := filepath.Join(workDir, "out.toml")

			Expect(writer.WriteFile(path, DefaultConfig())).To(Succeed())

			content, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())

			Expect(string(content)).To(ContainSubstring("[daemon]"))
			Expect(string(content)).To(ContainSubstring("[handlers"))
			Expect(string(content)).To(ContainSubstring("[rules]"))
			Expect(string(content)).To(ContainSubstring("[logging]"))
		})
	})

	Describe("paths", func() {
		It("places the global config under XDG config home", func() {
			Expect(writer.GlobalConfigPath()).To(Equal(
				filepath.Join(homeDir, ".config", "hookd", "hookd.toml"),
			))
		})

		It("places the project config under .hookd", func() {
			Expect(writer.ProjectConfigPath()).To(Equal(
				filepath.Join(workDir, ".hookd", "hookd.toml"),
			))
		})
	})

	Describe("WriteGlobal", func() {
		It("creates the file at the global path", func() {
			Expect(writer.IsGlobalConfigExists()).To(BeFalse())

			Expect(writer.WriteGlobal(DefaultConfig())).To(Succeed())

			Expect(writer.IsGlobalConfigExists()).To(BeTrue())
		})
	})

	Describe("WriteProject", func() {
		It("creates the file at the project path", func() {
			Expect(writer.IsProjectConfigExists()).To(BeFalse())

			Expect(writer.WriteProject(DefaultConfig())).To(Succeed())

			Expect(writer.IsProjectConfigExists()).To(BeTrue())
		})
	})

	Describe("EnsureProjectConfigDir", func() {
		It("creates .hookd with restrictive permissions", func() {
			Expect(writer.EnsureProjectConfigDir()).To(Succeed())

			info, err := os.Stat(filepath.Join(workDir, ".hookd"))
			Expect(err).NotTo(HaveOccurred())
			Expect(info.IsDir()).To(BeTrue())
			Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o700)))
		})
	})

	Describe("round-trip", func() {
		It("reloads what it wrote", func() {
			cfg := DefaultConfig()
			cfg.GetDaemon().MaxConnections = 7
			cfg.GetDaemon().IdleTimeout = config.Duration(90 * time.Second)
			cfg.GetRules().Rules = []config.RuleConfig{{
				Name:   "no-force-push",
				Events: []string{"PreToolUse"},
				Match: &config.RuleMatchConfig{
					Commands: []string{"git push --force*"},
				},
				Action: &config.RuleActionConfig{Decision: "deny"},
			}}

			Expect(writer.WriteProject(cfg)).To(Succeed())

			loader := NewKoanfLoaderWithDirs(nil, homeDir, workDir)
			loaded, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(loaded.GetDaemon().GetMaxConnections()).To(Equal(7))
			Expect(loaded.GetDaemon().GetIdleTimeout()).To(Equal(90 * time.Second))
			Expect(loaded.GetRules().Rules).To(HaveLen(1))
			Expect(loaded.GetRules().Rules[0].Name).To(Equal("no-force-push"))
			Expect(loaded.GetRules().Rules[0].Match.Commands).
				To(ConsistOf("git push --force*"))
		})
	})
})
