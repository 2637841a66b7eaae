package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/hookd/pkg/config"
	"github.com/smykla-skalski/hookd/pkg/logger"
)

// recordingLogger captures warnings so specs can assert on them.
type recordingLogger struct {
	warns []string
}

func (*recordingLogger) Debug(string, ...any) {}
func (*recordingLogger) Info(string, ...any)  {}
func (*recordingLogger) Error(string, ...any) {}

func (l *recordingLogger) Warn(msg string, keysAndValues ...any) {
	line := msg
	for _, kv := range keysAndValues {
		if s, ok := kv.(string); ok {
			line += " " + s
		}
	}

	l.warns = append(l.warns, line)
}

//nolint:ireturn // Logger is the package contract.
func (l *recordingLogger) With(...any) logger.Logger { return l }

var _ = Describe("KoanfLoader", func() {
	var (
		homeDir string
		workDir string
		loader  *KoanfLoader
	)

	writeFile := func(path, content string) {
		Expect(os.MkdirAll(filepath.Dir(path), 0o755)).To(Succeed())
		Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
	}

	globalPath := func() string {
		return filepath.Join(homeDir, ".config", "hookd", "hookd.toml")
	}

	projectPath := func() string {
		return filepath.Join(workDir, ".hookd", "hookd.toml")
	}

	BeforeEach(func() {
		var err error

		homeDir, err = os.MkdirTemp("", "hookd-home-*")
		Expect(err).NotTo(HaveOccurred())

		workDir, err = os.MkdirTemp("", "hookd-work-*")
		Expect(err).NotTo(HaveOccurred())

		loader = NewKoanfLoaderWithDirs(nil, homeDir, workDir)
	})

	AfterEach(func() {
		Expect(os.RemoveAll(homeDir)).To(Succeed())
		Expect(os.RemoveAll(workDir)).To(Succeed())
	})

	Describe("defaults", func() {
		It("loads without any config files", func() {
			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.Version).To(Equal(config.CurrentConfigVersion))
			Expect(cfg.GetDaemon().GetSocket()).To(Equal(config.DefaultSocketPath))
			Expect(cfg.GetDaemon().GetIdleTimeout()).To(Equal(5 * time.Minute))
			Expect(cfg.GetDaemon().GetIdlePollInterval()).To(Equal(30 * time.Second))
			Expect(cfg.GetDaemon().GetGracePeriod()).To(Equal(5 * time.Second))
			Expect(cfg.GetDaemon().GetMaxConnections()).To(Equal(config.DefaultMaxConnections))
			Expect(cfg.GetDaemon().IsStrictInputEnabled()).To(BeFalse())
		})

		It("seeds handler defaults", func() {
			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())

			handlers := cfg.GetHandlers()
			Expect(handlers.Bash.GetProtectedBranches()).To(ConsistOf("main", "master"))
			Expect(handlers.Bash.IsDenySudoEnabled()).To(BeTrue())
			Expect(handlers.Secrets.IsBlockOnDetectionEnabled()).To(BeTrue())
			Expect(handlers.Secrets.GetMaxContentSize()).To(Equal(config.ByteSize(1048576)))
			Expect(handlers.Prompt.IsWarnOnSecretsEnabled()).To(BeTrue())
			Expect(handlers.Session.IsGitInfoEnabled()).To(BeTrue())
		})

		It("enables rules with the standard pack path", func() {
			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.GetRules().IsEnabled()).To(BeTrue())
			Expect(cfg.GetRules().GetRulesFile()).To(Equal(config.DefaultRulesFile))
			Expect(cfg.GetRules().Rules).To(BeEmpty())
		})
	})

	Describe("global config", func() {
		It("overrides defaults", func() {
			writeFile(globalPath(), `
[daemon]
idle_timeout = "10m"
max_connections = 8
`)

			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.GetDaemon().GetIdleTimeout()).To(Equal(10 * time.Minute))
			Expect(cfg.GetDaemon().GetMaxConnections()).To(Equal(8))
			// Untouched keys keep their defaults.
			Expect(cfg.GetDaemon().GetGracePeriod()).To(Equal(5 * time.Second))
		})

		It("decodes byte sizes through the humanize hook", func() {
			writeFile(globalPath(), `
[handlers.secrets]
max_content_size = "2MiB"
`)

			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.GetHandlers().Secrets.GetMaxContentSize()).
				To(Equal(config.ByteSize(2 * 1024 * 1024)))
		})

		It("rejects negative durations", func() {
			writeFile(globalPath(), `
[daemon]
idle_timeout = "-5m"
`)

			_, err := loader.Load(nil)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("duration must be non-negative"))
		})

		It("rejects world-writable config files", func() {
			writeFile(globalPath(), "[daemon]\n")
			Expect(os.Chmod(globalPath(), 0o646)).To(Succeed())

			_, err := loader.Load(nil)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrInvalidPermissions)).To(BeTrue())
		})
	})

	Describe("project config", func() {
		It("overrides global values", func() {
			writeFile(globalPath(), `
[daemon]
idle_timeout = "10m"
grace_period = "2s"
`)
			writeFile(projectPath(), `
[daemon]
idle_timeout = "1m"
`)

			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.GetDaemon().GetIdleTimeout()).To(Equal(1 * time.Minute))
			// Keys the project file leaves alone survive from global.
			Expect(cfg.GetDaemon().GetGracePeriod()).To(Equal(2 * time.Second))
		})

		It("falls back to hookd.toml at the project root", func() {
			writeFile(filepath.Join(workDir, "hookd.toml"), `
[logging]
debug = true
`)

			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.GetLogging().IsDebugEnabled()).To(BeTrue())
		})

		It("prefers .hookd/hookd.toml over the root fallback", func() {
			writeFile(projectPath(), "[daemon]\nmax_connections = 3\n")
			writeFile(filepath.Join(workDir, "hookd.toml"), "[daemon]\nmax_connections = 9\n")

			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.GetDaemon().GetMaxConnections()).To(Equal(3))
		})
	})

	Describe("environment overrides", func() {
		It("maps double underscores to nesting", func() {
			os.Setenv("HOOKD_DAEMON__IDLE_TIMEOUT", "90s")
			DeferCleanup(func() { os.Unsetenv("HOOKD_DAEMON__IDLE_TIMEOUT") })

			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.GetDaemon().GetIdleTimeout()).To(Equal(90 * time.Second))
		})

		It("beats file values", func() {
			writeFile(projectPath(), `
[daemon]
max_connections = 8
`)

			os.Setenv("HOOKD_DAEMON__MAX_CONNECTIONS", "2")
			DeferCleanup(func() { os.Unsetenv("HOOKD_DAEMON__MAX_CONNECTIONS") })

			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.GetDaemon().GetMaxConnections()).To(Equal(2))
		})
	})

	Describe("flag overrides", func() {
		It("beat everything else", func() {
			writeFile(projectPath(), `
[daemon]
socket = "/from/file.sock"
`)

			os.Setenv("HOOKD_DAEMON__SOCKET", "/from/env.sock")
			DeferCleanup(func() { os.Unsetenv("HOOKD_DAEMON__SOCKET") })

			cfg, err := loader.Load(map[string]any{"socket": "/from/flag.sock"})
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.GetDaemon().GetSocket()).To(Equal("/from/flag.sock"))
		})

		It("map CLI names onto config keys", func() {
			cfg, err := loader.Load(map[string]any{
				"debug":    true,
				"log-file": "/tmp/hookd-test.log",
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.GetLogging().IsDebugEnabled()).To(BeTrue())
			Expect(cfg.GetLogging().File).To(Equal("/tmp/hookd-test.log"))
		})
	})

	Describe("explicit config file", func() {
		It("pins the project source", func() {
			pinned := filepath.Join(workDir, "elsewhere", "custom.toml")
			writeFile(pinned, `
[daemon]
max_connections = 7
`)
			// A discoverable project file must lose to the pin.
			writeFile(projectPath(), "[daemon]\nmax_connections = 1\n")

			loader.SetConfigFile(pinned)

			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.GetDaemon().GetMaxConnections()).To(Equal(7))
		})

		It("fails when the pinned file is missing", func() {
			loader.SetConfigFile(filepath.Join(workDir, "nope.toml"))

			_, err := loader.Load(nil)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrConfigNotFound)).To(BeTrue())
		})
	})

	Describe("rule merging", func() {
		It("combines differently named rules from both sources", func() {
			writeFile(globalPath(), `
[[rules.rules]]
name = "global-rule"
[rules.rules.match]
commands = ["git push --force*"]
`)
			writeFile(projectPath(), `
[[rules.rules]]
name = "project-rule"
[rules.rules.match]
tools = ["Write"]
`)

			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())

			rules := cfg.GetRules().Rules
			Expect(rules).To(HaveLen(2))
			Expect(rules[0].Name).To(Equal("global-rule"))
			Expect(rules[1].Name).To(Equal("project-rule"))
		})

		It("deep-merges a same-named project rule over the global one", func() {
			writeFile(globalPath(), `
[[rules.rules]]
name = "shared"
priority = 30
[rules.rules.match]
commands = ["terraform apply*"]
[rules.rules.action]
decision = "ask"
reason = "global reason"
`)
			writeFile(projectPath(), `
[[rules.rules]]
name = "shared"
[rules.rules.action]
reason = "project reason"
`)

			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())

			rules := cfg.GetRules().Rules
			Expect(rules).To(HaveLen(1))

			rule := rules[0]
			Expect(rule.Name).To(Equal("shared"))
			// Fields the project file does not mention survive from global.
			Expect(rule.Priority).To(Equal(30))
			Expect(rule.Match).NotTo(BeNil())
			Expect(rule.Match.Commands).To(ConsistOf("terraform apply*"))
			Expect(rule.Action.GetDecision()).To(Equal("ask"))
			// The overridden field takes the project value.
			Expect(rule.Action.Reason).To(Equal("project reason"))
		})

		It("keeps project-only rules when global has none", func() {
			writeFile(projectPath(), `
[[rules.rules]]
name = "only"
`)

			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.GetRules().Rules).To(HaveLen(1))
		})
	})

	Describe("unknown keys", func() {
		It("are warned about, not fatal", func() {
			rec := &recordingLogger{}
			loader = NewKoanfLoaderWithDirs(rec, homeDir, workDir)

			writeFile(projectPath(), `
[daemon]
idle_timeout = "1m"
idle_timeut = "2m"
`)

			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.GetDaemon().GetIdleTimeout()).To(Equal(1 * time.Minute))

			Expect(rec.warns).To(ContainElement(ContainSubstring("idle_timeut")))
		})
	})

	Describe("path discovery", func() {
		It("reports global and project presence", func() {
			Expect(loader.HasGlobalConfig()).To(BeFalse())
			Expect(loader.HasProjectConfig()).To(BeFalse())

			writeFile(globalPath(), "[daemon]\n")
			writeFile(projectPath(), "[daemon]\n")

			Expect(loader.HasGlobalConfig()).To(BeTrue())
			Expect(loader.HasProjectConfig()).To(BeTrue())
			Expect(loader.FindProjectConfigPath()).To(Equal(projectPath()))
		})
	})

	Describe("LoadProjectConfigOnly", func() {
		It("ignores global and env sources", func() {
			writeFile(globalPath(), `
[daemon]
max_connections = 5
`)
			writeFile(projectPath(), `
[logging]
trace = true
`)

			cfg, path, err := loader.LoadProjectConfigOnly()
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal(projectPath()))

			Expect(cfg.GetLogging().IsTraceEnabled()).To(BeTrue())
			// Global-only settings must not leak in.
			Expect(cfg.Daemon).To(BeNil())
		})

		It("fails when no project config exists", func() {
			_, _, err := loader.LoadProjectConfigOnly()
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrConfigNotFound)).To(BeTrue())
		})
	})
})

var _ = Describe("mergeRuleMaps", func() {
	It("returns project rules when global is empty", func() {
		merged := mergeRuleMaps(nil, []map[string]any{{"name": "p"}})
		Expect(merged).To(HaveLen(1))
		Expect(merged[0]["name"]).To(Equal("p"))
	})

	It("returns global rules when project is empty", func() {
		merged := mergeRuleMaps([]map[string]any{{"name": "g"}}, nil)
		Expect(merged).To(HaveLen(1))
		Expect(merged[0]["name"]).To(Equal("g"))
	})

	It("preserves global order and appends new project rules", func() {
		global := []map[string]any{{"name": "a"}, {"name": "b"}}
		project := []map[string]any{{"name": "c"}}

		merged := mergeRuleMaps(global, project)
		Expect(merged).To(HaveLen(3))
		Expect(merged[0]["name"]).To(Equal("a"))
		Expect(merged[1]["name"]).To(Equal("b"))
		Expect(merged[2]["name"]).To(Equal("c"))
	})

	It("deep-merges nested sections for same-named rules", func() {
		global := []map[string]any{{
			"name":     "shared",
			"priority": 30,
			"match":    map[string]any{"commands": []any{"rm -rf*"}},
		}}
		project := []map[string]any{{
			"name":   "shared",
			"action": map[string]any{"reason": "local"},
		}}

		merged := mergeRuleMaps(global, project)
		Expect(merged).To(HaveLen(1))
		Expect(merged[0]["priority"]).To(Equal(30))
		Expect(merged[0]["match"]).To(HaveKey("commands"))
		Expect(merged[0]["action"]).To(HaveKeyWithValue("reason", "local"))
	})

	It("keeps unnamed rules from both sources", func() {
		global := []map[string]any{{"priority": 10}}
		project := []map[string]any{{"priority": 20}}

		merged := mergeRuleMaps(global, project)
		Expect(merged).To(HaveLen(2))
	})
})

var _ = Describe("envTransform", func() {
	var loader *KoanfLoader

	BeforeEach(func() {
		loader = NewKoanfLoaderWithDirs(nil, "/home/x", "/work/x")
	})

	It("lowercases and strips the prefix", func() {
		key, val := loader.envTransform("HOOKD_VERSION", "2")
		Expect(key).To(Equal("version"))
		Expect(val).To(Equal("2"))
	})

	It("turns double underscores into dots", func() {
		key, _ := loader.envTransform("HOOKD_DAEMON__IDLE_TIMEOUT", "1m")
		Expect(key).To(Equal("daemon.idle_timeout"))
	})

	It("keeps single underscores inside key names", func() {
		key, _ := loader.envTransform("HOOKD_HANDLERS__SECRETS__MAX_CONTENT_SIZE", "1MiB")
		Expect(key).To(Equal("handlers.secrets.max_content_size"))
	})
})
