package rules

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/smykla-skalski/hookd/pkg/config"
	"github.com/smykla-skalski/hookd/pkg/logger"
)

// Loader compiles project rules from every configured source: inline
// [[rules.rules]] tables and the standalone YAML pack.
type Loader struct {
	log logger.Logger
}

// NewLoader creates a Loader.
func NewLoader(log logger.Logger) *Loader {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Loader{log: log}
}

// Load compiles every enabled rule. Relative pack paths resolve against
// baseDir. Disabled rules are skipped; a rule that fails to compile fails
// the whole load.
func (l *Loader) Load(cfg *config.RulesConfig, baseDir string) ([]*RuleHandler, error) {
	if !cfg.IsEnabled() {
		l.log.Debug("project rules disabled")

		return nil, nil
	}

	var inline []config.RuleConfig
	if cfg != nil {
		inline = cfg.Rules
	}

	configs := append([]config.RuleConfig(nil), inline...)

	packPath := cfg.GetRulesFile()
	if !filepath.IsAbs(packPath) {
		packPath = filepath.Join(baseDir, packPath)
	}

	pack, err := loadPack(packPath)
	if err != nil {
		return nil, err
	}

	configs = append(configs, pack...)

	handlers := make([]*RuleHandler, 0, len(configs))

	for i := range configs {
		rule := &configs[i]

		if !rule.IsRuleEnabled() {
			l.log.Debug("skipping disabled rule", "rule", rule.Name)

			continue
		}

		compiled, err := Compile(rule, l.log)
		if err != nil {
			return nil, err
		}

		handlers = append(handlers, compiled)
	}

	l.log.Debug("loaded project rules",
		"inline", len(inline),
		"pack", len(pack),
		"compiled", len(handlers),
	)

	return handlers, nil
}

// rulePack is the YAML rule pack document.
type rulePack struct {
	Rules []config.RuleConfig `yaml:"rules"`
}

// loadPack reads a standalone YAML rule pack. A missing file is fine;
// a malformed one is not.
func loadPack(path string) ([]config.RuleConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, errors.Wrapf(err, "failed to read rule pack %s", path)
	}

	var pack rulePack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, errors.Wrapf(err, "failed to parse rule pack %s", path)
	}

	return pack.Rules, nil
}
