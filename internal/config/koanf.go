// Package config loads, validates, and writes hookd configuration.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/maps"
	tomlparser "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/smykla-skalski/hookd/internal/xdg"
	"github.com/smykla-skalski/hookd/pkg/config"
	"github.com/smykla-skalski/hookd/pkg/logger"
)

var (
	// ErrConfigNotFound is returned when an explicitly named configuration
	// file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidPermissions is returned when a config file has insecure
	// permissions.
	ErrInvalidPermissions = errors.New("config file has insecure permissions")
)

const (
	// ProjectConfigDir is the directory name for project configuration.
	ProjectConfigDir = ".hookd"

	// ProjectConfigFile is the project configuration file name, used both
	// inside ProjectConfigDir and as the bare fallback at the project root.
	ProjectConfigFile = "hookd.toml"

	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "HOOKD_"
)

// Default value strings for the koanf defaults map. Durations and sizes are
// kept as strings so every load exercises the same decode hooks user config
// goes through.
const (
	defaultIdleTimeoutStr      = "5m"
	defaultIdlePollIntervalStr = "30s"
	defaultGracePeriodStr      = "5s"
	defaultMaxContentSizeStr   = "1MiB"
)

// KoanfLoader loads configuration from multiple sources using koanf.
// Precedence order (highest to lowest):
// 1. CLI Flags
// 2. Environment Variables (HOOKD_*)
// 3. Project Config (.hookd/hookd.toml or hookd.toml)
// 4. Global Config (~/.config/hookd/hookd.toml)
// 5. Defaults
type KoanfLoader struct {
	k          *koanf.Koanf
	resolver   xdg.PathResolver
	workDir    string
	configFile string
	log        logger.Logger
}

// NewKoanfLoader creates a new KoanfLoader rooted at the current working
// directory.
func NewKoanfLoader(log logger.Logger) (*KoanfLoader, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get working directory")
	}

	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &KoanfLoader{
		k:        koanf.New("."),
		resolver: xdg.DefaultResolver(),
		workDir:  workDir,
		log:      log,
	}, nil
}

// NewKoanfLoaderWithDirs creates a new KoanfLoader with custom home and work
// directories (for testing).
func NewKoanfLoaderWithDirs(log logger.Logger, homeDir, workDir string) *KoanfLoader {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &KoanfLoader{
		k:        koanf.New("."),
		resolver: xdg.ResolverFor(homeDir),
		workDir:  workDir,
		log:      log,
	}
}

// SetConfigFile pins the project config to an explicit path (the --config
// flag). A pinned file that does not exist is a load error rather than a
// silent skip.
func (l *KoanfLoader) SetConfigFile(path string) {
	l.configFile = path
}

// Load loads configuration from all sources with precedence and validates
// the result.
//
// Rules have special merge semantics:
// - Rules with the same name: the project rule deep-merges over the global one
// - Rules with different names: combined (both included)
func (l *KoanfLoader) Load(flags map[string]any) (*config.Config, error) {
	cfg, err := l.LoadWithoutValidation(flags)
	if err != nil {
		return nil, err
	}

	validator := NewValidator()
	if err := validator.Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}

// LoadWithoutValidation loads configuration without running validation.
// This is useful for tools that need to inspect or fix invalid
// configurations.
func (l *KoanfLoader) LoadWithoutValidation(flags map[string]any) (*config.Config, error) {
	// Reset koanf instance for fresh load
	l.k = koanf.New(".")

	// Track rules from each source; a later TOML source replaces the whole
	// rules array in koanf, so per-source snapshots are needed for merging.
	var globalRules, projectRules []map[string]any

	// 1. Load defaults first (lowest priority)
	if err := l.k.Load(confmap.Provider(defaultsToMap(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	// 2. Global config: ~/.config/hookd/hookd.toml
	globalPath := l.GlobalConfigPath()
	if err := l.loadTOMLFile(globalPath); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to load global config")
	} else if err == nil {
		globalRules = l.ruleMaps()
	}

	// 3. Project config: .hookd/hookd.toml or hookd.toml
	projectPath := l.findProjectConfig()
	if projectPath != "" {
		if err := l.loadTOMLFile(projectPath); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrapf(ErrConfigNotFound, "%s", projectPath)
			}

			return nil, errors.Wrap(err, "failed to load project config")
		}

		projectRules = l.ruleMaps()
	}

	// 4. Environment variables: HOOKD_*
	envOpt := env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: l.envTransform,
	}

	if err := l.k.Load(env.Provider(".", envOpt), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load env vars")
	}

	// 5. CLI flags (highest priority)
	if len(flags) > 0 {
		flagConfig := l.flagsToConfig(flags)
		if err := l.k.Load(confmap.Provider(flagConfig, "."), nil); err != nil {
			return nil, errors.Wrap(err, "failed to load flags")
		}
	}

	// Merge rules: same-name project rules deep-merge over global ones,
	// different names are combined.
	if merged := mergeRuleMaps(globalRules, projectRules); len(merged) > 0 {
		if err := l.k.Set("rules.rules", merged); err != nil {
			return nil, errors.Wrap(err, "failed to merge rules")
		}
	}

	return l.unmarshal()
}

// unmarshal decodes the current koanf state into a Config, warning on keys
// no struct field claims.
func (l *KoanfLoader) unmarshal() (*config.Config, error) {
	var cfg config.Config

	meta := &mapstructure.Metadata{}

	decoderConfig := CustomDecoderConfig()
	decoderConfig.Result = &cfg
	decoderConfig.Metadata = meta

	unmarshalConf := koanf.UnmarshalConf{
		Tag:           "koanf",
		FlatPaths:     false,
		DecoderConfig: decoderConfig,
	}

	if err := l.k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	for _, key := range meta.Unused {
		l.log.Warn("unknown config key", "key", key)
	}

	return &cfg, nil
}

// ruleMaps extracts the raw rule maps from the current koanf state.
func (l *KoanfLoader) ruleMaps() []map[string]any {
	raw := l.k.Get("rules.rules")

	switch v := raw.(type) {
	case []map[string]any:
		return v

	case []any:
		rules := make([]map[string]any, 0, len(v))

		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				rules = append(rules, m)
			}
		}

		return rules

	default:
		return nil
	}
}

// mergeRuleMaps merges global and project rule maps.
// A project rule deep-merges over the global rule with the same name, so a
// project can override a single field (say, the action reason) while keeping
// the global rule's match conditions. Rules without names are always
// included.
func mergeRuleMaps(globalRules, projectRules []map[string]any) []map[string]any {
	if len(globalRules) == 0 {
		return projectRules
	}

	if len(projectRules) == 0 {
		return globalRules
	}

	projectByName := make(map[string]map[string]any)

	for _, rule := range projectRules {
		if name, ok := rule["name"].(string); ok && name != "" {
			projectByName[name] = rule
		}
	}

	merged := make([]map[string]any, 0, len(globalRules)+len(projectRules))
	seenNames := make(map[string]bool)

	for _, globalRule := range globalRules {
		name, _ := globalRule["name"].(string)
		if name == "" {
			merged = append(merged, globalRule)

			continue
		}

		seenNames[name] = true

		projectRule, exists := projectByName[name]
		if !exists {
			merged = append(merged, globalRule)

			continue
		}

		base := maps.Copy(globalRule)
		maps.Merge(projectRule, base)
		merged = append(merged, base)
	}

	for _, projectRule := range projectRules {
		name, _ := projectRule["name"].(string)
		if name == "" || !seenNames[name] {
			merged = append(merged, projectRule)
		}
	}

	return merged
}

// loadTOMLFile loads a TOML configuration file with security checks.
func (l *KoanfLoader) loadTOMLFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	// Security check: reject world-writable files
	if info.Mode().Perm()&0o002 != 0 {
		return errors.Wrapf(
			ErrInvalidPermissions,
			"%s is world-writable (mode: %s)",
			path,
			info.Mode().Perm(),
		)
	}

	return l.k.Load(file.Provider(path), tomlparser.Parser())
}

// envTransform transforms environment variable names to config paths.
// Double underscores nest; single underscores stay part of the key.
// HOOKD_DAEMON__IDLE_TIMEOUT → daemon.idle_timeout
func (*KoanfLoader) envTransform(key, value string) (string, any) {
	key = strings.TrimPrefix(key, EnvPrefix)
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "__", ".")

	return key, value
}

// GlobalConfigPath returns the path to the global configuration file.
func (l *KoanfLoader) GlobalConfigPath() string {
	return l.resolver.GlobalConfigFile()
}

// ProjectConfigPaths returns the paths to check for project configuration.
func (l *KoanfLoader) ProjectConfigPaths() []string {
	return []string{
		filepath.Join(l.workDir, ProjectConfigDir, ProjectConfigFile),
		filepath.Join(l.workDir, ProjectConfigFile),
	}
}

// findProjectConfig returns the pinned config path when set, otherwise the
// first project config file that exists.
func (l *KoanfLoader) findProjectConfig() string {
	if l.configFile != "" {
		return l.configFile
	}

	for _, path := range l.ProjectConfigPaths() {
		if fileExists(path) {
			return path
		}
	}

	return ""
}

// HasGlobalConfig checks if a global configuration file exists.
func (l *KoanfLoader) HasGlobalConfig() bool {
	return fileExists(l.GlobalConfigPath())
}

// HasProjectConfig checks if a project configuration file exists.
func (l *KoanfLoader) HasProjectConfig() bool {
	return l.findProjectConfig() != ""
}

// FindProjectConfigPath returns the path to the project config file if one
// exists. Returns empty string if no project config file is found.
func (l *KoanfLoader) FindProjectConfigPath() string {
	return l.findProjectConfig()
}

// LoadProjectConfigOnly loads only the project configuration file without
// merging defaults, global config, or environment variables. This is used by
// tools that edit and write back the project config without contaminating it
// with values from other sources. Returns nil if no project config exists.
func (l *KoanfLoader) LoadProjectConfigOnly() (*config.Config, string, error) {
	projectPath := l.findProjectConfig()
	if projectPath == "" {
		return nil, "", nil
	}

	k := koanf.New(".")

	if err := k.Load(file.Provider(projectPath), tomlparser.Parser()); err != nil {
		return nil, projectPath, errors.Wrap(err, "failed to load project config")
	}

	var cfg config.Config

	decoderConfig := CustomDecoderConfig()
	decoderConfig.Result = &cfg

	unmarshalConf := koanf.UnmarshalConf{
		Tag:           "koanf",
		FlatPaths:     false,
		DecoderConfig: decoderConfig,
	}

	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, projectPath, errors.Wrap(err, "failed to unmarshal project config")
	}

	return &cfg, projectPath, nil
}

// flagsToConfig converts CLI flags to a configuration map. The caller only
// passes flags the user actually set, so values apply unconditionally.
func (*KoanfLoader) flagsToConfig(flags map[string]any) map[string]any {
	result := make(map[string]any)

	for key, value := range flags {
		switch key {
		case "socket":
			if strVal, ok := value.(string); ok && strVal != "" {
				ensureMapKey(result, "daemon")["socket"] = strVal
			}

		case "debug":
			if boolVal, ok := value.(bool); ok {
				ensureMapKey(result, "logging")["debug"] = boolVal
			}

		case "trace":
			if boolVal, ok := value.(bool); ok {
				ensureMapKey(result, "logging")["trace"] = boolVal
			}

		case "log-file":
			if strVal, ok := value.(string); ok && strVal != "" {
				ensureMapKey(result, "logging")["file"] = strVal
			}
		}
	}

	return result
}

// ensureMapKey ensures a key exists as a map and returns it.
func ensureMapKey(cfg map[string]any, key string) map[string]any {
	if _, ok := cfg[key]; !ok {
		cfg[key] = make(map[string]any)
	}

	result, _ := cfg[key].(map[string]any)

	return result
}

// defaultsToMap returns the lowest-priority configuration source.
func defaultsToMap() map[string]any {
	return map[string]any{
		"version":  config.CurrentConfigVersion,
		"daemon":   defaultDaemonMap(),
		"handlers": defaultHandlersMap(),
		"rules":    defaultRulesMap(),
		"logging":  defaultLoggingMap(),
	}
}

func defaultDaemonMap() map[string]any {
	return map[string]any{
		"socket":             config.DefaultSocketPath,
		"pid_file":           config.DefaultPidFile,
		"idle_timeout":       defaultIdleTimeoutStr,
		"idle_poll_interval": defaultIdlePollIntervalStr,
		"grace_period":       defaultGracePeriodStr,
		"max_connections":    config.DefaultMaxConnections,
		"strict_input":       false,
	}
}

func defaultHandlersMap() map[string]any {
	return map[string]any{
		"bash": map[string]any{
			"protected_branches": []string{"main", "master"},
			"deny_sudo":          true,
			"deny_remote_pipes":  true,
		},
		"secrets": map[string]any{
			"block_on_detection": true,
			"max_content_size":   defaultMaxContentSizeStr,
		},
		"prompt": map[string]any{
			"warn_on_secrets": true,
		},
		"session": map[string]any{
			"include_git_info": true,
		},
	}
}

func defaultRulesMap() map[string]any {
	return map[string]any{
		"enabled":    true,
		"rules_file": config.DefaultRulesFile,
		"rules":      []any{},
	}
}

func defaultLoggingMap() map[string]any {
	return map[string]any{
		"debug": false,
		"trace": false,
	}
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return !info.IsDir()
}

// mustGetwd returns the current working directory or panics.
func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		panic("failed to get working directory: " + err.Error())
	}

	return wd
}
