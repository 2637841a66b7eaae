// Package config loads, validates, and writes hookd configuration.
package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"

	"github.com/smykla-skalski/hookd/internal/schema"
	"github.com/smykla-skalski/hookd/internal/xdg"
	"github.com/smykla-skalski/hookd/pkg/config"
)

const (
	// ConfigFileMode is the file mode for configuration files (user
	// read/write only).
	ConfigFileMode = 0o600

	// ConfigDirMode is the file mode for configuration directories (user rwx
	// only).
	ConfigDirMode = 0o700
)

// Writer handles writing configuration to TOML files.
type Writer struct {
	resolver xdg.PathResolver
	workDir  string
}

// NewWriter creates a new Writer with default directories.
func NewWriter() *Writer {
	return &Writer{
		resolver: xdg.DefaultResolver(),
		workDir:  mustGetwd(),
	}
}

// NewWriterWithDirs creates a new Writer with custom directories (for
// testing).
func NewWriterWithDirs(homeDir, workDir string) *Writer {
	return &Writer{
		resolver: xdg.ResolverFor(homeDir),
		workDir:  workDir,
	}
}

// WriteGlobal writes the configuration to the global config file.
func (w *Writer) WriteGlobal(cfg *config.Config) error {
	return w.WriteFile(w.GlobalConfigPath(), cfg)
}

// WriteProject writes the configuration to the project config file.
// Uses the primary location (.hookd/hookd.toml).
func (w *Writer) WriteProject(cfg *config.Config) error {
	return w.WriteFile(w.ProjectConfigPath(), cfg)
}

// WriteFile writes the configuration to the given path.
func (w *Writer) WriteFile(path string, cfg *config.Config) error {
	if cfg == nil {
		return errors.Wrap(ErrInvalidConfig, "config is nil")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, ConfigDirMode); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}

	var buf bytes.Buffer

	// Prepend the schema directive so TOML-aware editors pick up completion.
	buf.WriteString(schema.Directive())
	buf.WriteByte('\n')

	encoder := toml.NewEncoder(&buf)
	encoder.SetIndentTables(true)

	if err := encoder.Encode(cfg); err != nil {
		return errors.Wrap(err, "failed to encode config to TOML")
	}

	if err := os.WriteFile(path, buf.Bytes(), ConfigFileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file %s", path)
	}

	return nil
}

// GlobalConfigPath returns the path to the global configuration file.
func (w *Writer) GlobalConfigPath() string {
	return w.resolver.GlobalConfigFile()
}

// ProjectConfigPath returns the path to the primary project configuration
// file.
func (w *Writer) ProjectConfigPath() string {
	return filepath.Join(w.workDir, ProjectConfigDir, ProjectConfigFile)
}

// EnsureGlobalConfigDir ensures the global config directory exists.
func (w *Writer) EnsureGlobalConfigDir() error {
	dir := w.resolver.ConfigDir()

	if err := os.MkdirAll(dir, ConfigDirMode); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}

	return nil
}

// EnsureProjectConfigDir ensures the project config directory exists.
func (w *Writer) EnsureProjectConfigDir() error {
	dir := filepath.Join(w.workDir, ProjectConfigDir)

	if err := os.MkdirAll(dir, ConfigDirMode); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}

	return nil
}

// IsGlobalConfigExists checks if the global config file exists.
func (w *Writer) IsGlobalConfigExists() bool {
	_, err := os.Stat(w.GlobalConfigPath())

	return err == nil
}

// IsProjectConfigExists checks if the project config file exists.
func (w *Writer) IsProjectConfigExists() bool {
	_, err := os.Stat(w.ProjectConfigPath())

	return err == nil
}
