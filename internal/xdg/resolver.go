package xdg

import "path/filepath"

// PathResolver resolves XDG-based paths for hookd.
// The default implementation uses os.UserHomeDir() and XDG env vars.
// Use ResolverFor() when paths should be relative to a specific home directory.
type PathResolver interface {
	GlobalConfigFile() string
	ConfigDir() string
}

// DefaultResolver returns a PathResolver using real XDG paths.
func DefaultResolver() PathResolver {
	return defaultResolver{}
}

type defaultResolver struct{}

func (defaultResolver) GlobalConfigFile() string { return GlobalConfigFile() }
func (defaultResolver) ConfigDir() string        { return ConfigDir() }

// ResolverFor returns a PathResolver rooted at homeDir, ignoring XDG env
// vars. Tests use it to keep paths deterministic.
func ResolverFor(homeDir string) PathResolver {
	return homeResolver{homeDir: homeDir}
}

type homeResolver struct {
	homeDir string
}

func (r homeResolver) ConfigDir() string {
	return filepath.Join(r.homeDir, ".config", appName)
}

func (r homeResolver) GlobalConfigFile() string {
	return filepath.Join(r.ConfigDir(), "hookd.toml")
}
