package gitinfo

// FakeResolver implements Resolver for testing without touching a real
// repository. This is a struct-based fake that allows tests to set state
// directly.
type FakeResolver struct {
	InRepo   bool
	RepoRoot string
	Branch   string
	Remotes  map[string]string
	Err      error
}

// NewFakeResolver creates a FakeResolver with sensible defaults.
func NewFakeResolver() *FakeResolver {
	return &FakeResolver{
		InRepo:   true,
		RepoRoot: "/fake/repo",
		Branch:   "main",
		Remotes: map[string]string{
			"origin": "git@github.com:user/repo.git",
		},
	}
}

// IsRepo reports whether a repository was found.
func (f *FakeResolver) IsRepo() bool {
	return f.InRepo
}

// Root returns the repository root directory.
func (f *FakeResolver) Root() (string, error) {
	if f.Err != nil {
		return "", f.Err
	}

	return f.RepoRoot, nil
}

// CurrentBranch returns the configured branch name.
func (f *FakeResolver) CurrentBranch() (string, error) {
	if f.Err != nil {
		return "", f.Err
	}

	return f.Branch, nil
}

// RemoteURL returns the URL for the given remote.
func (f *FakeResolver) RemoteURL(remote string) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}

	if url, ok := f.Remotes[remote]; ok {
		return url, nil
	}

	return "", ErrRemoteNotFound
}

// Ensure FakeResolver implements Resolver.
var _ Resolver = (*FakeResolver)(nil)
