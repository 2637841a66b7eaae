// Package gitinfo resolves repository facts (root, current branch, remotes)
// for policy handlers using the go-git SDK. Nothing here shells out.
package gitinfo

import (
	"github.com/cockroachdb/errors"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
)

var (
	// ErrNotRepository is returned when the path is not inside a git repository.
	ErrNotRepository = errors.New("not a git repository")
	// ErrNoHead is returned when the repository has no commits yet.
	ErrNoHead = errors.New("repository has no HEAD")
	// ErrDetachedHead is returned when HEAD does not point at a branch.
	ErrDetachedHead = errors.New("detached HEAD")
	// ErrRemoteNotFound is returned when the named remote is not configured.
	ErrRemoteNotFound = errors.New("remote not found")
)

// Resolver defines the repository facts handlers consult. Lookups are
// performed per call, so a long-running daemon observes branch switches.
type Resolver interface {
	// IsRepo reports whether a repository was found.
	IsRepo() bool

	// Root returns the repository root directory.
	Root() (string, error)

	// CurrentBranch returns the short name of the checked-out branch.
	CurrentBranch() (string, error)

	// RemoteURL returns the first URL of the named remote.
	RemoteURL(remote string) (string, error)
}

// SDKResolver implements Resolver on an open go-git repository.
type SDKResolver struct {
	repo *git.Repository
}

var _ Resolver = (*SDKResolver)(nil)

// Open opens the repository containing path, walking up parent directories
// the way git itself does. Linked worktrees are followed through their
// commondir reference.
func Open(path string) (*SDKResolver, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNotRepository
		}

		return nil, errors.Wrap(err, "failed to open repository")
	}

	return &SDKResolver{repo: repo}, nil
}

// Detect opens the repository containing path. When path is not inside a
// repository, the returned Resolver reports IsRepo false and every lookup
// fails with ErrNotRepository, so callers degrade without branching on an
// open error.
//
//nolint:ireturn,nolintlint // Factory function intentionally returns interface
func Detect(path string) Resolver {
	resolver, err := Open(path)
	if err != nil {
		return noRepo{}
	}

	return resolver
}

// IsRepo reports whether a repository was found.
func (r *SDKResolver) IsRepo() bool {
	return r.repo != nil
}

// Root returns the repository root directory.
func (r *SDKResolver) Root() (string, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return "", errors.Wrap(err, "failed to get worktree")
	}

	return worktree.Filesystem.Root(), nil
}

// CurrentBranch returns the short name of the checked-out branch.
func (r *SDKResolver) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", ErrNoHead
		}

		return "", errors.Wrap(err, "failed to get HEAD")
	}

	if !head.Name().IsBranch() {
		return "", ErrDetachedHead
	}

	return head.Name().Short(), nil
}

// RemoteURL returns the first URL of the named remote.
func (r *SDKResolver) RemoteURL(remote string) (string, error) {
	rem, err := r.repo.Remote(remote)
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return "", errors.Wrapf(ErrRemoteNotFound, "remote %q", remote)
		}

		return "", errors.Wrap(err, "failed to get remote")
	}

	urls := rem.Config().URLs
	if len(urls) == 0 {
		return "", errors.Errorf("remote %q has no URLs", remote)
	}

	return urls[0], nil
}

// noRepo is the Resolver used outside repositories.
type noRepo struct{}

func (noRepo) IsRepo() bool { return false }

func (noRepo) Root() (string, error) { return "", ErrNotRepository }

func (noRepo) CurrentBranch() (string, error) { return "", ErrNotRepository }

func (noRepo) RemoteURL(string) (string, error) { return "", ErrNotRepository }
