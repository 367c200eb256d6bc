package git

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Fallback identity used when no user.name/user.email is configured.
const (
	fallbackName  = "cambi"
	fallbackEmail = "cambi@localhost"
)

// CommitFiles stages paths (relative to the root or absolute) and commits
// them. It returns the new commit hash.
func (r *Repository) CommitFiles(paths []string, message string) (string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	for _, p := range paths {
		rel, err := r.relative(p)
		if err != nil {
			return "", err
		}
		if _, err := wt.Add(rel); err != nil {
			return "", fmt.Errorf("staging %s: %w", rel, err)
		}
	}

	sig := r.signature()
	hash, err := wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		return "", fmt.Errorf("creating commit: %w", err)
	}
	logDebug("[git] committed %s: %s", hash, message)
	return hash.String(), nil
}

// CreateTag creates a lightweight tag on HEAD.
func (r *Repository) CreateTag(name string) error {
	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("getting HEAD reference: %w", err)
	}
	if _, err := r.repo.CreateTag(name, head.Hash(), nil); err != nil {
		return fmt.Errorf("creating tag %s: %w", name, err)
	}
	logDebug("[git] tagged %s as %s", head.Hash(), name)
	return nil
}

// ChangedFiles lists paths with staged, unstaged or untracked changes, sorted.
func (r *Repository) ChangedFiles() ([]string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("reading status: %w", err)
	}

	var out []string
	for path, s := range status {
		if s.Staging != git.Unmodified || s.Worktree != git.Unmodified {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out, nil
}

// RemoteURL returns the first URL of the named remote.
func (r *Repository) RemoteURL(name string) (string, error) {
	remote, err := r.repo.Remote(name)
	if err != nil {
		return "", fmt.Errorf("reading remote %s: %w", name, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %s has no URL", name)
	}
	return urls[0], nil
}

func (r *Repository) relative(path string) (string, error) {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(path), nil
	}
	rel, err := filepath.Rel(r.root, path)
	if err != nil {
		return "", fmt.Errorf("resolving %s against %s: %w", path, r.root, err)
	}
	return filepath.ToSlash(rel), nil
}

func (r *Repository) signature() *object.Signature {
	sig := &object.Signature{Name: fallbackName, Email: fallbackEmail, When: time.Now()}

	cfg, err := r.repo.ConfigScoped(config.GlobalScope)
	if err != nil {
		return sig
	}
	if cfg.User.Name != "" {
		sig.Name = cfg.User.Name
	}
	if cfg.User.Email != "" {
		sig.Email = cfg.User.Email
	}
	return sig
}
