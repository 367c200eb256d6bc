// Package git reads commit and tag history with go-git and writes the commits
// and tags produced by a release. No git CLI is required.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/ShogunPanda/cambi/internal/history"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// ErrNoCommits is returned when the repository has no HEAD commit yet.
var ErrNoCommits = errors.New("repository has no commits")

// Repository wraps a go-git repository.
type Repository struct {
	repo *git.Repository
	root string
}

// Open opens the repository containing path, walking up to find .git.
// If path is empty, the current working directory is used.
func Open(path string) (*Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	r := &Repository{repo: repo, root: path}
	if wt, err := repo.Worktree(); err == nil {
		r.root = wt.Filesystem.Root()
	}
	return r, nil
}

// Root returns the worktree root directory.
func (r *Repository) Root() string {
	return r.root
}

// Snapshot reads every commit and the tags matching tagPattern.
func (r *Repository) Snapshot(ctx context.Context, tagPattern *regexp.Regexp) (*history.Snapshot, error) {
	head, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, ErrNoCommits
		}
		return nil, fmt.Errorf("getting HEAD reference: %w", err)
	}

	commits, err := r.commits(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := r.tags(tagPattern)
	if err != nil {
		return nil, err
	}

	logDebug("[git] snapshot: %d commits, %d matching tags, HEAD %s", len(commits), len(tags), head.Hash())
	return history.NewSnapshot(head.Hash().String(), commits, tags), nil
}

func (r *Repository) commits(ctx context.Context) ([]history.Commit, error) {
	iter, err := r.repo.Log(&git.LogOptions{All: true, Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, fmt.Errorf("reading commit log: %w", err)
	}
	defer iter.Close()

	var out []history.Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		subject, body := splitMessage(c.Message)
		parents := make([]string, len(c.ParentHashes))
		for i, p := range c.ParentHashes {
			parents[i] = p.String()
		}
		out = append(out, history.Commit{
			Hash:    c.Hash.String(),
			Parents: parents,
			Subject: subject,
			Body:    body,
			Time:    c.Committer.When,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking commit log: %w", err)
	}
	return out, nil
}

func (r *Repository) tags(pattern *regexp.Regexp) ([]history.Tag, error) {
	refs, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer refs.Close()

	var out []history.Tag
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if pattern != nil && !pattern.MatchString(name) {
			logDebug("[git] skipping tag %s: does not match %s", name, pattern)
			return nil
		}

		hash, err := r.peel(ref.Hash())
		if err != nil {
			logDebug("[git] skipping tag %s: %v", name, err)
			return nil
		}
		out = append(out, history.Tag{Name: name, Commit: hash.String()})
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return nil, fmt.Errorf("reading tags: %w", err)
	}
	return out, nil
}

// peel resolves annotated tag objects down to the tagged commit.
func (r *Repository) peel(hash plumbing.Hash) (plumbing.Hash, error) {
	tag, err := r.repo.TagObject(hash)
	switch {
	case err == nil:
		c, err := tag.Commit()
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("resolving annotated tag: %w", err)
		}
		return c.Hash, nil
	case errors.Is(err, plumbing.ErrObjectNotFound):
		return hash, nil
	default:
		return plumbing.ZeroHash, err
	}
}

func splitMessage(message string) (string, string) {
	subject, body, _ := strings.Cut(strings.TrimLeft(message, "\n"), "\n")
	return strings.TrimSpace(subject), strings.TrimSpace(body)
}
