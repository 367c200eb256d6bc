// Package history holds an immutable snapshot of a repository's commit graph
// and release tags, and partitions commits into per-release buckets.
package history

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Commit is a single commit as read from the repository.
type Commit struct {
	Hash    string
	Parents []string
	Subject string
	Body    string
	Time    time.Time
}

// Tag is a release tag that already matched the configured tag pattern.
type Tag struct {
	Name   string
	Commit string
}

// Snapshot is a consistent view of commits and tags taken once per run.
// Commits are kept in source order (newest first); tags are sorted oldest
// first by ancestry.
type Snapshot struct {
	Head    string
	commits []Commit
	tags    []Tag
	index   map[string]int
}

// NewSnapshot builds a snapshot and orders tags topologically.
// Tags pointing at commits outside the snapshot are dropped.
func NewSnapshot(head string, commits []Commit, tags []Tag) *Snapshot {
	s := &Snapshot{
		Head:    head,
		commits: slices.Clone(commits),
		index:   make(map[string]int, len(commits)),
	}
	for i, c := range s.commits {
		s.index[c.Hash] = i
	}

	depth := make(map[string]int, len(tags))
	for _, t := range tags {
		if _, ok := s.index[t.Commit]; !ok {
			continue
		}
		if _, seen := depth[t.Commit]; !seen {
			depth[t.Commit] = len(s.reachable(t.Commit))
		}
		s.tags = append(s.tags, t)
	}

	// An ancestor always reaches strictly fewer commits than its descendants.
	slices.SortStableFunc(s.tags, func(a, b Tag) int {
		if d := depth[a.Commit] - depth[b.Commit]; d != 0 {
			return d
		}
		if c := s.commits[s.index[a.Commit]].Time.Compare(s.commits[s.index[b.Commit]].Time); c != 0 {
			return c
		}
		return compareTagNames(a.Name, b.Name)
	})
	return s
}

var tagVersionPattern = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)`)

// compareTagNames orders names by the first X.Y.Z they embed, numerically,
// so v1.9.0 sorts before v1.10.0. Names without a version fall back to
// string order.
func compareTagNames(a, b string) int {
	va, okA := tagVersion(a)
	vb, okB := tagVersion(b)
	if okA && okB {
		if c := slices.Compare(va[:], vb[:]); c != 0 {
			return c
		}
	}
	return strings.Compare(a, b)
}

func tagVersion(name string) ([3]uint64, bool) {
	var v [3]uint64
	m := tagVersionPattern.FindStringSubmatch(name)
	if m == nil {
		return v, false
	}
	for i, part := range m[1:] {
		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return v, false
		}
		v[i] = n
	}
	return v, true
}

// Commits returns all commits in source order.
func (s *Snapshot) Commits() []Commit {
	return s.commits
}

// Tags returns the release tags, oldest first.
func (s *Snapshot) Tags() []Tag {
	return s.tags
}

// Lookup finds a commit by hash.
func (s *Snapshot) Lookup(hash string) (Commit, bool) {
	i, ok := s.index[hash]
	if !ok {
		return Commit{}, false
	}
	return s.commits[i], true
}

// Tag finds a release tag by name.
func (s *Snapshot) Tag(name string) (Tag, bool) {
	for _, t := range s.tags {
		if t.Name == name {
			return t, true
		}
	}
	return Tag{}, false
}

// LatestTag returns the newest release tag.
func (s *Snapshot) LatestTag() (Tag, bool) {
	if len(s.tags) == 0 {
		return Tag{}, false
	}
	return s.tags[len(s.tags)-1], true
}

// Range returns the commits reachable from to but not from from, in source
// order. An empty from means "from the beginning of history".
func (s *Snapshot) Range(from, to string) []Commit {
	if to == "" {
		return nil
	}
	include := s.reachable(to)
	var exclude map[string]struct{}
	if from != "" {
		exclude = s.reachable(from)
	}

	var out []Commit
	for _, c := range s.commits {
		if _, ok := include[c.Hash]; !ok {
			continue
		}
		if _, hidden := exclude[c.Hash]; hidden {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Since returns the commits between the named tag (exclusive) and HEAD.
// An empty tag name returns the whole history reachable from HEAD.
func (s *Snapshot) Since(tag string) []Commit {
	if tag == "" {
		return s.Range("", s.Head)
	}
	t, ok := s.Tag(tag)
	if !ok {
		return s.Range("", s.Head)
	}
	return s.Range(t.Commit, s.Head)
}

func (s *Snapshot) reachable(start string) map[string]struct{} {
	seen := make(map[string]struct{})
	stack := []string{start}
	for len(stack) > 0 {
		hash := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[hash]; ok {
			continue
		}
		i, ok := s.index[hash]
		if !ok {
			continue
		}
		seen[hash] = struct{}{}
		stack = append(stack, s.commits[i].Parents...)
	}
	return seen
}
