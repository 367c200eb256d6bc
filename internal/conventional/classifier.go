package conventional

import (
	"iter"
	"log/slog"
	"slices"
	"strings"

	clierrors "github.com/ShogunPanda/cambi/internal/errors"
	"github.com/ShogunPanda/cambi/internal/history"
)

// Classifier turns raw commits into classified, non-ignored commits.
type Classifier struct {
	filter *Filter
	log    *slog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithLogger sets the logger used to report degraded parses.
func WithLogger(l *slog.Logger) Option {
	return func(c *Classifier) {
		c.log = l
	}
}

// NewClassifier creates a classifier using filter for ignore decisions.
// A nil filter still drops merge commits.
func NewClassifier(filter *Filter, opts ...Option) *Classifier {
	c := &Classifier{filter: filter, log: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify lazily parses commits in source order, dropping ignored ones.
func (c *Classifier) Classify(commits iter.Seq[history.Commit]) iter.Seq[Commit] {
	return func(yield func(Commit) bool) {
		for raw := range commits {
			subject := strings.TrimSpace(raw.Subject)
			if c.filter.Ignored(subject) {
				continue
			}

			parsed := Parse(subject, raw.Body)
			parsed.Hash = raw.Hash
			parsed.Time = raw.Time
			if !parsed.Conventional {
				c.log.Debug("commit is not a conventional commit, classified as other",
					"kind", clierrors.KindParseDegraded.String(), "hash", shortHash(raw.Hash), "subject", subject)
			}
			if !yield(parsed) {
				return
			}
		}
	}
}

// ClassifyAll is a convenience wrapper over Classify for slices.
func (c *Classifier) ClassifyAll(commits []history.Commit) []Commit {
	return slices.Collect(c.Classify(slices.Values(commits)))
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
