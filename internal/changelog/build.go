package changelog

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ShogunPanda/cambi/internal/conventional"
	"github.com/ShogunPanda/cambi/internal/history"
	"github.com/ShogunPanda/cambi/internal/version"
)

// Builder turns raw history into sections.
type Builder struct {
	classifier *conventional.Classifier
	exclude    map[string]struct{}
}

// NewBuilder creates a builder. Commits whose conventional type is listed in
// excludeKinds (e.g. "chore") are left out of sections.
func NewBuilder(classifier *conventional.Classifier, excludeKinds []string) *Builder {
	b := &Builder{classifier: classifier, exclude: make(map[string]struct{}, len(excludeKinds))}
	for _, k := range excludeKinds {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			b.exclude[k] = struct{}{}
		}
	}
	return b
}

// Section builds the section for v from raw commits in source order.
// The section date is the newest commit time; fallback is used when there are
// no commits.
func (b *Builder) Section(v version.Version, commits []history.Commit, fallback time.Time) Section {
	date := fallback
	if len(commits) > 0 {
		date = commits[0].Time
		for _, c := range commits[1:] {
			if c.Time.After(date) {
				date = c.Time
			}
		}
	}

	byType := make(map[conventional.Type][]string)
	for c := range b.classifier.Classify(slices.Values(commits)) {
		if _, skip := b.exclude[c.Kind]; skip && !c.Breaking {
			continue
		}
		byType[c.Type] = append(byType[c.Type], c.Subject)
	}

	s := Section{Version: v, Date: date.UTC()}
	for _, t := range conventional.GroupOrder {
		if entries := byType[t]; len(entries) > 0 {
			s.Groups = append(s.Groups, Group{Type: t, Entries: entries})
		}
	}
	return s
}

// TagSection pairs a release tag with its section.
type TagSection struct {
	Tag     history.Tag
	Section Section
}

// TagSections builds one section per release tag, oldest first.
func (b *Builder) TagSections(snapshot *history.Snapshot) ([]TagSection, error) {
	buckets := snapshot.Buckets()
	out := make([]TagSection, 0, len(buckets))
	for _, bucket := range buckets {
		v, err := version.FromTag(bucket.Tag.Name)
		if err != nil {
			return nil, fmt.Errorf("tag %s: %w", bucket.Tag.Name, err)
		}

		var fallback time.Time
		if c, ok := snapshot.Lookup(bucket.Tag.Commit); ok {
			fallback = c.Time
		}
		out = append(out, TagSection{Tag: bucket.Tag, Section: b.Section(v, bucket.Commits, fallback)})
	}
	return out, nil
}
