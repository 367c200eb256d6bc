package changelog

import (
	"time"

	"github.com/ShogunPanda/cambi/internal/conventional"
	"github.com/ShogunPanda/cambi/internal/history"
	"github.com/ShogunPanda/cambi/internal/version"
)

var day = time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)

func newBuilder() *Builder {
	classifier := conventional.NewClassifier(conventional.MustFilter(conventional.DefaultIgnorePatterns))
	return NewBuilder(classifier, []string{"chore"})
}

// commits returns raw commits, newest first, one hour apart ending at day.
func commits(subjects ...string) []history.Commit {
	out := make([]history.Commit, len(subjects))
	for i, s := range subjects {
		out[i] = history.Commit{
			Hash:    s,
			Subject: s,
			Time:    day.Add(-time.Duration(i) * time.Hour),
		}
	}
	return out
}

func section(v string, subjects ...string) Section {
	return newBuilder().Section(version.MustParse(v), commits(subjects...), day)
}
