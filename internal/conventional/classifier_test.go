package conventional

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clierrors "github.com/ShogunPanda/cambi/internal/errors"
	"github.com/ShogunPanda/cambi/internal/history"
)

func raw(subjects ...string) []history.Commit {
	out := make([]history.Commit, len(subjects))
	for i, s := range subjects {
		out[i] = history.Commit{Hash: string(rune('a' + i)), Subject: s}
	}
	return out
}

func TestFilter_Ignored(t *testing.T) {
	t.Parallel()

	f := MustFilter(DefaultIgnorePatterns)
	tests := map[string]struct {
		subject string
		want    bool
	}{
		"wip with type":         {subject: "chore: wip", want: true},
		"fixup with type":       {subject: "feat: fixup", want: true},
		"wip prefix":            {subject: "wip: half done", want: true},
		"fixup prefix":          {subject: "fixup: typo", want: true},
		"bare wip":              {subject: "wip", want: true},
		"bare fixup":            {subject: "fixup", want: true},
		"merge commit":          {subject: "Merge branch 'main'", want: true},
		"wip inside text":       {subject: "feat: wipe cache", want: false},
		"case-sensitive":        {subject: "WIP", want: false},
		"regular feature":       {subject: "feat: add X", want: false},
		"regular fix":           {subject: "fix: correct Y", want: false},
		"trailing text on wip":  {subject: "chore: wip more", want: false},
		"merge without a space": {subject: "Mergeable: thing", want: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, f.Ignored(tc.subject))
		})
	}
}

func TestNewFilter_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := NewFilter([]string{"^ok$", "(unclosed"})
	require.Error(t, err)
	assert.ErrorIs(t, err, clierrors.ErrInvalidPattern)
}

func TestNewFilter_SkipsBlankPatterns(t *testing.T) {
	t.Parallel()

	f, err := NewFilter([]string{"", "  "})
	require.NoError(t, err)
	assert.False(t, f.Ignored("anything"))
}

func TestClassifier_Classify(t *testing.T) {
	t.Parallel()

	c := NewClassifier(MustFilter(DefaultIgnorePatterns))
	got := c.ClassifyAll(raw("feat: add X", "fix: correct Y", "chore: wip", "Merge pull request #1", "docs readme"))

	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b", "e"}, []string{got[0].Hash, got[1].Hash, got[2].Hash})
	assert.Equal(t, []Type{Feat, Fix, Other}, []Type{got[0].Type, got[1].Type, got[2].Type})
	assert.False(t, got[2].Conventional)
}

func TestClassifier_IsLazy(t *testing.T) {
	t.Parallel()

	c := NewClassifier(nil)
	seq := c.Classify(slices.Values(raw("feat: one", "feat: two", "feat: three")))

	var seen []string
	for commit := range seq {
		seen = append(seen, commit.Description)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"one", "two"}, seen)
}

func TestClassifier_NilFilterStillDropsMerges(t *testing.T) {
	t.Parallel()

	got := NewClassifier(nil).ClassifyAll(raw("Merge branch 'x'", "wip"))
	require.Len(t, got, 1)
	assert.Equal(t, "wip", got[0].Subject)
}
