package release

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShogunPanda/cambi/internal/changelog"
	clierrors "github.com/ShogunPanda/cambi/internal/errors"
	"github.com/ShogunPanda/cambi/internal/history"
	"github.com/ShogunPanda/cambi/internal/version"
)

func desired(pairs ...string) []Desired {
	out := make([]Desired, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		v := version.MustParse(pairs[i])
		out = append(out, Desired{
			Release: Release{Tag: v.Tag(), Title: v.String(), Body: pairs[i+1]},
			Version: v,
		})
	}
	return out
}

func remote(id int64, tag, body string) Remote {
	return Remote{ID: id, Release: Release{Tag: tag, Title: version.MustParse(tag).String(), Body: body}}
}

func actions(plan *Plan) map[string]Action {
	out := make(map[string]Action, len(plan.Items))
	for _, it := range plan.Items {
		out[it.Desired.Tag] = it.Action
	}
	return out
}

func TestReconcile(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		desired []Desired
		remote  []Remote
		opts    Options
		want    []Action
		tags    []string
	}{
		"stale updated and absent created": {
			desired: desired("1.0.0", "new notes", "1.1.0", "notes"),
			remote:  []Remote{remote(1, "v1.0.0", "old notes")},
			want:    []Action{Update, Create},
			tags:    []string{"v1.0.0", "v1.1.0"},
		},
		"matching skipped": {
			desired: desired("1.0.0", "notes"),
			remote:  []Remote{remote(1, "v1.0.0", "notes\r\n")},
			want:    []Action{Skip},
			tags:    []string{"v1.0.0"},
		},
		"title mismatch is stale": {
			desired: desired("1.0.0", "notes"),
			remote:  []Remote{{ID: 1, Release: Release{Tag: "v1.0.0", Title: "v1.0.0", Body: "notes"}}},
			want:    []Action{Update},
			tags:    []string{"v1.0.0"},
		},
		"rebuild recreates everything present": {
			desired: desired("1.0.0", "a", "1.1.0", "b"),
			remote:  []Remote{remote(1, "v1.0.0", "a"), remote(2, "v1.1.0", "stale")},
			opts:    Options{Rebuild: true},
			want:    []Action{DeleteThenRecreate, DeleteThenRecreate},
			tags:    []string{"v1.0.0", "v1.1.0"},
		},
		"rebuild creates absent": {
			desired: desired("1.0.0", "a", "1.1.0", "b"),
			remote:  []Remote{remote(1, "v1.0.0", "a")},
			opts:    Options{Rebuild: true},
			want:    []Action{DeleteThenRecreate, Create},
			tags:    []string{"v1.0.0", "v1.1.0"},
		},
		"target restricts to one tag": {
			desired: desired("1.0.0", "a", "1.1.0", "b", "1.2.0", "c"),
			opts:    Options{Target: "v1.1.0", Prerelease: true},
			want:    []Action{Create},
			tags:    []string{"v1.1.0"},
		},
		"existing prerelease kept on untargeted runs": {
			desired: desired("1.0.0", "a"),
			remote:  []Remote{{ID: 1, Release: Release{Tag: "v1.0.0", Title: "1.0.0", Body: "a", Prerelease: true}}},
			want:    []Action{Skip},
			tags:    []string{"v1.0.0"},
		},
		"no tags": {
			want: []Action{},
			tags: []string{},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			plan, err := Reconcile(tc.desired, tc.remote, tc.opts)
			require.NoError(t, err)

			gotActions := []Action{}
			gotTags := []string{}
			for _, it := range plan.Items {
				gotActions = append(gotActions, it.Action)
				gotTags = append(gotTags, it.Desired.Tag)
			}
			assert.Equal(t, tc.want, gotActions)
			assert.Equal(t, tc.tags, gotTags)
		})
	}
}

func TestReconcile_TargetMarksPrerelease(t *testing.T) {
	t.Parallel()

	plan, err := Reconcile(desired("1.0.0", "a", "1.1.0", "b"), []Remote{remote(7, "v1.1.0", "b")},
		Options{Target: "1.1.0", Prerelease: true})
	require.NoError(t, err)
	require.Len(t, plan.Items, 1)

	item := plan.Items[0]
	assert.True(t, item.Desired.Prerelease)
	assert.Equal(t, Update, item.Action)
	assert.Equal(t, int64(7), item.Remote.ID)
	assert.Equal(t, "1.1.0", item.Desired.Title)
	assert.Equal(t, "v1.1.0", item.Desired.Tag)
}

func TestReconcile_UnknownTarget(t *testing.T) {
	t.Parallel()

	_, err := Reconcile(desired("1.0.0", "a"), nil, Options{Target: "2.0.0"})
	assert.ErrorIs(t, err, clierrors.ErrUnknownTag)

	_, err = Reconcile(desired("1.0.0", "a"), nil, Options{Target: "latest"})
	assert.ErrorIs(t, err, clierrors.ErrMalformedVersion)
}

func TestReconcile_RebuildOrphans(t *testing.T) {
	t.Parallel()

	plan, err := Reconcile(desired("1.0.0", "a"),
		[]Remote{remote(2, "v0.9.0", "gone"), remote(1, "v1.0.0", "a"), remote(3, "v0.1.0", "gone")},
		Options{Rebuild: true})
	require.NoError(t, err)

	require.Len(t, plan.Orphans, 2)
	assert.Equal(t, "v0.1.0", plan.Orphans[0].Tag)
	assert.Equal(t, "v0.9.0", plan.Orphans[1].Tag)
	assert.Equal(t, 3, plan.Count(Delete)+plan.Count(DeleteThenRecreate))

	plan, err = Reconcile(desired("1.0.0", "a"), []Remote{remote(2, "v0.9.0", "gone")}, Options{})
	require.NoError(t, err)
	assert.Empty(t, plan.Orphans)
}

func TestReconcile_Stable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := &memoryStore{}
	require.NoError(t, store.Create(ctx, Release{Tag: "v1.0.0", Title: "1.0.0", Body: "old"}))

	want := desired("1.0.0", "new", "1.1.0", "b", "1.2.0", "c")
	for _, opts := range []Options{{}, {Rebuild: true}} {
		existing, _ := store.List(ctx)
		plan, err := Reconcile(want, existing, opts)
		require.NoError(t, err)
		_, err = NewExecutor(store, false, nil).Apply(ctx, plan)
		require.NoError(t, err)

		existing, _ = store.List(ctx)
		again, err := Reconcile(want, existing, Options{})
		require.NoError(t, err)
		assert.False(t, again.Changes())
		for tag, action := range actions(again) {
			assert.Equal(t, Skip, action, tag)
		}
	}
}

func TestDesiredReleases(t *testing.T) {
	t.Parallel()

	s := changelog.Section{Version: version.MustParse("1.2.0")}
	got := DesiredReleases([]changelog.TagSection{{Tag: history.Tag{Name: "v1.2.0"}, Section: s}}, changelog.NewRenderer(""))

	require.Len(t, got, 1)
	assert.Equal(t, "v1.2.0", got[0].Tag)
	assert.Equal(t, "1.2.0", got[0].Title)
	assert.Equal(t, changelog.EmptyNotes, got[0].Body)
}

func TestNotesOnly(t *testing.T) {
	t.Parallel()

	notes, err := NotesOnly(desired("1.0.0", "a", "1.1.0", "latest notes"), Options{NotesOnly: true})
	require.NoError(t, err)
	assert.Equal(t, "latest notes", notes)

	_, err = NotesOnly(nil, Options{NotesOnly: true})
	assert.ErrorIs(t, err, clierrors.ErrMissingBaseline)
}
