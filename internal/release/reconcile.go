package release

import (
	"slices"
	"strings"

	"github.com/ShogunPanda/cambi/internal/changelog"
	clierrors "github.com/ShogunPanda/cambi/internal/errors"
	"github.com/ShogunPanda/cambi/internal/version"
)

// DesiredReleases computes the release for every tagged section, oldest first.
// Titles drop the "v" prefix; tags keep their name.
func DesiredReleases(tagged []changelog.TagSection, renderer *changelog.Renderer) []Desired {
	out := make([]Desired, len(tagged))
	for i, ts := range tagged {
		out[i] = Desired{
			Release: Release{
				Tag:   ts.Tag.Name,
				Title: ts.Section.Version.String(),
				Body:  renderer.Notes(ts.Section),
			},
			Version: ts.Section.Version,
			Section: ts.Section,
		}
	}
	return out
}

// Reconcile diffs desired releases against remote ones. It performs no I/O.
//
// Absent releases are created, identical ones skipped and stale ones updated.
// Under Rebuild every existing release is deleted and recreated and remote
// releases without a tag are listed as orphans. A Target restricts the plan
// to that single tag, marked as prerelease when requested.
func Reconcile(desired []Desired, remote []Remote, opts Options) (*Plan, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	byTag := make(map[string]*Remote, len(remote))
	for i := range remote {
		if _, dup := byTag[remote[i].Tag]; !dup {
			byTag[remote[i].Tag] = &remote[i]
		}
	}

	scope := desired
	if opts.Target != "" {
		d, err := selectTarget(desired, opts.Target)
		if err != nil {
			return nil, err
		}
		d.Prerelease = opts.Prerelease
		scope = []Desired{d}
	}

	plan := &Plan{Items: make([]Item, 0, len(scope))}
	for _, d := range scope {
		existing := byTag[d.Tag]
		item := Item{Desired: d, Remote: existing}

		switch {
		case existing == nil:
			item.Action = Create
		case opts.Rebuild:
			item.Action = DeleteThenRecreate
		default:
			if opts.Target == "" {
				item.Desired.Prerelease = existing.Prerelease
			}
			if matches(existing.Release, item.Desired.Release) {
				item.Action = Skip
			} else {
				item.Action = Update
			}
		}
		plan.Items = append(plan.Items, item)
	}

	if opts.Rebuild {
		known := make(map[string]struct{}, len(desired))
		for _, d := range desired {
			known[d.Tag] = struct{}{}
		}
		for _, r := range remote {
			if _, ok := known[r.Tag]; !ok {
				plan.Orphans = append(plan.Orphans, r)
			}
		}
		slices.SortFunc(plan.Orphans, func(a, b Remote) int {
			return strings.Compare(a.Tag, b.Tag)
		})
	}

	return plan, nil
}

// NotesOnly returns the notes of the most recent release without planning.
func NotesOnly(desired []Desired, opts Options) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}
	if len(desired) == 0 {
		return "", clierrors.New(clierrors.KindMissingBaseline, "no release tags found")
	}
	return desired[len(desired)-1].Body, nil
}

func selectTarget(desired []Desired, target string) (Desired, error) {
	v, err := version.Parse(target)
	if err != nil {
		return Desired{}, err
	}
	for _, d := range desired {
		if d.Version == v {
			return d, nil
		}
	}
	return Desired{}, clierrors.UnknownTag(v.Tag())
}

func matches(remote, desired Release) bool {
	return remote.Title == desired.Title &&
		normalizeBody(remote.Body) == normalizeBody(desired.Body) &&
		remote.Prerelease == desired.Prerelease
}

// GitHub normalizes line endings of stored bodies.
func normalizeBody(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n"))
}
