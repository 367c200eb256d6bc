// Package release reconciles the releases implied by git tag history with the
// releases that exist in a remote release store.
package release

import (
	"github.com/ShogunPanda/cambi/internal/changelog"
	"github.com/ShogunPanda/cambi/internal/version"
)

// Action is what the reconciler decided to do for one tag.
type Action int

const (
	Skip Action = iota
	Create
	Update
	DeleteThenRecreate
	// Delete removes a remote release whose tag is gone from history.
	Delete
)

func (a Action) String() string {
	switch a {
	case Create:
		return "create"
	case Update:
		return "update"
	case DeleteThenRecreate:
		return "delete-then-recreate"
	case Delete:
		return "delete"
	default:
		return "skip"
	}
}

// Release is the content of a release as sent to the store.
type Release struct {
	Tag        string
	Title      string
	Body       string
	Prerelease bool
}

// Remote is a release that already exists in the store.
type Remote struct {
	ID int64
	Release
}

// Desired is the release computed from history for one tag.
type Desired struct {
	Release
	Version version.Version
	Section changelog.Section
}

// Item is one reconciliation action.
type Item struct {
	Desired Desired
	Action  Action
	// Remote is the existing release, nil when absent.
	Remote *Remote
}

// Plan is the ordered list of actions, one item per relevant tag in tag
// chronology, plus orphan deletions under rebuild.
type Plan struct {
	Items   []Item
	Orphans []Remote
}

// Count returns how many items (orphans included) carry the given action.
func (p *Plan) Count(a Action) int {
	n := 0
	for _, it := range p.Items {
		if it.Action == a {
			n++
		}
	}
	if a == Delete {
		n += len(p.Orphans)
	}
	return n
}

// Changes reports whether executing the plan would touch the store.
func (p *Plan) Changes() bool {
	return len(p.Items) > p.Count(Skip) || len(p.Orphans) > 0
}
