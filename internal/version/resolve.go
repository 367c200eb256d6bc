package version

import (
	"strings"

	clierrors "github.com/ShogunPanda/cambi/internal/errors"
)

// Target is an explicit version request: a literal version or a bump keyword.
// The zero Target means "use the inferred bump".
type Target struct {
	Literal *Version
	Bump    BumpLevel
}

// IsZero reports whether no explicit target was given.
func (t Target) IsZero() bool {
	return t.Literal == nil && t.Bump == BumpNone
}

// String renders the target as the user would type it.
func (t Target) String() string {
	switch {
	case t.Literal != nil:
		return t.Literal.String()
	case t.Bump != BumpNone:
		return t.Bump.String()
	default:
		return ""
	}
}

// ParseTarget parses a positional target. Empty input yields the zero Target.
func ParseTarget(s string) (Target, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Target{}, nil
	}
	if level, ok := ParseBumpLevel(s); ok {
		return Target{Bump: level}, nil
	}
	v, err := Parse(s)
	if err != nil {
		return Target{}, err
	}
	return Target{Literal: &v}, nil
}

// Resolution is the outcome of resolving the next version.
type Resolution struct {
	// Previous is the baseline, valid when HasPrevious is true.
	Previous    Version
	HasPrevious bool
	// Next is the version to release.
	Next Version
	// Bump is the level that was applied; BumpNone for literal targets.
	Bump BumpLevel
	// Explicit is true when Next came from an explicit target.
	Explicit bool
}

// NothingToRelease reports whether resolution left the version unchanged
// because no commit required a bump.
func (r Resolution) NothingToRelease() bool {
	return !r.Explicit && r.Bump == BumpNone
}

// Resolve computes the next version. A literal target is used verbatim; a bump
// keyword is applied to the baseline; otherwise the inferred bump is applied.
// Applying a bump without a baseline fails with MissingBaseline.
func Resolve(baseline *Version, target Target, inferred BumpLevel) (Resolution, error) {
	if target.Literal != nil {
		r := Resolution{Next: *target.Literal, Explicit: true}
		if baseline != nil {
			r.Previous, r.HasPrevious = *baseline, true
		}
		return r, nil
	}

	if baseline == nil {
		return Resolution{}, clierrors.MissingBaseline()
	}

	level, explicit := inferred, false
	if target.Bump != BumpNone {
		level, explicit = target.Bump, true
	}
	return Resolution{
		Previous:    *baseline,
		HasPrevious: true,
		Next:        baseline.Bump(level),
		Bump:        level,
		Explicit:    explicit,
	}, nil
}
