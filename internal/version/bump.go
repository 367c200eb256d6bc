package version

import (
	"iter"
	"strings"

	"github.com/ShogunPanda/cambi/internal/conventional"
)

// BumpLevel is an ordered semantic bump category.
type BumpLevel int

const (
	BumpNone BumpLevel = iota
	BumpPatch
	BumpMinor
	BumpMajor
)

func (b BumpLevel) String() string {
	switch b {
	case BumpPatch:
		return "patch"
	case BumpMinor:
		return "minor"
	case BumpMajor:
		return "major"
	default:
		return "none"
	}
}

// ParseBumpLevel parses a bump keyword (major, minor or patch).
func ParseBumpLevel(s string) (BumpLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "major":
		return BumpMajor, true
	case "minor":
		return BumpMinor, true
	case "patch":
		return BumpPatch, true
	default:
		return BumpNone, false
	}
}

// LevelOf maps one classified commit to its bump level.
func LevelOf(c conventional.Commit) BumpLevel {
	switch {
	case c.Breaking:
		return BumpMajor
	case c.Type == conventional.Feat:
		return BumpMinor
	default:
		return BumpPatch
	}
}

// Infer folds commits into the highest bump level. Every commit is visited;
// the result does not depend on order and an empty sequence yields BumpNone.
func Infer(commits iter.Seq[conventional.Commit]) BumpLevel {
	level := BumpNone
	for c := range commits {
		level = max(level, LevelOf(c))
	}
	return level
}
