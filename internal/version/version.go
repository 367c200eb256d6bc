// Package version models MAJOR.MINOR.PATCH versions and resolves the next
// release version from a baseline, an explicit target and commit history.
package version

import (
	"cmp"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	clierrors "github.com/ShogunPanda/cambi/internal/errors"
)

// Version is a semantic version without pre-release or build metadata.
type Version struct {
	Major uint64
	Minor uint64
	Patch uint64
}

var (
	strictPattern   = regexp.MustCompile(`^v?(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)$`)
	embeddedPattern = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)`)
)

// Parse parses "1.2.3" or "v1.2.3". Anything else is a MalformedVersion error.
func Parse(s string) (Version, error) {
	m := strictPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Version{}, clierrors.MalformedVersion(s)
	}
	return fromParts(s, m[1:])
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// FromTag extracts the first X.Y.Z triple from a tag name such as
// "v1.2.3" or "release-1.2.3".
func FromTag(tag string) (Version, error) {
	m := embeddedPattern.FindStringSubmatch(tag)
	if m == nil {
		return Version{}, clierrors.MalformedVersion(tag)
	}
	return fromParts(tag, m[1:])
}

func fromParts(input string, parts []string) (Version, error) {
	var nums [3]uint64
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return Version{}, clierrors.MalformedVersion(input).WithError(err)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// String renders the version without a "v" prefix, as used in release titles.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Tag renders the version with a "v" prefix, as used in tag names.
func (v Version) Tag() string {
	return "v" + v.String()
}

// Compare orders versions numerically.
func (v Version) Compare(other Version) int {
	if c := cmp.Compare(v.Major, other.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Minor, other.Minor); c != 0 {
		return c
	}
	return cmp.Compare(v.Patch, other.Patch)
}

// Bump applies a bump level, resetting lower components.
func (v Version) Bump(level BumpLevel) Version {
	switch level {
	case BumpMajor:
		return Version{Major: v.Major + 1}
	case BumpMinor:
		return Version{Major: v.Major, Minor: v.Minor + 1}
	case BumpPatch:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	default:
		return v
	}
}
