package changelog

import (
	"time"

	"github.com/ShogunPanda/cambi/internal/conventional"
	"github.com/ShogunPanda/cambi/internal/version"
)

// DateLayout is the date format used in section headings.
const DateLayout = "2006-01-02"

// Section is one release's changelog entry.
type Section struct {
	Version version.Version
	Date    time.Time
	Groups  []Group
}

// Group holds the entries of a single commit type, in source order.
type Group struct {
	Type    conventional.Type
	Entries []string
}

// Title returns the heading used for the group in rendered output.
func (g Group) Title() string {
	switch g.Type {
	case conventional.Feat:
		return "Features"
	case conventional.Fix:
		return "Bug fixes"
	case conventional.Breaking:
		return "Breaking changes"
	default:
		return "Other changes"
	}
}

// IsEmpty returns true if the section has no entries.
func (s Section) IsEmpty() bool {
	return s.Count() == 0
}

// Count returns the total number of entries in the section.
func (s Section) Count() int {
	n := 0
	for _, g := range s.Groups {
		n += len(g.Entries)
	}
	return n
}
