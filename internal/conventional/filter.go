package conventional

import (
	"regexp"
	"strings"

	clierrors "github.com/ShogunPanda/cambi/internal/errors"
)

// DefaultIgnorePatterns skip work-in-progress, fixup and merge commits.
var DefaultIgnorePatterns = []string{
	`^.+: fixup$`,
	`^.+: wip$`,
	`^fixup: .+$`,
	`^wip: .+$`,
	`^fixup$`,
	`^wip$`,
	`^Merge .+$`,
}

// Filter decides which commit subjects are excluded from inference and output.
// Patterns are matched case-sensitively as written; anchors come from the
// pattern itself.
type Filter struct {
	patterns []*regexp.Regexp
}

// NewFilter compiles the given ignore patterns.
func NewFilter(patterns []string) (*Filter, error) {
	f := &Filter{patterns: make([]*regexp.Regexp, 0, len(patterns))}
	for _, p := range patterns {
		if strings.TrimSpace(p) == "" {
			continue
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, clierrors.InvalidPattern("ignore pattern", p, err)
		}
		f.patterns = append(f.patterns, re)
	}
	return f, nil
}

// MustFilter is like NewFilter but panics on invalid patterns.
func MustFilter(patterns []string) *Filter {
	f, err := NewFilter(patterns)
	if err != nil {
		panic(err)
	}
	return f
}

// Ignored reports whether a subject is excluded. Merge commits always are.
func (f *Filter) Ignored(subject string) bool {
	if strings.HasPrefix(subject, "Merge ") {
		return true
	}
	if f == nil {
		return false
	}
	for _, re := range f.patterns {
		if re.MatchString(subject) {
			return true
		}
	}
	return false
}
