// Package conventional classifies commit messages following the
// Conventional Commits grammar: type(scope)!: description.
package conventional

import (
	"regexp"
	"strings"
	"time"
)

// Type is the closed set of commit categories used for grouping and bumping.
type Type int

const (
	Other Type = iota
	Feat
	Fix
	Breaking
)

// GroupOrder is the order in which commit types are rendered.
var GroupOrder = []Type{Feat, Fix, Breaking, Other}

func (t Type) String() string {
	switch t {
	case Feat:
		return "feat"
	case Fix:
		return "fix"
	case Breaking:
		return "breaking"
	default:
		return "other"
	}
}

// Commit is a classified commit.
type Commit struct {
	Hash    string
	Subject string
	Time    time.Time

	// Type is resolved once during parsing and never re-derived from Subject.
	Type Type
	// Kind is the lowercased type token (e.g. "chore"), empty when the
	// subject is not a conventional commit.
	Kind        string
	Scope       string
	Description string
	Breaking    bool
	// Conventional is false when the subject did not match the grammar.
	Conventional bool
}

var headerPattern = regexp.MustCompile(`^(?P<type>[A-Za-z][A-Za-z0-9_-]*)(?:\((?P<scope>[^()\r\n]*)\))?(?P<bang>!)?:[ \t]+(?P<desc>\S.*)$`)

var breakingFooters = []string{"BREAKING CHANGE:", "BREAKING-CHANGE:"}

// Parse classifies a single subject and body. It never fails: subjects that do
// not follow the grammar become Other with the whole subject as description.
func Parse(subject, body string) Commit {
	subject = strings.TrimSpace(subject)
	c := Commit{Subject: subject, Description: subject, Breaking: hasBreakingFooter(body)}

	m := headerPattern.FindStringSubmatch(subject)
	if m != nil {
		c.Conventional = true
		c.Kind = strings.ToLower(m[headerPattern.SubexpIndex("type")])
		c.Scope = m[headerPattern.SubexpIndex("scope")]
		c.Description = strings.TrimSpace(m[headerPattern.SubexpIndex("desc")])
		if m[headerPattern.SubexpIndex("bang")] != "" {
			c.Breaking = true
		}
	}

	switch {
	case c.Breaking:
		c.Type = Breaking
	case c.Kind == "feat":
		c.Type = Feat
	case c.Kind == "fix":
		c.Type = Fix
	default:
		c.Type = Other
	}
	return c
}

func hasBreakingFooter(body string) bool {
	for line := range strings.Lines(body) {
		line = strings.TrimSpace(line)
		for _, footer := range breakingFooters {
			if strings.HasPrefix(line, footer) {
				return true
			}
		}
	}
	return false
}
