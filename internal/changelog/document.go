package changelog

import (
	"regexp"
	"strings"
)

var (
	headingPattern = regexp.MustCompile(`^(#{1,6})[ \t]+\S`)
	versionPattern = regexp.MustCompile(`\d+\.\d+\.\d+`)
	fencePattern   = regexp.MustCompile("^[ \t]{0,3}(```|~~~)")

	placeholderPattern = regexp.MustCompile(`\$(DATE|VERSION|COMMITS)`)
)

// Block is one version section of a document, from its heading up to the next
// section heading. Text keeps the original bytes, trailing blank lines included.
type Block struct {
	Version string
	Text    string
}

// Document is a changelog split into a preamble and version sections.
// Concatenating Preamble and every Block.Text reproduces the input exactly.
type Document struct {
	Preamble string
	Blocks   []Block
}

// ParseDocument splits content into sections. Headings inside fenced code
// blocks are ignored.
func ParseDocument(content string) *Document {
	return parseDocument(content, nil)
}

// parseDocument splits content into sections. A section starts at a level 2+
// heading carrying a version, or at a line matching the template's first line.
func parseDocument(content string, m *templateMatcher) *Document {
	doc := &Document{}
	var current *Block
	inFence := false
	needsKey := false

	for line := range strings.Lines(content) {
		trimmed := strings.TrimRight(line, "\r\n")
		if fencePattern.MatchString(line) {
			inFence = !inFence
		}
		if !inFence {
			if key, ok := sectionKey(line); ok {
				doc.Blocks = append(doc.Blocks, Block{Version: key})
				current = &doc.Blocks[len(doc.Blocks)-1]
				needsKey = false
			} else if m != nil && m.start.MatchString(trimmed) {
				doc.Blocks = append(doc.Blocks, Block{})
				current = &doc.Blocks[len(doc.Blocks)-1]
				needsKey = true
			}
		}

		if current == nil {
			doc.Preamble += line
			continue
		}
		current.Text += line
		if needsKey {
			if k := m.key.FindStringSubmatch(trimmed); k != nil {
				current.Version = k[1]
				needsKey = false
			}
		}
	}
	return doc
}

// templateMatcher recognizes sections rendered from a template: start matches
// the template's first non-blank line and key captures the version from the
// line holding $VERSION.
type templateMatcher struct {
	start *regexp.Regexp
	key   *regexp.Regexp
}

// newTemplateMatcher returns nil when the template cannot identify its own
// sections: no $VERSION, or a first line made of commit text.
func newTemplateMatcher(template string) *templateMatcher {
	var m templateMatcher
	for line := range strings.Lines(template) {
		line = strings.TrimRight(line, " \t\r\n")
		if line == "" {
			continue
		}
		if m.start == nil {
			if strings.Contains(line, PlaceholderCommits) {
				return nil
			}
			m.start = linePattern(line)
		}
		if strings.Contains(line, PlaceholderVersion) {
			m.key = linePattern(line)
			return &m
		}
	}
	return nil
}

// linePattern turns a template line into an anchored regexp. The first
// $VERSION is captured.
func linePattern(line string) *regexp.Regexp {
	var sb strings.Builder
	sb.WriteString("^")
	last := 0
	for _, loc := range placeholderPattern.FindAllStringSubmatchIndex(line, -1) {
		sb.WriteString(regexp.QuoteMeta(line[last:loc[0]]))
		switch line[loc[2]:loc[3]] {
		case "VERSION":
			sb.WriteString(`(\d+\.\d+\.\d+)`)
		case "DATE":
			sb.WriteString(`\d{4}-\d{2}-\d{2}`)
		default:
			sb.WriteString(`.*`)
		}
		last = loc[1]
	}
	sb.WriteString(regexp.QuoteMeta(line[last:]))
	sb.WriteString(`[ \t]*$`)
	return regexp.MustCompile(sb.String())
}

func sectionKey(line string) (string, bool) {
	m := headingPattern.FindStringSubmatch(line)
	if m == nil || len(m[1]) < 2 {
		return "", false
	}
	v := versionPattern.FindString(line)
	return v, v != ""
}

// String reassembles the document.
func (d *Document) String() string {
	var sb strings.Builder
	sb.WriteString(d.Preamble)
	for _, b := range d.Blocks {
		sb.WriteString(b.Text)
	}
	return sb.String()
}

// Versions returns the section keys in document order.
func (d *Document) Versions() []string {
	out := make([]string, len(d.Blocks))
	for i, b := range d.Blocks {
		out[i] = b.Version
	}
	return out
}

// Find returns the indexes of every block keyed by version.
func (d *Document) Find(version string) []int {
	var out []int
	for i, b := range d.Blocks {
		if b.Version == version {
			out = append(out, i)
		}
	}
	return out
}
