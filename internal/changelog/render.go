package changelog

import (
	"strings"
)

// Template placeholders. Any other "$NAME" is left verbatim.
const (
	PlaceholderDate    = "$DATE"
	PlaceholderVersion = "$VERSION"
	PlaceholderCommits = "$COMMITS"
)

// EmptyNotes is the release body used when a release has no notable commits.
const EmptyNotes = "- No notable changes."

// Renderer renders sections through a template.
type Renderer struct {
	template string
	header   string
	matcher  *templateMatcher
}

// NewRenderer creates a renderer. An empty template selects the default one.
func NewRenderer(template string) *Renderer {
	if strings.TrimSpace(template) == "" {
		template = defaultTemplate
	}
	return &Renderer{template: template, header: defaultHeader, matcher: newTemplateMatcher(template)}
}

// Header returns the document header.
func (r *Renderer) Header() string {
	return r.header
}

// Render renders a full section, heading included, ending with a single newline.
// Placeholders are substituted in one pass, so commit text containing a
// placeholder name is never expanded.
func (r *Renderer) Render(s Section) string {
	replacer := strings.NewReplacer(
		PlaceholderDate, s.Date.Format(DateLayout),
		PlaceholderVersion, s.Version.String(),
		PlaceholderCommits, Bullets(s),
	)
	return strings.TrimRight(replacer.Replace(r.template), "\n") + "\n"
}

// Notes renders the release body for a section.
func (r *Renderer) Notes(s Section) string {
	if s.IsEmpty() {
		return EmptyNotes
	}
	return Bullets(s)
}

// Bullets renders the grouped bullet list without trailing newline.
// Each group is a top-level bullet with its entries nested below it.
func Bullets(s Section) string {
	var sb strings.Builder
	for _, g := range s.Groups {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("- ")
		sb.WriteString(g.Title())
		sb.WriteString(":")
		for _, e := range g.Entries {
			sb.WriteString("\n  - ")
			sb.WriteString(e)
		}
	}
	return sb.String()
}
