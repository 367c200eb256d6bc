package changelog

import (
	"slices"
	"strings"
)

// Rebuild renders a whole document from sections given oldest first.
// Sections are emitted newest first after the header; empty sections are
// omitted.
func (r *Renderer) Rebuild(sections []Section) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimRight(r.header, "\n"))
	sb.WriteString("\n")

	for _, s := range slices.Backward(sections) {
		if s.IsEmpty() {
			continue
		}
		sb.WriteString("\n")
		sb.WriteString(r.Render(s))
	}
	return sb.String()
}
