package changelog

import (
	"strings"

	clierrors "github.com/ShogunPanda/cambi/internal/errors"
)

// Insert merges a rendered section into content.
//
// When a section for the same version exists, the first one is replaced in
// place and its trailing blank lines are kept; more than one match yields an
// AmbiguousSection warning. Otherwise the section goes right after the
// document header, before every existing section, which are kept byte for
// byte. An empty document gets the default header.
func Insert(content, version, rendered string) (string, []error) {
	return insert(ParseDocument(content), version, rendered)
}

func insert(doc *Document, version, rendered string) (string, []error) {
	text := strings.TrimRight(rendered, "\n")

	if matches := doc.Find(version); len(matches) > 0 {
		var warnings []error
		if len(matches) > 1 {
			warnings = append(warnings, clierrors.New(clierrors.KindAmbiguousSection,
				"changelog has %d sections for version %s, only the first one was updated", len(matches), version).
				WithContext("version", version))
		}

		block := &doc.Blocks[matches[0]]
		trailing := block.Text[len(strings.TrimRight(block.Text, "\n")):]
		block.Text = text + trailing
		return doc.String(), warnings
	}

	preamble := doc.Preamble
	switch {
	case strings.TrimSpace(preamble) != "":
		preamble = strings.TrimRight(preamble, "\n") + "\n\n"
	case len(doc.Blocks) == 0:
		preamble = strings.TrimRight(defaultHeader, "\n") + "\n\n"
	default:
		preamble = ""
	}

	var sb strings.Builder
	sb.WriteString(preamble)
	sb.WriteString(text)
	sb.WriteString("\n")
	if len(doc.Blocks) > 0 {
		sb.WriteString("\n")
		for _, b := range doc.Blocks {
			sb.WriteString(b.Text)
		}
	}
	return sb.String(), nil
}

// Incremental renders s and inserts it into content. Existing sections are
// recognized by heading and by the shape of the renderer's template.
func (r *Renderer) Incremental(content string, s Section) (string, []error) {
	return insert(parseDocument(content, r.matcher), s.Version.String(), r.Render(s))
}
