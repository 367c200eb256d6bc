package changelog

import (
	_ "embed"
)

//go:embed header.md
var defaultHeader string

//go:embed template.md
var defaultTemplate string

// DefaultHeader returns the top-level heading used for new and rebuilt documents.
func DefaultHeader() string {
	return defaultHeader
}

// DefaultTemplate returns the section template used when none is configured.
func DefaultTemplate() string {
	return defaultTemplate
}
