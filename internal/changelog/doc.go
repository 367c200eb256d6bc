// Package changelog builds release sections from classified commits and
// maintains a Markdown changelog document.
//
// This package implements:
//   - Section construction grouped by commit type (feat, fix, breaking, other)
//   - Template rendering with the $DATE, $VERSION and $COMMITS placeholders
//   - Incremental insertion that replaces an existing version section in place
//   - Full rebuild of the document from tag history, newest section first
//   - Terminal preview of sections for dry-run reports
//
// Section headings are recognized as Markdown headings (level 2 or deeper)
// containing a MAJOR.MINOR.PATCH version; the first version on the line is
// the section key.
package changelog
