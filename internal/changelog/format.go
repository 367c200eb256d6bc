package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/ShogunPanda/cambi/internal/conventional"
)

// GroupStyle defines the color and icon for a commit group.
type GroupStyle struct {
	Color *color.Color
	Icon  string
}

var groupStyles = map[conventional.Type]GroupStyle{
	conventional.Feat:     {Color: color.New(color.FgGreen), Icon: "✓"},
	conventional.Fix:      {Color: color.New(color.FgYellow), Icon: "⚡"},
	conventional.Breaking: {Color: color.New(color.FgRed, color.Bold), Icon: "⚠"},
	conventional.Other:    {Color: color.New(color.FgBlue), Icon: "~"},
}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
	Indent   string
}

// FormatSection writes a section preview with terminal styling.
func FormatSection(s Section, w io.Writer, opts FormatOptions) error {
	width := resolveWidth(opts.MaxWidth)

	heading := fmt.Sprintf("%s (%s)", s.Version, s.Date.Format(DateLayout))
	if !opts.Plain {
		heading = color.New(color.Bold).Sprint(heading)
	}
	if _, err := fmt.Fprintf(w, "%s%s\n", opts.Indent, heading); err != nil {
		return err
	}

	if s.IsEmpty() {
		_, err := fmt.Fprintf(w, "%s  %s\n", opts.Indent, EmptyNotes)
		return err
	}

	for _, g := range s.Groups {
		style := groupStyles[g.Type]
		title := g.Title()
		if !opts.Plain {
			title = style.Color.Sprintf("%s %s", style.Icon, title)
		}
		if _, err := fmt.Fprintf(w, "%s  %s\n", opts.Indent, title); err != nil {
			return err
		}
		prefix := opts.Indent + "    - "
		for _, e := range g.Entries {
			if _, err := fmt.Fprintf(w, "%s%s\n", prefix, truncate(e, width-len(prefix))); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveWidth returns the terminal width or the configured maximum.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 100
}

func truncate(s string, width int) string {
	if width < 8 {
		width = 8
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return strings.TrimRight(string(runes[:width-1]), " ") + "…"
}
