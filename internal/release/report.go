package release

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/ShogunPanda/cambi/internal/changelog"
)

var actionColors = map[Action]*color.Color{
	Skip:               color.New(color.Faint),
	Create:             color.New(color.FgGreen, color.Bold),
	Update:             color.New(color.FgYellow, color.Bold),
	DeleteThenRecreate: color.New(color.FgMagenta, color.Bold),
	Delete:             color.New(color.FgRed, color.Bold),
}

// ReportOptions controls the plan report.
type ReportOptions struct {
	Plain   bool
	DryRun  bool
	Verbose bool // Include a notes preview for each changed release
}

// WriteReport prints a human-readable plan.
func WriteReport(w io.Writer, plan *Plan, opts ReportOptions) error {
	label := func(a Action) string {
		text := fmt.Sprintf("%-20s", a.String())
		if opts.Plain {
			return text
		}
		return actionColors[a].Sprint(text)
	}

	if opts.DryRun {
		if _, err := fmt.Fprintln(w, "Dry run: no release will be created, updated or deleted."); err != nil {
			return err
		}
	}

	for _, orphan := range plan.Orphans {
		if _, err := fmt.Fprintf(w, "%s %s (tag no longer exists)\n", label(Delete), orphan.Tag); err != nil {
			return err
		}
	}

	for _, item := range plan.Items {
		d := item.Desired
		suffix := ""
		if d.Prerelease {
			suffix = " [prerelease]"
		}
		if _, err := fmt.Fprintf(w, "%s %s%s\n", label(item.Action), d.Tag, suffix); err != nil {
			return err
		}
		if opts.Verbose && item.Action != Skip {
			err := changelog.FormatSection(d.Section, w, changelog.FormatOptions{Plain: opts.Plain, Indent: "    "})
			if err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintf(w, "%d to create, %d to update, %d to delete, %d unchanged\n",
		plan.Count(Create)+plan.Count(DeleteThenRecreate),
		plan.Count(Update),
		plan.Count(Delete)+plan.Count(DeleteThenRecreate),
		plan.Count(Skip),
	)
	return err
}
