package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
)

var (
	errorLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	errorMsg    = color.New(color.FgRed).SprintFunc()
	fixLabel    = color.New(color.FgGreen, color.Bold).SprintFunc()
	usageLabel  = color.New(color.FgCyan, color.Bold).SprintFunc()
	usageText   = color.New(color.FgCyan).SprintFunc()
	bullet      = color.New(color.FgGreen).SprintFunc()
	categoryFmt = color.New(color.FgYellow).SprintFunc()
	contextKey  = color.New(color.Faint).SprintFunc()
)

// FormatError formats a CLIError for display in the terminal.
// Colors follow fatih/color auto-detection (NO_COLOR, non-TTY).
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, !color.NoColor)
}

// FormatErrorPlain formats a CLIError without colors.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, false)
}

func formatError(err *CLIError, useColors bool) string {
	paint := func(fn func(a ...any) string, s string) string {
		if useColors {
			return fn(s)
		}
		return s
	}

	var sb strings.Builder
	sb.WriteString(paint(errorLabel, "Error"))
	sb.WriteString(" [")
	sb.WriteString(paint(categoryFmt, err.Category.String()))
	sb.WriteString("]: ")
	sb.WriteString(paint(errorMsg, err.Message))
	sb.WriteString("\n")

	if ctx := domainContext(err); len(ctx) > 0 {
		keys := make([]string, 0, len(ctx))
		for k := range ctx {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "  %s %s\n", paint(contextKey, k+":"), ctx[k])
		}
	}

	if err.Usage != "" {
		sb.WriteString("\n")
		sb.WriteString(paint(usageLabel, "Usage: "))
		sb.WriteString(paint(usageText, err.Usage))
		sb.WriteString("\n")
	}

	if len(err.Remediation) > 0 {
		sb.WriteString("\n")
		sb.WriteString(paint(fixLabel, "To fix this:"))
		sb.WriteString("\n")
		for _, step := range err.Remediation {
			sb.WriteString("  ")
			sb.WriteString(paint(bullet, "•"))
			sb.WriteString(" ")
			sb.WriteString(step)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func domainContext(err *CLIError) map[string]string {
	var domainErr *Error
	if err.Err == nil || !stderrors.As(err.Err, &domainErr) {
		return nil
	}
	return domainErr.Context
}

// FprintError prints any error to w, converting it with ToCLIError first.
func FprintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(ToCLIError(err)))
}
