package errors

import "sort"

// Common error messages for the cambi CLI.
// These templates ensure consistent, actionable error messages.

// ConflictingFlags creates a ConflictingFlags error naming the offending options.
func ConflictingFlags(flag string, others ...string) *Error {
	err := New(KindConflictingFlags, "--%s cannot be combined with --%s", flag, joinFlags(others))
	return err.WithContext("flag", flag)
}

// MissingBaseline creates a MissingBaseline error.
func MissingBaseline() *Error {
	return New(KindMissingBaseline, "no previous version found and no explicit version given")
}

// MalformedVersion creates a MalformedVersion error for the given input.
func MalformedVersion(input string) *Error {
	return New(KindMalformedVersion, "invalid version %q: expected MAJOR.MINOR.PATCH", input).
		WithContext("input", input)
}

// UnknownTag creates an UnknownTag error for a release target with no tag.
func UnknownTag(tag string) *Error {
	return New(KindUnknownTag, "no tag %q matches the configured tag pattern", tag).
		WithContext("tag", tag)
}

// InvalidPattern creates an InvalidPattern error for a regex that does not compile.
func InvalidPattern(field, pattern string, cause error) *Error {
	return New(KindInvalidPattern, "invalid %s %q", field, pattern).WithError(cause)
}

// ToCLIError converts any error into a CLIError with remediation guidance.
// Errors that already are CLIErrors are returned unchanged.
func ToCLIError(err error) *CLIError {
	if err == nil {
		return nil
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return cliErr
	}

	switch KindOf(err) {
	case KindConflictingFlags:
		return WrapWithMessage(err, Argument, "conflicting options",
			"Run the command with --help to see which options can be combined",
			"--notes-only is read-only and cannot be used with --rebuild, --dry-run, --token, --owner or --repo",
		)
	case KindMalformedVersion:
		return Wrap(err, Argument,
			"Pass a version such as 1.4.0 or v1.4.0",
			"Or pass one of the bump keywords: major, minor, patch",
		)
	case KindMissingBaseline:
		return Wrap(err, Prerequisite,
			"Create a first tag (e.g. git tag v0.1.0) or pass an explicit version: cambi update 0.1.0",
			"Or point to an existing tag with --from-tag",
		)
	case KindUnknownTag:
		return Wrap(err, Prerequisite,
			"List tags with: git tag --list",
			"Check the tag pattern with: cambi config show",
		)
	case KindInvalidPattern:
		return Wrap(err, Configuration,
			"Fix the regular expression in cambi.yml or the CAMBI_* environment variables",
		)
	default:
		return Wrap(err, Runtime)
	}
}

func joinFlags(flags []string) string {
	sorted := append([]string(nil), flags...)
	sort.Strings(sorted)
	out := ""
	for i, f := range sorted {
		switch {
		case i == 0:
			out = f
		case i == len(sorted)-1:
			out += " or --" + f
		default:
			out += ", --" + f
		}
	}
	if out == "" {
		return "(none)"
	}
	return out
}
