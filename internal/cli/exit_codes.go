package cli

import (
	"errors"
	"fmt"

	clierrors "github.com/ShogunPanda/cambi/internal/errors"
)

// Exit codes for the cambi CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure (git, filesystem, GitHub API)
	ExitFailure = 1

	// ExitInvalidArguments indicates invalid or conflicting arguments or configuration
	ExitInvalidArguments = 3

	// ExitMissingPrerequisites indicates missing tags, version files or tokens
	ExitMissingPrerequisites = 4
)

// ExitError carries an exit code for errors that were already reported.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// NewExitError creates an ExitError with the given code.
func NewExitError(code int) error {
	return &ExitError{Code: code}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch clierrors.ToCLIError(err).Category {
	case clierrors.Argument, clierrors.Configuration:
		return ExitInvalidArguments
	case clierrors.Prerequisite:
		return ExitMissingPrerequisites
	default:
		return ExitFailure
	}
}
