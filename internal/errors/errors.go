// Package errors provides structured error handling for the cambi CLI.
// Domain failures carry a Kind so callers can branch with errors.Is, and
// CLIError adds a category plus remediation steps for terminal output.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory represents the type of error that occurred.
type ErrorCategory int

const (
	// Argument errors are caused by invalid or conflicting command arguments.
	Argument ErrorCategory = iota
	// Configuration errors are caused by invalid configuration values.
	Configuration
	// Prerequisite errors occur when a required baseline, tag or file is missing.
	Prerequisite
	// Runtime errors occur during command execution.
	Runtime
)

// String returns a human-readable name for the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Argument:
		return "Argument Error"
	case Configuration:
		return "Configuration Error"
	case Prerequisite:
		return "Prerequisite Error"
	case Runtime:
		return "Runtime Error"
	default:
		return "Error"
	}
}

// CLIError is a structured error with category and remediation guidance.
type CLIError struct {
	// Category is the type of error (Argument, Configuration, etc.)
	Category ErrorCategory
	// Message is a human-readable description of what went wrong.
	Message string
	// Remediation is a list of actionable steps to resolve the error.
	Remediation []string
	// Usage shows the correct command syntax (optional, for argument errors).
	Usage string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewArgumentErrorWithUsage creates a new argument error that includes correct usage syntax.
func NewArgumentErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	return &CLIError{Category: Argument, Message: message, Usage: usage, Remediation: remediation}
}

// NewPrerequisiteError creates a new prerequisite error.
func NewPrerequisiteError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Prerequisite, Message: message, Remediation: remediation}
}

// Wrap wraps an existing error with a CLIError, preserving the original message.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{Category: category, Message: err.Error(), Remediation: remediation, Err: err}
}

// WrapWithMessage wraps an error with a custom message and category.
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     fmt.Sprintf("%s: %v", message, err),
		Remediation: remediation,
		Err:         err,
	}
}

// AsCLIError attempts to convert an error to a CLIError.
// Returns nil if no CLIError is found in the chain.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if stderrors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}
