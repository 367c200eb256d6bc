package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	clierrors "github.com/ShogunPanda/cambi/internal/errors"
)

// ValidationError locates a configuration problem by file and either
// position (syntax) or field (values).
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Message  string
	Field    string
	Err      error
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: field '%s': %s", e.FilePath, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// checkYAMLSyntax parses path as a YAML node tree and reports the first
// syntax error with its position. The file must exist.
func checkYAMLSyntax(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ValidationError{FilePath: path, Message: err.Error(), Err: err}
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		line, column := extractLineColumn(err.Error())
		return &ValidationError{
			FilePath: path,
			Line:     line,
			Column:   column,
			Message:  cleanYAMLError(err.Error()),
			Err:      err,
		}
	}
	return nil
}

// ValidateConfigValues validates struct constraints and compiles every
// pattern. It returns the compiled tag pattern.
func ValidateConfigValues(cfg *Config, filePath string) (*regexp.Regexp, error) {
	if err := newValidator().Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			fieldErr := validationErrors[0]
			return nil, &ValidationError{
				FilePath: filePath,
				Field:    fieldErr.Field(),
				Message:  formatValidationError(fieldErr),
			}
		}
		return nil, &ValidationError{
			FilePath: filePath,
			Message:  err.Error(),
		}
	}

	tagRegexp, err := regexp.Compile(cfg.TagPattern)
	if err != nil {
		return nil, patternError(filePath, "tag_pattern", cfg.TagPattern, err)
	}

	for _, pattern := range cfg.IgnorePatterns {
		if _, err := regexp.Compile(pattern); err != nil {
			return nil, patternError(filePath, "ignore_patterns", pattern, err)
		}
	}

	return tagRegexp, nil
}

func patternError(filePath, field, pattern string, cause error) error {
	return &ValidationError{
		FilePath: filePath,
		Field:    field,
		Message:  fmt.Sprintf("invalid regular expression %q", pattern),
		Err:      clierrors.InvalidPattern(field, pattern, cause),
	}
}

// newValidator reports field names using their koanf keys.
func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return validate
}

// extractLineColumn attempts to extract line and column numbers from a YAML error message.
// Returns 0, 0 if unable to extract.
func extractLineColumn(errMsg string) (line, column int) {
	// yaml.v3 errors look like: "yaml: line 5: could not find expected ':'"
	var l, c int
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d: column %d:", &l, &c); n == 2 {
		return l, c
	}
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d:", &l); n == 1 {
		return l, 1
	}
	return 0, 0
}

// cleanYAMLError removes the "yaml: line X:" prefix from error messages for cleaner output.
func cleanYAMLError(errMsg string) string {
	if idx := strings.LastIndex(errMsg, ": "); idx > 0 {
		if strings.HasPrefix(errMsg, "yaml:") {
			return errMsg[idx+2:]
		}
	}
	return errMsg
}

// formatValidationError formats a validation error for a specific field.
func formatValidationError(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed validation: %s", fieldErr.Tag())
	}
}
