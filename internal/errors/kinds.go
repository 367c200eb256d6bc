package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind identifies a class of domain failure.
type Kind int

const (
	KindUnknown Kind = iota
	// KindParseDegraded marks a commit subject that is not a conventional commit.
	// It is never fatal.
	KindParseDegraded
	// KindMissingBaseline means no previous version is known and no explicit target was given.
	KindMissingBaseline
	// KindConflictingFlags means mutually exclusive options were combined.
	KindConflictingFlags
	// KindMalformedVersion means a version string is not three non-negative integers.
	KindMalformedVersion
	// KindAmbiguousSection means a changelog holds more than one section for a version.
	KindAmbiguousSection
	// KindUnknownTag means an explicit release target has no matching tag.
	KindUnknownTag
	// KindInvalidPattern means a configured regular expression does not compile.
	KindInvalidPattern
)

var kindNames = map[Kind]string{
	KindUnknown:          "unknown",
	KindParseDegraded:    "parse degraded",
	KindMissingBaseline:  "missing baseline",
	KindConflictingFlags: "conflicting flags",
	KindMalformedVersion: "malformed version",
	KindAmbiguousSection: "ambiguous section",
	KindUnknownTag:       "unknown tag",
	KindInvalidPattern:   "invalid pattern",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Sentinels for errors.Is comparisons. Only the Kind is compared.
var (
	ErrParseDegraded    = &Error{Kind: KindParseDegraded}
	ErrMissingBaseline  = &Error{Kind: KindMissingBaseline}
	ErrConflictingFlags = &Error{Kind: KindConflictingFlags}
	ErrMalformedVersion = &Error{Kind: KindMalformedVersion}
	ErrAmbiguousSection = &Error{Kind: KindAmbiguousSection}
	ErrUnknownTag       = &Error{Kind: KindUnknownTag}
	ErrInvalidPattern   = &Error{Kind: KindInvalidPattern}
)

// Error is a domain failure with a Kind and optional context.
type Error struct {
	Kind    Kind
	Message string
	Context map[string]string
	Err     error
}

// New creates a domain error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// WithError attaches an underlying cause.
func (e *Error) WithError(err error) *Error {
	e.Err = err
	return e
}

// WithContext attaches a key/value pair shown in diagnostics.
func (e *Error) WithContext(key, value string) *Error {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// KindOf returns the Kind of the first domain error in err's chain.
func KindOf(err error) Kind {
	var domainErr *Error
	if stderrors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindUnknown
}
