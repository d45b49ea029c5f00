package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrorCategory represents the category of a script error.
type ErrorCategory string

const (
	// ErrorCategorySyntax marks malformed script text.
	ErrorCategorySyntax ErrorCategory = "syntax"

	// ErrorCategoryEncoding marks input bytes that are not valid UTF-8.
	ErrorCategoryEncoding ErrorCategory = "encoding"

	// ErrorCategoryResourceLimit marks nesting beyond the configured depth.
	ErrorCategoryResourceLimit ErrorCategory = "resource_limit"
)

// ScriptError is the structured error returned by script loading and traversal.
// ParseError, EncodingError and TraversalDepthExceeded are all ScriptErrors that
// differ by Category; use errors.Is with ErrParse, ErrEncoding or
// ErrTraversalDepthExceeded to tell them apart.
type ScriptError struct {
	Message  string        `json:"message"`
	Category ErrorCategory `json:"category"`

	Source string `json:"source,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
	Offset int    `json:"offset,omitempty"`

	// Diagnostics holds every message reported by the parser, unmodified.
	Diagnostics []string `json:"diagnostics,omitempty"`

	Timestamp time.Time `json:"timestamp"`
	ErrorID   string    `json:"error_id"`

	Cause error `json:"-"`
}

// NewScriptError creates a script error with the given category and message.
func NewScriptError(category ErrorCategory, message string) *ScriptError {
	return &ScriptError{
		Message:   message,
		Category:  category,
		Timestamp: time.Now(),
		ErrorID:   uuid.New().String(),
	}
}

// NewParseError wraps one or more parser diagnostics into a single error.
func NewParseError(diagnostics []string) *ScriptError {
	msg := "malformed script"
	switch len(diagnostics) {
	case 0:
	case 1:
		msg = diagnostics[0]
	default:
		msg = fmt.Sprintf("%s (and %d more)", diagnostics[0], len(diagnostics)-1)
	}
	e := NewScriptError(ErrorCategorySyntax, msg)
	e.Diagnostics = append([]string(nil), diagnostics...)
	return e
}

// NewEncodingError reports invalid UTF-8 at the given byte offset.
func NewEncodingError(offset int) *ScriptError {
	e := NewScriptError(ErrorCategoryEncoding, fmt.Sprintf("invalid UTF-8 sequence at byte %d", offset))
	e.Offset = offset
	return e
}

// NewTraversalDepthExceeded reports a tree nested deeper than maxDepth.
func NewTraversalDepthExceeded(maxDepth, line, column int) *ScriptError {
	return NewScriptError(
		ErrorCategoryResourceLimit,
		fmt.Sprintf("nesting exceeds maximum depth of %d", maxDepth),
	).WithLocation(line, column)
}

// Error implements the error interface.
func (e *ScriptError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Category))
	b.WriteString(" error")
	if e.Source != "" {
		b.WriteString(" in ")
		b.WriteString(e.Source)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " at %d:%d", e.Line, e.Column)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

// Unwrap returns the underlying error for error chain unwrapping.
func (e *ScriptError) Unwrap() error {
	return e.Cause
}

// Is matches the category sentinel so errors.Is(err, ErrParse) works.
func (e *ScriptError) Is(target error) bool {
	switch target {
	case ErrParse:
		return e.Category == ErrorCategorySyntax
	case ErrEncoding:
		return e.Category == ErrorCategoryEncoding
	case ErrTraversalDepthExceeded:
		return e.Category == ErrorCategoryResourceLimit
	}
	return false
}

// WithCause adds a cause to the error.
func (e *ScriptError) WithCause(cause error) *ScriptError {
	e.Cause = cause
	return e
}

// WithSource records the script name or path.
func (e *ScriptError) WithSource(source string) *ScriptError {
	e.Source = source
	return e
}

// WithLocation adds location information to the error.
func (e *ScriptError) WithLocation(line, column int) *ScriptError {
	e.Line = line
	e.Column = column
	return e
}

// IsSyntax checks if the error is a parse error.
func (e *ScriptError) IsSyntax() bool {
	return e.Category == ErrorCategorySyntax
}

// IsEncoding checks if the error is an encoding error.
func (e *ScriptError) IsEncoding() bool {
	return e.Category == ErrorCategoryEncoding
}

// IsResourceLimit checks if the error is a depth guard violation.
func (e *ScriptError) IsResourceLimit() bool {
	return e.Category == ErrorCategoryResourceLimit
}
