package viewz

import (
	"fmt"
	"strings"
)

// ErrorKind categorizes an Error.
type ErrorKind string

const (
	// ConfigurationError is an ambiguous or incomplete registry. Fatal at startup.
	ConfigurationError ErrorKind = "configuration"
	// ClassificationMiss is a value no special shape matched. Recovered as a text leaf.
	ClassificationMiss ErrorKind = "classification_miss"
	// AsyncLoadFailure is an external resource that failed to load. Recovered as an empty leaf.
	AsyncLoadFailure ErrorKind = "async_load"
	// AbsentKey is a mapping entry with no value. Recovered as the placeholder.
	AbsentKey ErrorKind = "absent_key"
)

// Error is the structured error type used by the renderer and registry.
type Error struct {
	Cause  error
	Kind   ErrorKind
	Entry  string
	GoType string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Kind))
	b.WriteByte(']')

	if e.Entry != "" {
		b.WriteString(" entry ")
		b.WriteString(e.Entry)
	}
	if e.GoType != "" {
		b.WriteString(" (Go type ")
		b.WriteString(e.GoType)
		b.WriteByte(')')
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// ErrConfiguration matches any ConfigurationError via errors.Is.
var ErrConfiguration = &Error{Kind: ConfigurationError}

// ErrAsyncLoad matches any AsyncLoadFailure via errors.Is.
var ErrAsyncLoad = &Error{Kind: AsyncLoadFailure}

// ErrorBuilder provides structured error construction
type ErrorBuilder struct {
	err Error
}

// NewError creates a new error builder
func NewError(kind ErrorKind) *ErrorBuilder {
	return &ErrorBuilder{err: Error{Kind: kind}}
}

// Entry sets the registry entry name
func (b *ErrorBuilder) Entry(name string) *ErrorBuilder {
	b.err.Entry = name
	return b
}

// GoType sets the Go type name
func (b *ErrorBuilder) GoType(t string) *ErrorBuilder {
	b.err.GoType = t
	return b
}

// Cause sets the underlying error
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *ErrorBuilder) Detail(msg string, args ...any) *ErrorBuilder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *ErrorBuilder) Build() *Error {
	return &b.err
}
