// Package cherrors implements the error type transferred by the ClickHouse
// native protocol.
//
// Server errors are designed to be transferred over network between
// different languages. Because of this, Error is a concrete type and not an
// interface.
//
// A server error consists of a numeric code, an exception class name, a
// message, the server-side stack trace and an optional nested error
// representing a chained cause.
//
// Error supports brief and full formatting using %v and %+v format specifiers.
package cherrors

import (
	"fmt"
	"strings"

	"golang.org/x/xerrors"
)

// Error is an implementation of built-in go error interface.
type Error struct {
	Code       int32
	Name       string
	Message    string
	StackTrace string

	// Nested is the chained cause, or nil for the innermost error.
	Nested *Error
}

// ContainsErrorCode returns true iff any error in the chain has Code equal to code.
//
// ContainsErrorCode invokes errors.As internally. It is safe to pass arbitrary error value to this function.
func ContainsErrorCode(err error, code int32) bool {
	return FindErrorCode(err, code) != nil
}

// FindErrorCode examines error and the whole nested chain, returning the first
// server error with given error code.
func FindErrorCode(err error, code int32) *Error {
	if err == nil {
		return nil
	}

	var chErr *Error
	if ok := xerrors.As(err, &chErr); ok {
		for e := chErr; e != nil; e = e.Nested {
			if e.Code == code {
				return e
			}
		}
	}

	return nil
}

// FindErrorName examines error and the whole nested chain, returning the first
// server error whose exception class name equals name.
func FindErrorName(err error, name string) *Error {
	if err == nil {
		return nil
	}

	var chErr *Error
	if ok := xerrors.As(err, &chErr); ok {
		for e := chErr; e != nil; e = e.Nested {
			if e.Name == name {
				return e
			}
		}
	}

	return nil
}

func (e *Error) Error() string {
	return fmt.Sprint(e)
}

// Unwrap returns the nested cause.
func (e *Error) Unwrap() error {
	// A nil *Error stored in a non-nil error interface value would still
	// report as non-nil to errors.Unwrap.
	if e.Nested == nil {
		return nil
	}

	return e.Nested
}

func (e *Error) Format(s fmt.State, v rune) { xerrors.FormatError(e, s, v) }

func (e *Error) FormatError(p xerrors.Printer) (next error) {
	p.Printf("%s", e.describe())

	if p.Detail() {
		p.Printf("\n  code: %d\n", e.Code)
		if trace := strings.TrimRight(e.StackTrace, "\n"); trace != "" {
			p.Printf("  stack trace:\n%s\n", indent(trace, "    "))
		}
	}

	// Recursing into the nested cause keeps the brief form a single line.
	if e.Nested != nil {
		return e.Nested
	}

	return nil
}

func (e *Error) describe() string {
	switch {
	case e.Name == "":
		return e.Message
	case e.Message == "":
		return e.Name
	default:
		return fmt.Sprintf("%s: %s", e.Name, e.Message)
	}
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}

	return strings.Join(lines, "\n")
}
