// Package dslerr defines the categorised error kinds mamegen exposes at
// its boundary: syntax errors from the parser, semantic errors from the
// analyser, and generation errors from the row generator. Errors are
// categorised, not layered — the first error raised aborts the run.
package dslerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// SyntaxError reports a lexical or grammatical violation, with the
// source position it was found at.
type SyntaxError struct {
	Message string
	Line    int
	Column  int
	cause   error
}

func NewSyntaxError(line, col int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Message: fmt.Sprintf(format, args...), Line: line, Column: col}
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 && e.Column == 0 {
		return fmt.Sprintf("syntax error: %s", e.Message)
	}
	return fmt.Sprintf("syntax error at %d:%d: %s", e.Line, e.Column, e.Message)
}

func (e *SyntaxError) Unwrap() error { return e.cause }

// WrapSyntax wraps an underlying cause into a SyntaxError, preserving a
// traceback the way aretext wraps internal failures with pkg/errors.
func WrapSyntax(cause error, line, col int, msg string) *SyntaxError {
	return &SyntaxError{Message: msg, Line: line, Column: col, cause: errors.Wrap(cause, msg)}
}

// InvalidRuleError reports a semantically invalid rule: a missing
// mandatory directive, a conflicting pair, an out-of-range probability.
type InvalidRuleError struct {
	Message string
	cause   error
}

func NewInvalidRuleError(format string, args ...any) *InvalidRuleError {
	return &InvalidRuleError{Message: fmt.Sprintf(format, args...)}
}

func (e *InvalidRuleError) Error() string { return "invalid rule: " + e.Message }
func (e *InvalidRuleError) Unwrap() error { return e.cause }

// UnknownColumnError reports a selector or column reference that does
// not resolve against HEADER.
type UnknownColumnError struct {
	Message string
	cause   error
}

func NewUnknownColumnError(format string, args ...any) *UnknownColumnError {
	return &UnknownColumnError{Message: fmt.Sprintf(format, args...)}
}

func (e *UnknownColumnError) Error() string { return "unknown column: " + e.Message }
func (e *UnknownColumnError) Unwrap() error { return e.cause }

// UnknownReferenceError reports a reference() directive naming a table
// that isn't declared anywhere in the program.
type UnknownReferenceError struct {
	Message string
	cause   error
}

func NewUnknownReferenceError(format string, args ...any) *UnknownReferenceError {
	return &UnknownReferenceError{Message: fmt.Sprintf(format, args...)}
}

func (e *UnknownReferenceError) Error() string { return "unknown reference: " + e.Message }
func (e *UnknownReferenceError) Unwrap() error { return e.cause }

// GenerationError reports an unrecoverable state reached while
// producing rows: a strict-policy NULL collision, an empty seq
// interval, and similar runtime-only failures.
type GenerationError struct {
	Message string
	cause   error
}

func NewGenerationError(format string, args ...any) *GenerationError {
	return &GenerationError{Message: fmt.Sprintf(format, args...)}
}

func (e *GenerationError) Error() string { return "generation error: " + e.Message }
func (e *GenerationError) Unwrap() error { return e.cause }

// Wrap attaches msg as context to cause using the same stack-preserving
// wrap the rest of the pack relies on (see aretext's state package),
// without picking a dslerr kind for it. Callers at a boundary should
// prefer the typed constructors above; Wrap is for plumbing internal
// causes through before they're re-raised as one of those kinds.
func Wrap(cause error, msg string) error {
	if cause == nil {
		return nil
	}
	return errors.Wrap(cause, msg)
}
