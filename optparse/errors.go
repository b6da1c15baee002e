package optparse

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the category of a parse failure.
// Categories drive errors.Is matching, message formatting and exit-code mapping.
type ErrorType string

const (
	ErrorTypeUnknownOption      ErrorType = "unknown_option"
	ErrorTypeOptionArgument     ErrorType = "option_argument"
	ErrorTypeDuplicateOption    ErrorType = "duplicate_option"
	ErrorTypeInvalidDeclaration ErrorType = "invalid_declaration"
)

// Sentinels matched by *ParseError through errors.Is.
var (
	ErrUnknownOption      = errors.New("unknown option")
	ErrOptionArgument     = errors.New("option argument error")
	ErrDuplicateOption    = errors.New("duplicate option")
	ErrInvalidDeclaration = errors.New("invalid option declaration")
)

// Reason refines ErrorTypeOptionArgument failures.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonMissingValue    Reason = "missing_value"
	ReasonUnexpectedValue Reason = "unexpected_value"
	ReasonInvalidValue    Reason = "invalid_value"
)

// ParseError is the single error type produced by the parser and the registry.
type ParseError struct {
	Type    ErrorType
	Reason  Reason
	Message string
	// Option is the raw option text as written by the user (e.g. "--level", "-l=3"),
	// or the declared name for declaration errors.
	Option string
	// Value is the offending value text, if any.
	Value      string
	Suggestion string
	Cause      error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying conversion or declaration cause.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel for the error's type.
func (e *ParseError) Is(target error) bool {
	switch e.Type {
	case ErrorTypeUnknownOption:
		return target == ErrUnknownOption
	case ErrorTypeOptionArgument:
		return target == ErrOptionArgument
	case ErrorTypeDuplicateOption:
		return target == ErrDuplicateOption
	case ErrorTypeInvalidDeclaration:
		return target == ErrInvalidDeclaration
	}
	return false
}

// ExitCode maps the error onto the process exit code used for misuse.
func (e *ParseError) ExitCode() int {
	if e.Type == ErrorTypeInvalidDeclaration || e.Type == ErrorTypeDuplicateOption {
		return 1
	}
	return 2
}

func newUnknownOptionError(raw string) *ParseError {
	return &ParseError{
		Type:    ErrorTypeUnknownOption,
		Message: "unknown option: " + raw,
		Option:  raw,
	}
}

func newUnexpectedPositionalError(arg string) *ParseError {
	return &ParseError{
		Type:    ErrorTypeUnknownOption,
		Message: "unexpected argument: " + arg,
		Option:  arg,
	}
}

func newMissingValueError(raw string) *ParseError {
	return &ParseError{
		Type:    ErrorTypeOptionArgument,
		Reason:  ReasonMissingValue,
		Message: "option requires a value: " + raw,
		Option:  raw,
	}
}

func newUnexpectedValueError(raw, value string) *ParseError {
	return &ParseError{
		Type:    ErrorTypeOptionArgument,
		Reason:  ReasonUnexpectedValue,
		Message: fmt.Sprintf("option does not take a value: %s (got %q)", raw, value),
		Option:  raw,
		Value:   value,
	}
}

func newInvalidValueError(raw, value string, cause error) *ParseError {
	return &ParseError{
		Type:    ErrorTypeOptionArgument,
		Reason:  ReasonInvalidValue,
		Message: fmt.Sprintf("invalid value %q for option %s", value, raw),
		Option:  raw,
		Value:   value,
		Cause:   cause,
	}
}

func newDuplicateOptionError(name, first, second string) *ParseError {
	return &ParseError{
		Type:    ErrorTypeDuplicateOption,
		Message: fmt.Sprintf("option name %q declared by both %s and %s", name, first, second),
		Option:  name,
	}
}

func newDeclarationError(field string, format string, args ...any) *ParseError {
	return &ParseError{
		Type:    ErrorTypeInvalidDeclaration,
		Message: fmt.Sprintf("field %q: ", field) + fmt.Sprintf(format, args...),
		Option:  field,
	}
}

// FormatError builds a user-facing report for err: the main message followed by
// suggestions, one per line. Non-parse errors are reported as-is.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	var builder strings.Builder
	builder.WriteString("Error: ")
	builder.WriteString(err.Error())

	var parseErr *ParseError
	if errors.As(err, &parseErr) && parseErr.Suggestion != "" {
		builder.WriteString("\n  Did you mean '")
		builder.WriteString(parseErr.Suggestion)
		builder.WriteString("'?")
	}
	return builder.String()
}

// ExitCode resolves the process exit code for err.
// Errors exposing an ExitCode() int method decide for themselves; anything else is a
// general failure.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 1
}
