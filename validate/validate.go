// Package validate provides checks for use inside an options struct's
// Validate method.
//
//	func (o *Options) Validate() error {
//		return validate.All(
//			validate.Range("level", o.Level, 1, 9),
//			validate.FileExists("config", o.Config),
//			validate.MutuallyExclusive(map[string]bool{"quiet": o.Quiet, "verbose": o.Verbose}),
//		)
//	}
package validate

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// ValidationError reports a value that parsed correctly but is not acceptable.
type ValidationError struct {
	Field   string
	Value   any
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// ExitCode distinguishes rejected values from usage errors.
func (e *ValidationError) ExitCode() int { return 3 }

// Check is a single deferred validation.
type Check func() error

// All runs checks in order and returns the first failure.
// Errors that are not already a *ValidationError are wrapped.
func All(checks ...Check) error {
	for _, check := range checks {
		if check == nil {
			continue
		}
		if err := check(); err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				return verr
			}
			return &ValidationError{Message: "validation failed", Cause: err}
		}
	}
	return nil
}

// Custom names an arbitrary check for error reporting.
func Custom(name string, fn func() error) Check {
	return func() error {
		err := fn()
		if err == nil {
			return nil
		}
		var verr *ValidationError
		if errors.As(err, &verr) {
			return verr
		}
		return &ValidationError{Field: name, Message: fmt.Sprintf("%s: validation failed", name), Cause: err}
	}
}

// OneOf requires value to be one of allowed.
func OneOf[T comparable](field string, value T, allowed ...T) Check {
	return func() error {
		for _, a := range allowed {
			if value == a {
				return nil
			}
		}
		names := make([]string, len(allowed))
		for i, a := range allowed {
			names[i] = fmt.Sprint(a)
		}
		return &ValidationError{
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf("%s must be one of %s, got %v", field, strings.Join(names, ", "), value),
		}
	}
}

// Range requires lo <= value <= hi.
func Range[T cmp.Ordered](field string, value, lo, hi T) Check {
	return func() error {
		if value < lo || value > hi {
			return &ValidationError{
				Field:   field,
				Value:   value,
				Message: fmt.Sprintf("%s must be between %v and %v, got %v", field, lo, hi, value),
			}
		}
		return nil
	}
}

// NotEmpty requires a non-blank string.
func NotEmpty(field, value string) Check {
	return func() error {
		if strings.TrimSpace(value) == "" {
			return &ValidationError{Field: field, Value: value, Message: field + " must not be empty"}
		}
		return nil
	}
}

// FileExists requires path to name an existing regular file. An empty path passes.
func FileExists(field, path string) Check {
	return func() error {
		if path == "" {
			return nil
		}
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			err = fmt.Errorf("%s is a directory", path)
		}
		if err != nil {
			return &ValidationError{
				Field:   field,
				Value:   path,
				Message: fmt.Sprintf("file validation failed for %s", field),
				Cause:   err,
			}
		}
		return nil
	}
}

// DirExists requires path to name an existing directory. An empty path passes.
func DirExists(field, path string) Check {
	return func() error {
		if path == "" {
			return nil
		}
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			err = fmt.Errorf("%s is not a directory", path)
		}
		if err != nil {
			return &ValidationError{
				Field:   field,
				Value:   path,
				Message: fmt.Sprintf("directory validation failed for %s", field),
				Cause:   err,
			}
		}
		return nil
	}
}

// MutuallyExclusive fails when more than one of the named options is present.
func MutuallyExclusive(present map[string]bool) Check {
	return func() error {
		set := presentNames(present)
		if len(set) > 1 {
			return &ValidationError{
				Field:   strings.Join(set, ", "),
				Message: fmt.Sprintf("options are mutually exclusive: %s", strings.Join(set, ", ")),
			}
		}
		return nil
	}
}

// RequiredWith requires every option in required to be present when field is.
func RequiredWith(field string, present bool, required map[string]bool) Check {
	return func() error {
		if !present {
			return nil
		}
		var missing []string
		for name, ok := range required {
			if !ok {
				missing = append(missing, name)
			}
		}
		if len(missing) == 0 {
			return nil
		}
		sort.Strings(missing)
		return &ValidationError{
			Field:   strings.Join(missing, ", "),
			Message: fmt.Sprintf("%s requires: %s", field, strings.Join(missing, ", ")),
		}
	}
}

func presentNames(present map[string]bool) []string {
	var names []string
	for name, ok := range present {
		if ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
