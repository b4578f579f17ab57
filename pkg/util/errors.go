// Package util provides logging, common error types and string helpers.
package util

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors
var (
	ErrUnknownMatchKind = errors.New("unknown match kind")
	ErrMissingName      = errors.New("entity has no add line")
	ErrFieldCoercion    = errors.New("field value could not be converted")
	ErrNotConnected     = errors.New("device not connected")
	ErrCommandFailed    = errors.New("command failed")
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
)

// LineError reports a configuration line that could not be folded into its
// entity. The line itself is still kept in the entity's config lines.
type LineError struct {
	Entity string
	Field  string
	Line   string
	Err    error
}

func (e *LineError) Error() string {
	var b strings.Builder
	b.WriteString(e.Entity)
	if e.Field != "" {
		b.WriteString(" " + e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	if e.Line != "" {
		fmt.Fprintf(&b, " (line %q)", e.Line)
	}
	return b.String()
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// NewLineError creates a line error wrapping err
func NewLineError(entity, field, line string, err error) *LineError {
	return &LineError{
		Entity: entity,
		Field:  field,
		Line:   line,
		Err:    err,
	}
}

// CommandError reports the command at which a command sequence stopped.
type CommandError struct {
	Index   int
	Command string
	Output  string
	Err     error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command %d %q failed: %v", e.Index+1, e.Command, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += " (" + out + ")"
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return ErrCommandFailed
}

// Cause returns the underlying transport or device error.
func (e *CommandError) Cause() error {
	return e.Err
}

// ValidationError represents one or more validation failures
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "validation failed: " + e.Errors[0]
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// NewValidationError creates a validation error from messages
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Errors: messages}
}

// ValidationBuilder helps accumulate validation errors
type ValidationBuilder struct {
	errors []string
}

// Add adds an error message if condition is false
func (v *ValidationBuilder) Add(condition bool, message string) *ValidationBuilder {
	if !condition {
		v.errors = append(v.errors, message)
	}
	return v
}

// AddError adds an error message unconditionally
func (v *ValidationBuilder) AddError(message string) *ValidationBuilder {
	v.errors = append(v.errors, message)
	return v
}

// AddErrorf adds a formatted error message
func (v *ValidationBuilder) AddErrorf(format string, args ...interface{}) *ValidationBuilder {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
	return v
}

// HasErrors returns true if there are validation errors
func (v *ValidationBuilder) HasErrors() bool {
	return len(v.errors) > 0
}

// Build returns the validation error or nil if no errors
func (v *ValidationBuilder) Build() error {
	if len(v.errors) == 0 {
		return nil
	}
	return &ValidationError{Errors: v.errors}
}
