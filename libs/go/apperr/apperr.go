// Package apperr carries the failure taxonomy shared by the domain services and
// the gateway: NotFound, Validation and Internal.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a missing target record or a missing referenced owner.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks a malformed, missing or conflicting field.
	ErrValidation = errors.New("validation failed")
	// ErrInternal marks a store or transport failure.
	ErrInternal = errors.New("internal error")
)

// Error is the typed failure returned across service boundaries.
type Error struct {
	Kind   error
	Entity string
	ID     string
	// Parent is set when the missing record is the owner referenced by a write.
	Parent bool
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Kind.Error()
}

// Unwrap exposes both the taxonomy sentinel and the underlying cause to errors.Is.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// NotFound reports that entity id does not exist.
func NotFound(entity, id string) error {
	return &Error{Kind: ErrNotFound, Entity: entity, ID: id, Detail: fmt.Sprintf("%s %s not found", entity, id)}
}

// ParentNotFound reports that the owner referenced by a write does not exist.
func ParentNotFound(entity, id string) error {
	return &Error{Kind: ErrNotFound, Entity: entity, ID: id, Parent: true, Detail: fmt.Sprintf("referenced %s %s not found", entity, id)}
}

// Validation reports a rejected field.
func Validation(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Detail: fmt.Sprintf(format, args...)}
}

// Internal wraps a store or transport failure.
func Internal(cause error) error {
	if cause == nil {
		return nil
	}
	var typed *Error
	if errors.As(cause, &typed) {
		return cause
	}
	return &Error{Kind: ErrInternal, Cause: cause}
}

// KindOf returns the taxonomy sentinel for err. Untyped errors count as internal.
func KindOf(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrValidation):
		return ErrValidation
	default:
		return ErrInternal
	}
}

// IsParentNotFound reports whether err is a missing-owner failure.
func IsParentNotFound(err error) bool {
	var typed *Error
	return errors.As(err, &typed) && typed.Parent && errors.Is(typed.Kind, ErrNotFound)
}
