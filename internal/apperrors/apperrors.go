// Package apperrors defines the typed errors used across services and
// handlers, and the mapping from each error kind to an HTTP status.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	// KindInternal is an unexpected persistence or infrastructure failure.
	KindInternal Kind = iota
	// KindValidation is malformed input, with field-level detail.
	KindValidation
	// KindConflict is a duplicate on a unique field.
	KindConflict
	// KindInvalidCredentials is an undifferentiated failed login.
	KindInvalidCredentials
	// KindAuthentication is a missing or unresolvable identity.
	KindAuthentication
	// KindNotFound is a resource that is absent or not owned by the caller.
	KindNotFound
)

// AppError carries a kind, a client-safe message, optional field errors
// and an optional wrapped cause. The cause is for logs only and is never
// serialized into a response.
type AppError struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error kind to an HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindValidation, KindConflict, KindInvalidCredentials:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// NewValidation reports malformed input with a field-keyed map of violations.
func NewValidation(fields map[string]string) *AppError {
	return &AppError{Kind: KindValidation, Message: "Validation error", Fields: fields}
}

// NewConflict reports a duplicate unique field.
func NewConflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

// NewInvalidCredentials reports a failed login. The message is fixed so
// that callers cannot tell an unknown email from a wrong password.
func NewInvalidCredentials() *AppError {
	return &AppError{Kind: KindInvalidCredentials, Message: "Invalid credentials"}
}

// NewAuthentication reports a missing or unresolvable identity.
func NewAuthentication(message string) *AppError {
	return &AppError{Kind: KindAuthentication, Message: message}
}

// NewNotFound reports an absent or not-owned resource. Both cases produce
// the same message so existence never leaks to a non-owner.
func NewNotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

// NewInternal wraps an unexpected failure. The cause stays out of the
// client-facing message.
func NewInternal(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: "Server error", Err: err}
}

// Is reports whether err is an AppError of the given kind anywhere in its
// chain.
func Is(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// From extracts an AppError from err's chain, if present.
func From(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
