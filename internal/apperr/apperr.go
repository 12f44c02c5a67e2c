// Package apperr defines the error kinds surfaced to callers and their
// HTTP status classes.
package apperr

import (
	"errors"
	"net/http"
)

// Kind is a stable, machine-distinguishable error class.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindAccountInactive    Kind = "account_inactive"
	KindIncorrectPassword  Kind = "incorrect_password"
	KindDuplicateAccount   Kind = "duplicate_account"
	KindInvalidRole        Kind = "invalid_role"
	KindUnauthenticated    Kind = "unauthenticated"
	KindForbidden          Kind = "forbidden"
	KindNotFound           Kind = "not_found"
	KindStoreFailure       Kind = "store_failure"
)

// Error carries a kind, a message safe to show to the caller and an
// optional cause that is only ever logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrValidation         = &Error{Kind: KindValidation}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
	ErrAccountInactive    = &Error{Kind: KindAccountInactive}
	ErrIncorrectPassword  = &Error{Kind: KindIncorrectPassword}
	ErrDuplicateAccount   = &Error{Kind: KindDuplicateAccount}
	ErrInvalidRole        = &Error{Kind: KindInvalidRole}
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated}
	ErrForbidden          = &Error{Kind: KindForbidden}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrStoreFailure       = &Error{Kind: KindStoreFailure}
)

func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

func Validation(msg string) *Error      { return New(KindValidation, msg) }
func NotFound(msg string) *Error        { return New(KindNotFound, msg) }
func Forbidden(msg string) *Error       { return New(KindForbidden, msg) }
func Unauthenticated(msg string) *Error { return New(KindUnauthenticated, msg) }

// Store wraps an unexpected RecordStore error. The cause never reaches the caller.
func Store(err error) *Error {
	return &Error{Kind: KindStoreFailure, Message: "internal server error", Err: err}
}

// KindOf returns the kind of err, or KindStoreFailure for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStoreFailure
}

// Status returns the HTTP status class for err.
func Status(err error) int {
	switch KindOf(err) {
	case KindValidation, KindInvalidRole:
		return http.StatusBadRequest
	case KindInvalidCredentials, KindIncorrectPassword, KindUnauthenticated:
		return http.StatusUnauthorized
	case KindAccountInactive, KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindDuplicateAccount:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
