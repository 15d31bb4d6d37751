// Package apperror defines the error categories shared by the services and
// the HTTP layer.
package apperror

import (
	"errors"
	"fmt"
)

// Kind is the outward category of a failure.
type Kind string

const (
	KindValidation   Kind = "validation_error"
	KindDuplicate    Kind = "duplicate"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindRateLimited  Kind = "rate_limited"
	KindInternal     Kind = "internal"
)

// Repository sentinels. Adapters translate driver errors into these so the
// services stay storage agnostic.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
)

// Error carries a category, a short human readable reason and the cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func newError(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

func Validation(msg string) *Error   { return newError(KindValidation, msg) }
func Duplicate(msg string) *Error    { return newError(KindDuplicate, msg) }
func Unauthorized(msg string) *Error { return newError(KindUnauthorized, msg) }
func Forbidden(msg string) *Error    { return newError(KindForbidden, msg) }
func NotFound(msg string) *Error     { return newError(KindNotFound, msg) }
func RateLimited(msg string) *Error  { return newError(KindRateLimited, msg) }

// Internal wraps an unexpected storage or collaborator failure. The cause is
// kept for logging only.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// Wrap attaches a cause to a categorised error.
func (e *Error) Wrap(err error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Err: err}
}

// KindOf returns the category of err, KindInternal for anything that is not
// an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf returns the outward reason of err. Uncategorised errors never
// expose their text.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message
	}
	return "internal server error"
}

// IsNotFound reports whether err is a missing-record error from a repository.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}

// IsDuplicateKey reports whether err is a unique-constraint violation.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}
