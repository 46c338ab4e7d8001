// Package apperr defines the error kinds services report across their
// boundary. Transport code maps a Kind to a status code; anything that is not
// an *Error is treated as an internal failure.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindAlreadyExists
	KindUnauthorized
	KindForbidden
	KindBadRequest
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAlreadyExists:
		return "already_exists"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindBadRequest:
		return "bad_request"
	default:
		return "internal"
	}
}

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

func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

func NotFound(message string) error      { return New(KindNotFound, message) }
func AlreadyExists(message string) error { return New(KindAlreadyExists, message) }
func Unauthorized(message string) error  { return New(KindUnauthorized, message) }
func Forbidden(message string) error     { return New(KindForbidden, message) }
func BadRequest(message string) error    { return New(KindBadRequest, message) }

// Internal wraps an unexpected failure. The message is safe to show callers;
// err is kept for logging only.
func Internal(message string, err error) error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf reports the kind of err, or KindInternal if err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the caller-facing message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "Internal server error"
}

// IsDomain reports whether err is an expected outcome rather than a failure
// of the system.
func IsDomain(err error) bool {
	return err != nil && KindOf(err) != KindInternal
}
