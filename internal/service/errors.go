package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrorKind classifies errors that are the caller's fault.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// Error is a client-facing failure. Anything that is not an *Error is an
// internal failure and is reported as such.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string { return e.Message }

// Is matches on kind and message so sentinel errors compare by value.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func FieldError(field, message string) *Error {
	return Validation(message, map[string]string{field: message})
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

var (
	ErrNotAssigned       = Forbidden("Quiz not assigned to you")
	ErrNotAvailable      = Forbidden("Quiz is not available at this time")
	ErrAttemptFinished   = Conflict("Attempt already finished")
	ErrTimeUp            = Conflict("Time is up")
	ErrAlreadyFinished   = Conflict("Already finished")
	ErrAttemptInProgress = Conflict("Attempt is still in progress")
	ErrBadCredentials    = Unauthorized("No active account found with the given credentials")
	ErrFeedbackDisabled  = Conflict("Feedback drafting is not configured")
)

// notFoundOr maps gorm's missing-row error to a NotFound for what, and wraps
// anything else with the operation name.
func notFoundOr(err error, what, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(what)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// AsError extracts a client-facing error, if err is one.
func AsError(err error) (*Error, bool) {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr, true
	}
	return nil, false
}
