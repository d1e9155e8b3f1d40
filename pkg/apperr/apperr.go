package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error so handlers can map it to an HTTP status
type Kind string

const (
	KindNotFound     Kind = "NOT_FOUND"     // referenced entity does not exist
	KindUnauthorized Kind = "UNAUTHORIZED"  // actor lacks role/ownership/department capability
	KindInvalidState Kind = "INVALID_STATE" // action attempted against a state not accepting it
	KindValidation   Kind = "VALIDATION"    // missing or malformed input fields
	KindConflict     Kind = "CONFLICT"      // unique-key violation on master data
	KindInternal     Kind = "INTERNAL"      // unexpected failure
)

// Error carries a kind alongside the message so the handler boundary can
// translate failures into structured responses without string matching.
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

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match two apperr values by kind
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *Error     { return New(KindNotFound, message) }
func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }
func InvalidState(message string) *Error { return New(KindInvalidState, message) }
func Validation(message string) *Error   { return New(KindValidation, message) }
func Conflict(message string) *Error     { return New(KindConflict, message) }

// KindOf extracts the kind from any error chain, defaulting to KindInternal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to the status code the handler layer should return
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusForbidden
	case KindInvalidState:
		return http.StatusUnprocessableEntity
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
