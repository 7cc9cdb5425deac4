// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Error is a typed service error carrying the HTTP status it maps to.
// Keeps handler code clean by centralizing classification here.
type Error struct {
	Code int
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// InvalidArgument creates a 400 error. Use for bad input validation,
// including malformed filter syntax.
func InvalidArgument(msg string) error {
	return &Error{Code: http.StatusBadRequest, Msg: msg}
}

// NotFound creates a 404 error (e.g. swipe target does not exist).
func NotFound(msg string) error {
	return &Error{Code: http.StatusNotFound, Msg: msg}
}

// Conflict creates a 409 error. Surfaced when a concurrent-update race
// persists past the internal retry.
func Conflict(msg string) error {
	return &Error{Code: http.StatusConflict, Msg: msg}
}

// Unavailable creates a 503 error for persistence-layer failures.
// The caller may retry the whole request; the core does not.
func Unavailable(msg string, err error) error {
	return &Error{Code: http.StatusServiceUnavailable, Msg: msg, Err: err}
}

// Map converts repo/infra errors into an HTTP status code and message.
func Map(err error) (int, string) {
	if err == nil {
		return http.StatusOK, ""
	}

	var svcErr *Error
	switch {
	case errors.As(err, &svcErr):
		return svcErr.Code, svcErr.Msg

	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "record not found"

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"

	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout, "request was canceled"

	default:
		// fallback → bubble up error message for debugging
		return http.StatusInternalServerError, err.Error()
	}
}
