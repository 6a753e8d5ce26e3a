// Package apperr provides typed application errors that carry an HTTP status.
//
// Services return these errors and the web layer converts them into
// {"error": "..."} responses:
//
//	if name == "" {
//	    return apperr.Validation("shelf name is required")
//	}
//
//	if errors.Is(err, apperr.ErrNotFound) { ... }
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeValidation          Code = "VALIDATION"
	CodeNotFound            Code = "NOT_FOUND"
	CodeForbidden           Code = "FORBIDDEN"
	CodeAuthRequired        Code = "AUTH_REQUIRED"
	CodeNotConfigured       Code = "NOT_CONFIGURED"
	CodeUpstream            Code = "UPSTREAM"
	CodeUpstreamTimeout     Code = "UPSTREAM_TIMEOUT"
	CodeUpstreamUnavailable Code = "UPSTREAM_UNAVAILABLE"
	CodeInternal            Code = "INTERNAL"
)

// HTTPStatus returns the HTTP status code for an error code.
// CodeUpstream has no fixed status; see Error.HTTPStatus.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	case CodeAuthRequired:
		return http.StatusUnauthorized
	case CodeNotConfigured:
		return http.StatusServiceUnavailable
	case CodeUpstreamTimeout:
		return http.StatusGatewayTimeout
	case CodeUpstreamUnavailable, CodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is an application error with a code and a client-safe message.
type Error struct {
	Code    Code
	Message string

	// StatusCode is the upstream status for CodeUpstream errors.
	StatusCode int

	cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status to answer with.
// Upstream errors propagate any non-2xx upstream status verbatim.
func (e *Error) HTTPStatus() int {
	if e.Code == CodeUpstream && e.StatusCode >= 300 && e.StatusCode <= 599 {
		return e.StatusCode
	}
	return e.Code.HTTPStatus()
}

// WithCause returns a copy of e wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		cause:      err,
	}
}

// Sentinel errors for use with errors.Is.
var (
	ErrValidation          = &Error{Code: CodeValidation, Message: "validation error"}
	ErrNotFound            = &Error{Code: CodeNotFound, Message: "not found"}
	ErrForbidden           = &Error{Code: CodeForbidden, Message: "forbidden"}
	ErrAuthRequired        = &Error{Code: CodeAuthRequired, Message: "authentication required"}
	ErrUpstream            = &Error{Code: CodeUpstream, Message: "upstream error"}
	ErrUpstreamTimeout     = &Error{Code: CodeUpstreamTimeout, Message: "upstream timeout"}
	ErrUpstreamUnavailable = &Error{Code: CodeUpstreamUnavailable, Message: "upstream unavailable"}
)

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// Forbidden creates a forbidden error.
func Forbidden(msg string) *Error {
	return &Error{Code: CodeForbidden, Message: msg}
}

// AuthRequired creates an authentication required error.
func AuthRequired(msg string) *Error {
	return &Error{Code: CodeAuthRequired, Message: msg}
}

// NotConfigured creates a not configured error.
func NotConfigured(msg string) *Error {
	return &Error{Code: CodeNotConfigured, Message: msg}
}

// Upstream creates an error for a non-2xx upstream response.
func Upstream(statusCode int, msg string) *Error {
	return &Error{Code: CodeUpstream, Message: msg, StatusCode: statusCode}
}

// UpstreamTimeout creates an upstream timeout error wrapping cause.
func UpstreamTimeout(cause error) *Error {
	return &Error{Code: CodeUpstreamTimeout, Message: "upstream request timed out", cause: cause}
}

// UpstreamUnavailable creates an upstream network failure error wrapping cause.
func UpstreamUnavailable(cause error) *Error {
	return &Error{Code: CodeUpstreamUnavailable, Message: "upstream service unavailable", cause: cause}
}

// Status returns the HTTP status and client message for any error.
// Errors that are not *Error map to 500 with their own message.
func Status(err error) (int, string) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus(), appErr.Message
	}
	return http.StatusInternalServerError, err.Error()
}
