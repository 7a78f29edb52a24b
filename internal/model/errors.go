package model

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failure at a component boundary.
type ErrorKind string

// Allowed ErrorKind values.
const (
	KindNotFound            ErrorKind = "not_found"
	KindUpstreamUnavailable ErrorKind = "upstream_unavailable"
	KindMalformedResponse   ErrorKind = "malformed_response"
	KindStoreUnavailable    ErrorKind = "store_unavailable"
	KindConfiguration       ErrorKind = "configuration_error"
)

// Error is a structured failure returned across component boundaries instead
// of letting transport-level errors leak to the caller.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

// NewError creates an Error with the given kind and message.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError creates an Error that records its underlying cause.
func WrapError(kind ErrorKind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// HTTPStatus maps the error kind to an HTTP response status.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstreamUnavailable:
		return http.StatusBadGateway
	case KindMalformedResponse:
		return http.StatusBadGateway
	case KindStoreUnavailable:
		return http.StatusServiceUnavailable
	case KindConfiguration:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// KindOf extracts the ErrorKind from err. ok is false for errors outside the
// taxonomy.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// StatusOf returns the HTTP status for err, defaulting to 500 for errors
// outside the taxonomy.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.HTTPStatus()
	}
	return http.StatusInternalServerError
}
