package internal

import (
	"errors"
	"net/http"
)

// HTTPError is the error shape handlers return when they want to pick
// the response status. The error handler renders it as JSON; Err stays
// server-side for logging while Message is what the client reads.
type HTTPError struct {
	Err       error // logged, never rendered
	Message   string
	ErrorCode string // machine-readable code for client dispatch
	RequestID string
	Code      int // HTTP status
}

func (e *HTTPError) Error() string { return e.Message }
func (e *HTTPError) Unwrap() error { return e.Err }

// StatusCode and StatusText expose the HTTP mapping for renderers.
func (e *HTTPError) StatusCode() int    { return e.Code }
func (e *HTTPError) StatusText() string { return http.StatusText(e.Code) }

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// NewHTTPError creates an HTTPError with the given status and
// client-facing message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{Code: code, Message: message}
}

// WithErrorCode attaches a machine-readable code, e.g. "file_too_large".
func WithErrorCode(code string) HTTPErrorOption {
	return func(e *HTTPError) { e.ErrorCode = code }
}

// WithRequestID stamps the request's tracking ID onto the error.
func WithRequestID(id string) HTTPErrorOption {
	return func(e *HTTPError) { e.RequestID = id }
}

// WithError records the underlying cause for logs and errors.Is checks.
func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) { e.Err = err }
}

func build(code int, message string, opts []HTTPErrorOption) *HTTPError {
	e := NewHTTPError(code, message)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Constructors for the statuses handlers actually return.

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return build(http.StatusBadRequest, message, opts)
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return build(http.StatusUnauthorized, message, opts)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return build(http.StatusForbidden, message, opts)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return build(http.StatusNotFound, message, opts)
}

func ErrConflict(message string, opts ...HTTPErrorOption) *HTTPError {
	return build(http.StatusConflict, message, opts)
}

func ErrUnprocessable(message string, opts ...HTTPErrorOption) *HTTPError {
	return build(http.StatusUnprocessableEntity, message, opts)
}

func ErrRequestTooLarge(message string, opts ...HTTPErrorOption) *HTTPError {
	return build(http.StatusRequestEntityTooLarge, message, opts)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return build(http.StatusInternalServerError, message, opts)
}

func ErrServiceUnavailable(message string, opts ...HTTPErrorOption) *HTTPError {
	return build(http.StatusServiceUnavailable, message, opts)
}

// IsHTTPError reports whether err is or wraps an HTTPError.
func IsHTTPError(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr)
}

// AsHTTPError pulls the HTTPError out of err's chain, nil when there
// is none.
func AsHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return nil
}
