package internal

import (
	"errors"
	"log/slog"
	"net/http"
)

// HTTPError represents an HTTP error with a status code and a user-facing message.
type HTTPError struct {
	// Err is the underlying error (for logging, not exposed to users).
	Err error

	// Message is the user-facing error message.
	Message string

	// Code is the HTTP status code (e.g., 404, 500).
	Code int
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) StatusCode() int {
	return e.Code
}

func (e *HTTPError) StatusText() string {
	return http.StatusText(e.Code)
}

// NewHTTPError creates a new HTTPError with the given status code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// WithError attaches the underlying cause.
func (e *HTTPError) WithError(err error) *HTTPError {
	e.Err = err
	return e
}

// AsHTTPError extracts the HTTPError from an error chain if present.
func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}

// API error kinds.
const (
	KindValueInvalid  = "value:invalid"
	KindValueNotFound = "value:notfound"
	KindPermission    = "permission:forbidden"
)

// APIError is a structured error returned by JSON endpoints.
// It is serialized as {"error": kind, "data": field, "message": text}.
type APIError struct {
	Kind    string `json:"error"`
	Data    string `json:"data"`
	Message string `json:"message"`
	Code    int    `json:"-"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return e.Kind
	}
	return e.Kind + ": " + e.Message
}

func (e *APIError) StatusCode() int {
	if e.Code == 0 {
		return http.StatusBadRequest
	}
	return e.Code
}

// NewAPIError creates an APIError of an application-defined kind with status 400.
func NewAPIError(kind, data, message string) *APIError {
	return &APIError{Kind: kind, Data: data, Message: message, Code: http.StatusBadRequest}
}

// ErrValueInvalid reports a missing or malformed input field.
func ErrValueInvalid(field, message string) *APIError {
	return &APIError{Kind: KindValueInvalid, Data: field, Message: message, Code: http.StatusBadRequest}
}

// ErrNotFound reports that the entity addressed by field does not exist.
func ErrNotFound(field, message string) *APIError {
	return &APIError{Kind: KindValueNotFound, Data: field, Message: message, Code: http.StatusNotFound}
}

// ErrPermission reports that the current user may not perform the action.
func ErrPermission(message string) *APIError {
	return &APIError{Kind: KindPermission, Data: "permission", Message: message, Code: http.StatusForbidden}
}

// AsAPIError extracts the APIError from an error chain if present.
func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// DefaultErrorHandler renders API errors as JSON, HTTP errors as plain text
// and anything else as a logged 500.
func DefaultErrorHandler(c Context, err error) error {
	if ae, ok := AsAPIError(err); ok {
		return c.JSON(ae.StatusCode(), ae)
	}
	if he, ok := AsHTTPError(err); ok {
		if he.Code >= http.StatusInternalServerError {
			c.LogError("request failed", slog.Int("status", he.Code), slog.Any("error", err))
		}
		return c.String(he.Code, he.Message)
	}

	c.LogError("unhandled error", slog.String("error", err.Error()))
	return c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}
