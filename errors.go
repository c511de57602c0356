package billomat

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is returned for any non-2xx response. The more specific kinds
// below embed it, so errors.As(err, &*HTTPError) matches every status failure.
type HTTPError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Message == "" || e.Message == fallbackMessage(e.StatusCode) {
		return "billomat: " + fallbackMessage(e.StatusCode)
	}
	return fmt.Sprintf("billomat: %s (status %d)", e.Message, e.StatusCode)
}

func fallbackMessage(status int) string {
	return fmt.Sprintf("HTTP error (status %d)", status)
}

// AuthenticationError is returned for 401 and 403 responses.
type AuthenticationError struct{ *HTTPError }

func (e *AuthenticationError) Unwrap() error { return e.HTTPError }

// NotFoundError is returned for 404 responses outside the get-or-nil paths.
type NotFoundError struct{ *HTTPError }

func (e *NotFoundError) Unwrap() error { return e.HTTPError }

// ValidationError is returned for 400 and 422 responses.
type ValidationError struct{ *HTTPError }

func (e *ValidationError) Unwrap() error { return e.HTTPError }

// UnexpectedResponseError means a 2xx response did not have the shape the
// resource expects: the wrapper key was missing or the body was not JSON.
type UnexpectedResponseError struct {
	Op  string
	Key string
	Err error
}

func (e *UnexpectedResponseError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("billomat: unexpected response for %s: %v", e.Op, e.Err)
	case e.Key != "":
		return fmt.Sprintf("billomat: unexpected response for %s: missing %q", e.Op, e.Key)
	default:
		return fmt.Sprintf("billomat: unexpected response for %s", e.Op)
	}
}

func (e *UnexpectedResponseError) Unwrap() error { return e.Err }

// newStatusError maps a status code onto the error taxonomy.
func newStatusError(status int, message, body string) error {
	if message == "" {
		message = fallbackMessage(status)
	}
	base := &HTTPError{StatusCode: status, Message: message, Body: body}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthenticationError{base}
	case http.StatusNotFound:
		return &NotFoundError{base}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &ValidationError{base}
	default:
		return base
	}
}

// IsAuthenticationError reports whether err is an *AuthenticationError.
func IsAuthenticationError(err error) bool {
	var e *AuthenticationError
	return errors.As(err, &e)
}

// IsNotFoundError reports whether err is a *NotFoundError.
func IsNotFoundError(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// IsValidationError reports whether err is a *ValidationError.
func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// IsUnexpectedResponse reports whether err is an *UnexpectedResponseError.
func IsUnexpectedResponse(err error) bool {
	var e *UnexpectedResponseError
	return errors.As(err, &e)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var e *HTTPError
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
