package client

import (
	"errors"
)

// GenericErrorMessage is reported when a failed response carries no usable
// error message.
const GenericErrorMessage = "Ocurrió un error en la API"

// APIError is returned for every failed request: non-2xx responses and
// transport failures alike. Error returns only the message so it can be
// shown to the user verbatim.
type APIError struct {
	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int
	Message    string
	// Err is the underlying transport error, if any.
	Err error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsStatus returns true if err (or any wrapped error) is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}

// Message returns the user-facing text for err: the API message when err
// wraps an APIError, otherwise err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
