package backend

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMalformedEnvelope indicates a 2xx body that does not match the backend envelope.
	ErrMalformedEnvelope = errors.New("backend returned a malformed response")
	// ErrNotPDF indicates a download that did not sniff as a PDF document.
	ErrNotPDF = errors.New("backend did not return a pdf document")
)

// TransportError wraps failures that happen before a response is received.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// NotFound reports whether the backend answered 404.
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// userMessenger is implemented by errors that carry text meant for the operator.
type userMessenger interface {
	UserMessage() string
}

// ErrorMessage converts any error into one human readable line. Server
// messages are returned verbatim, everything else collapses to fallback.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	var messenger userMessenger
	if errors.As(err, &messenger) {
		if msg := messenger.UserMessage(); msg != "" {
			return msg
		}
	}

	return fallback
}

// StatusCode maps an error onto the HTTP status the console should answer with.
func StatusCode(err error) int {
	var apiErr *APIError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &apiErr):
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return apiErr.StatusCode
		}
		return http.StatusBadGateway
	case errors.Is(err, ErrMalformedEnvelope), errors.Is(err, ErrNotPDF):
		return http.StatusBadGateway
	default:
		var transportErr *TransportError
		if errors.As(err, &transportErr) {
			return http.StatusBadGateway
		}
		return http.StatusInternalServerError
	}
}
