// ABOUTME: Normalized error value for every remote collaborator failure
// ABOUTME: Transport, rejection and parse failures all carry status code, status text and server message

package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies where a remote operation failed.
type Kind int

const (
	// KindTransport means the request never produced a response (network, timeout).
	KindTransport Kind = iota + 1
	// KindRejection means the server answered with a non-2xx status.
	KindRejection
	// KindParse means the response body could not be decoded.
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindRejection:
		return "rejection"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// Error is the single error shape handed to completion callbacks.
type Error struct {
	Kind       Kind
	Op         string // human prefix, e.g. "Error saving article"
	StatusCode int    // 0 for transport failures
	StatusText string
	Message    string // optional server-supplied message
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %d, %s", e.Op, e.StatusCode, e.StatusText)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil && e.Kind != KindRejection {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Transport wraps a failure that produced no response.
func Transport(op string, err error) *Error {
	return &Error{
		Kind:       KindTransport,
		Op:         op,
		StatusText: "network error",
		Err:        err,
	}
}

// Rejection builds an error for a non-2xx response.
func Rejection(op string, statusCode int, statusText, message string) *Error {
	if statusText == "" {
		statusText = http.StatusText(statusCode)
	}
	return &Error{
		Kind:       KindRejection,
		Op:         op,
		StatusCode: statusCode,
		StatusText: statusText,
		Message:    message,
	}
}

// Parse wraps a body decoding failure for a response with the given status.
func Parse(op string, statusCode int, err error) *Error {
	return &Error{
		Kind:       KindParse,
		Op:         op,
		StatusCode: statusCode,
		StatusText: "invalid response body",
		Err:        err,
	}
}

// As extracts a *Error from err's chain.
func As(err error) (*Error, bool) {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr, true
	}
	return nil, false
}

// StatusCode returns the status code carried by err, or 0.
func StatusCode(err error) int {
	if rerr, ok := As(err); ok {
		return rerr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 rejection.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 rejection.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
