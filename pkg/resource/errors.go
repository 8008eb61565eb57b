package resource

import (
	"errors"
	"fmt"
	"strings"
)

// ServerErrorMessage is reported when a failure carries neither a message nor a status.
const ServerErrorMessage = "Server error"

// NetworkError is a failure that never produced an HTTP response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network error: %v", e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// StatusError is a non-2xx response without a server-provided message.
type StatusError struct {
	Code int
	Text string
}

func (e *StatusError) Error() string { return fmt.Sprintf("%d - %s", e.Code, e.Text) }

// ApplicationError carries a descriptive message, either sent by the server
// or produced while decoding a response body.
type ApplicationError struct {
	Code    int
	Message string
	Err     error
}

func (e *ApplicationError) Error() string { return e.Message }
func (e *ApplicationError) Unwrap() error { return e.Err }

// RequestError is what every failed operation returns. Its message is the
// normalized description; the underlying variant is reachable via errors.As.
type RequestError struct {
	Op      string
	Message string
	Err     error
}

func (e *RequestError) Error() string { return e.Message }
func (e *RequestError) Unwrap() error { return e.Err }

// Describe maps a failure to the single string handed to callers:
// a message verbatim, else "{code} - {text}", else ServerErrorMessage.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var appErr *ApplicationError
	if errors.As(err, &appErr) && strings.TrimSpace(appErr.Message) != "" {
		return appErr.Message
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Code != 0 {
		return fmt.Sprintf("%d - %s", statusErr.Code, statusErr.Text)
	}

	return ServerErrorMessage
}

// StatusCode returns the HTTP status attached to err, or 0.
func StatusCode(err error) int {
	var appErr *ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code
	}
	return 0
}
