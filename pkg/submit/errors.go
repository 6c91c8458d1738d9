package submit

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTask is returned when a request names no task path.
	ErrNoTask = errors.New("submit: task path is required")
	// ErrInvalidPayload wraps a validation failure detected before any request.
	ErrInvalidPayload = errors.New("submit: payload is not valid")
)

// APIError is a non-2xx response from the job server. Message, Type and Field
// come from the server's JSON error body when present.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Type       string `json:"type"`
	Field      string `json:"field,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("submit: server returned %d", e.StatusCode)
	}
	if e.Field != "" {
		return fmt.Sprintf("submit: server returned %d: %s (field %s)", e.StatusCode, e.Message, e.Field)
	}
	return fmt.Sprintf("submit: server returned %d: %s", e.StatusCode, e.Message)
}
