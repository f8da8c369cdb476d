package vikunja

import (
	"fmt"
	"strings"
)

// APIError is returned when Vikunja answers with an unexpected status code.
type APIError struct {
	Operation  string // e.g. "create_task", "lists"
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("vikunja %s: unexpected status %d: %s", e.Operation, e.StatusCode, strings.TrimSpace(e.Body))
}

// TransportError is returned when a request never got an HTTP response
// (DNS failure, refused connection, timeout, cancelled context).
type TransportError struct {
	Operation string
	Err       error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("vikunja %s: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying transport failure.
func (e *TransportError) Unwrap() error {
	return e.Err
}
