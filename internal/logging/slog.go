package logging

import (
	"fmt"
	"log/slog"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation  = "operation"
	KeyMethod     = "method"
	KeyInvocation = "invocation_id"
	KeyDuration   = "duration"
	KeyStatus     = "status"
	KeyStatusCode = "status_code"
	KeyError      = "error"
	KeyListID     = "list_id"
	KeyTool       = "tool"
	KeyTraceID    = "trace_id"
)

// Status values for consistent logging.
// These mirror the instrumentation status labels so log lines and metrics
// can be joined on the same values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithInvocation returns a logger tagged with the invocation correlation id.
func WithInvocation(logger *slog.Logger, id string) *slog.Logger {
	return logger.With(slog.String(KeyInvocation, id))
}

// WithTool returns a logger with the tool attribute set.
func WithTool(logger *slog.Logger, tool string) *slog.Logger {
	return logger.With(slog.String(KeyTool, tool))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Method returns a slog attribute for the launcher method name.
func Method(method string) slog.Attr {
	return slog.String(KeyMethod, method)
}

// InvocationID returns a slog attribute for the invocation correlation id.
func InvocationID(id string) slog.Attr {
	return slog.String(KeyInvocation, id)
}

// TraceID returns a slog attribute for the trace id of the current span.
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// StatusCode returns a slog attribute for an HTTP status code.
func StatusCode(code int) slog.Attr {
	return slog.Int(KeyStatusCode, code)
}

// ListID returns a slog attribute for a Vikunja list id.
func ListID(id int64) slog.Attr {
	return slog.Int64(KeyListID, id)
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that will be omitted from output.
// This allows safely passing Err(maybeNilErr) without adding empty attributes.
//
// Usage:
//
//	logger.Info("operation", logging.Err(err))  // Safe even if err is nil
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// SanitizeToken returns a masked version of a token for logging.
// It returns a length indicator without exposing any token content.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}

// Token returns a slog attribute carrying the sanitized form of an API token.
func Token(token string) slog.Attr {
	return slog.String("api_token", SanitizeToken(token))
}
