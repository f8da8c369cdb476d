// Package logging provides structured logging utilities for the flow-vikunja plugin.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog, JSON or text output
//   - Consistent attribute naming across the codebase
//   - Token sanitization
//   - Logger adapter interface for flexibility
//
// # Output
//
// The launcher reads the plugin response from stdout, so logs are written to
// a file (or discarded), never to stdout:
//
//	logger, closer, err := logging.New(logging.Options{
//	    Level: "debug",
//	    File:  filepath.Join(pluginDir, "flow-vikunja.log"),
//	})
//	defer closer.Close()
//
// # Usage Patterns
//
//	logger := logging.WithOperation(logger, "vikunja.create_task")
//	logger.Info("task created", logging.Status(logging.StatusSuccess))
//
// # Security Considerations
//
// API tokens are never logged directly; use Token or SanitizeToken.
package logging
