package plugin

import "errors"

var (
	// ErrNotConfigured means the settings lack a service URL or API token.
	ErrNotConfigured = errors.New("vikunja API is not configured")

	// ErrNoDefaultList means a task was submitted before a default list was chosen.
	ErrNoDefaultList = errors.New("no default list set")

	// ErrInvalidArguments means a callback arrived with missing or mistyped parameters.
	ErrInvalidArguments = errors.New("invalid callback arguments")

	// ErrUnknownMethod means the launcher invoked a method this plugin does not serve.
	ErrUnknownMethod = errors.New("unknown method")
)
