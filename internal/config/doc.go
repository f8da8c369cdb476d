// Package config handles the plugin's two configuration layers.
//
// Settings is the user-facing record stored as config.json in the plugin
// directory (Vikunja URL, API token, default list). It is read on every
// invocation and written by the configure and set-default-list actions.
// A missing file yields Default(); a malformed file yields ErrInvalid so
// callers can report it instead of silently using defaults.
//
// Options are runtime knobs (log level, icon path, HTTP timeout) read with
// viper from an optional plugin.yaml and FLOW_VIKUNJA_* environment variables.
package config
