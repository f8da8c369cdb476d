// Package plugin routes launcher requests to the settings store, the query
// parser and the Vikunja client, and renders every outcome as result items.
//
// Every failure, from missing settings to a rejected API call, ends up as a
// single descriptive item. Nothing is returned to the caller as an error.
package plugin
