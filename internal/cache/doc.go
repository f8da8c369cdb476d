// Package cache stores the most recent lists payload returned by Vikunja.
//
// The payload is written verbatim on every successful fetch and is never
// invalidated; it is a last-write-wins snapshot meant for display only.
package cache
