// Package query parses launcher input into a task draft.
//
// A small ordered keyword table ("tomorrow", "next week") maps phrases to
// day offsets. "next week" is a flat seven days, not the next Monday.
package query
