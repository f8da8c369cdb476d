package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

// ErrCorrupt is returned when the cache holds data that is not valid JSON.
var ErrCorrupt = errors.New("corrupt list cache")

// emptyPayload is what Load returns when nothing has been cached yet.
var emptyPayload = []byte("{}")

// Entry is a list record as seen in the cached payload.
type Entry struct {
	ID    int64
	Title string
}

// ListCache persists the last lists payload fetched from Vikunja.
type ListCache struct {
	path string
}

// New returns a ListCache stored at path.
func New(path string) *ListCache {
	return &ListCache{path: path}
}

// Path returns the cache file path.
func (c *ListCache) Path() string {
	return c.path
}

// Save replaces the cache with raw, byte for byte.
func (c *ListCache) Save(raw []byte) error {
	if !gjson.ValidBytes(raw) {
		return fmt.Errorf("refusing to cache invalid JSON payload (%d bytes)", len(raw))
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(c.path, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write list cache: %w", err)
	}
	return nil
}

// Load returns the cached payload, or an empty JSON object when nothing
// has been cached yet.
func (c *ListCache) Load() ([]byte, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return append([]byte(nil), emptyPayload...), nil
		}
		return nil, fmt.Errorf("failed to read list cache: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, ErrCorrupt
	}
	return data, nil
}

// Entries extracts the id/title pairs from a lists payload. Anything that is
// not an array of objects yields no entries.
func Entries(raw []byte) []Entry {
	result := gjson.ParseBytes(raw)
	if !result.IsArray() {
		return nil
	}

	var entries []Entry
	result.ForEach(func(_, value gjson.Result) bool {
		if !value.IsObject() {
			return true
		}
		entries = append(entries, Entry{
			ID:    value.Get("id").Int(),
			Title: value.Get("title").String(),
		})
		return true
	})
	return entries
}
