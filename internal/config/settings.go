package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	// SettingsFile is the settings filename inside the plugin directory.
	SettingsFile = "config.json"

	// DefaultVikunjaURL is the placeholder URL used until the user configures one.
	DefaultVikunjaURL = "http://your-vikunja-instance/api/v1"
)

// ErrInvalid is returned by Load when the settings file exists but cannot be parsed.
var ErrInvalid = errors.New("invalid settings file")

// Settings is the user-facing plugin configuration.
type Settings struct {
	VikunjaURL    string `json:"vikunja_url"`
	APIToken      string `json:"api_token"`
	DefaultListID *int64 `json:"default_list_id,omitempty"`
}

// Default returns the settings used when no settings file exists.
func Default() *Settings {
	return &Settings{
		VikunjaURL: DefaultVikunjaURL,
	}
}

// Configured reports whether both the service URL and the API token are set.
func (s *Settings) Configured() bool {
	return s != nil && strings.TrimSpace(s.VikunjaURL) != "" && strings.TrimSpace(s.APIToken) != ""
}

// HasDefaultList reports whether a default list has been chosen.
func (s *Settings) HasDefaultList() bool {
	return s != nil && s.DefaultListID != nil
}

// WithDefaultList returns a copy of s with the default list set to id.
func (s *Settings) WithDefaultList(id int64) *Settings {
	out := *s
	out.DefaultListID = &id
	return &out
}

// Store loads and saves Settings.
type Store interface {
	// Load returns the stored settings, Default() when none exist,
	// or an error wrapping ErrInvalid when the stored data is unreadable.
	Load() (*Settings, error)

	// Save overwrites the stored settings with s.
	Save(s *Settings) error
}

// FileStore is a Store backed by a JSON file.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore for the settings file in dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, SettingsFile)}
}

// Path returns the settings file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the settings file.
func (s *FileStore) Load() (*Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", SettingsFile, err)
	}
	return decodeSettings(data)
}

// Save writes the full settings record, replacing the file.
func (s *FileStore) Save(settings *Settings) error {
	if settings == nil {
		return errors.New("settings must not be nil")
	}
	data, err := json.MarshalIndent(settings, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", SettingsFile, err)
	}
	return nil
}

func decodeSettings(data []byte) (*Settings, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("%w: empty document", ErrInvalid)
	}

	var doc struct {
		VikunjaURL    string          `json:"vikunja_url"`
		APIToken      string          `json:"api_token"`
		DefaultListID json.RawMessage `json:"default_list_id"`
	}
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	listID, err := decodeListID(doc.DefaultListID)
	if err != nil {
		return nil, err
	}
	return &Settings{VikunjaURL: doc.VikunjaURL, APIToken: doc.APIToken, DefaultListID: listID}, nil
}

// decodeListID accepts hand-edited ids such as 5, 5.0 and "5".
func decodeListID(raw json.RawMessage) (*int64, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	v := gjson.ParseBytes(raw)
	switch v.Type {
	case gjson.Null:
		return nil, nil
	case gjson.Number:
		if id, err := strconv.ParseInt(v.Raw, 10, 64); err == nil {
			return &id, nil
		}
		if id := int64(v.Num); float64(id) == v.Num {
			return &id, nil
		}
	case gjson.String:
		if id, err := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 64); err == nil {
			return &id, nil
		}
	}
	return nil, fmt.Errorf("%w: default_list_id %s is not a list id", ErrInvalid, raw)
}
