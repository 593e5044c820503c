// Package file implements the TOML-backed profile store holding non-secret
// connection settings, currently the persisted instance URL.
package file

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/joshuastenhouse/rscreporting-go/internal/core/ports/driven"
)

// Ensure ProfileStore implements the interface.
var _ driven.ProfileStore = (*ProfileStore)(nil)

// baseURLKey is the TOML key holding the persisted instance URL.
const baseURLKey = "base_url"

// ProfileStore is a file-based implementation of driven.ProfileStore using
// TOML. Settings are stored in profile.toml within the config directory.
type ProfileStore struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]any
}

// NewProfileStore creates a new TOML-based profile store.
// If configDir is empty, defaults to ~/.rscreport/profile.toml.
func NewProfileStore(configDir string) (*ProfileStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".rscreport")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ProfileStore{
		filePath: filepath.Join(configDir, "profile.toml"),
		data:     make(map[string]any),
	}

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return s, nil
}

// BaseURL returns the persisted instance URL, empty if none.
func (s *ProfileStore) BaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	url, _ := s.data[baseURLKey].(string)
	return url
}

// SetBaseURL persists the instance URL.
func (s *ProfileStore) SetBaseURL(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[baseURLKey] = url
	return s.save()
}

// ClearBaseURL removes the persisted URL.
func (s *ProfileStore) ClearBaseURL() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, baseURLKey)
	return s.save()
}

// load reads the TOML file into memory.
func (s *ProfileStore) load() error {
	content, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}
	return toml.Unmarshal(content, &s.data)
}

// save writes the in-memory data to the TOML file.
// Caller must hold the write lock.
func (s *ProfileStore) save() error {
	content, err := toml.Marshal(s.data)
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath, content, 0600)
}
