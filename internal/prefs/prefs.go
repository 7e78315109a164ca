// Package prefs persists small user preferences as a flat JSON key-value
// file next to the configuration. Preferences differ from configuration in
// that commands update them as a side effect of normal use, so writes must
// never clobber unrelated keys.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"presenvid/internal/fileutil"
)

// Well-known preference keys.
const (
	// KeyRepositoryType remembers which storage backend the user last chose.
	KeyRepositoryType = "presentation-repository-type"
	// KeyExportFormat remembers the last export container format.
	KeyExportFormat = "export-video-type"
)

const prefsFileName = "prefs.json"

// Store reads and writes the preference file. The zero value is not usable;
// construct with New.
type Store struct {
	path string
}

// New returns a Store backed by the given file path.
func New(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the preference file location inside the user's
// configuration directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "presenvid", prefsFileName), nil
}

// Get returns the stored value for key, or fallback when the key or the
// whole file is absent.
func (s *Store) Get(key, fallback string) (string, error) {
	values, err := s.load()
	if err != nil {
		return "", err
	}
	if v, ok := values[key]; ok {
		return v, nil
	}
	return fallback, nil
}

// Set stores one key, preserving all others.
func (s *Store) Set(key, value string) error {
	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value
	return s.save(values)
}

// Delete removes a key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	values, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.save(values)
}

// Keys returns all stored keys in sorted order.
func (s *Store) Keys() ([]string, error) {
	values, err := s.load()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}
	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse preferences %s: %w", s.path, err)
	}
	return values, nil
}

func (s *Store) save(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create preferences directory: %w", err)
	}
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := fileutil.WriteFileAtomic(s.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}
