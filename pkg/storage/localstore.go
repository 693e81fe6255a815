package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// LocalStore is a device-scoped key/value store backed by a single JSON
// file. It holds per-device state such as the participant's in-progress
// number selections; it is never shared between clients.
type LocalStore struct {
	path string
	mu   sync.Mutex
}

// NewLocalStore creates a store persisting to the given file path.
func NewLocalStore(path string) *LocalStore {
	return &LocalStore{path: path}
}

// Load reads the value stored under key into out. It reports false when
// the file or the key does not exist yet.
func (s *LocalStore) Load(key string, out any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return false, err
	}

	raw, ok := entries[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("error decoding %s: %w", key, err)
	}
	return true, nil
}

// Save writes the value under key, replacing any previous value.
func (s *LocalStore) Save(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", key, err)
	}
	entries[key] = raw

	return s.write(entries)
}

// Delete removes the value stored under key, if any.
func (s *LocalStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)

	return s.write(entries)
}

func (s *LocalStore) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", s.path, err)
	}

	entries := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", s.path, err)
	}
	return entries, nil
}

func (s *LocalStore) write(entries map[string]json.RawMessage) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("error encoding store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", s.path, err)
	}
	return nil
}
