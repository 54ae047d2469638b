package kvstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/pebble"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("key not found")

// Store is a small wrapper around a Pebble DB instance shared by the
// history and credentials stores.
type Store struct {
	DB       *pebble.DB
	DataFile string
}

// Open opens (or creates) a pebble DB at dataFile, creating parent directories.
func Open(dataFile string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dataFile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	db, err := pebble.Open(dataFile, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Store{DB: db, DataFile: dataFile}, nil
}

// Set stores a value under the given key.
func (s *Store) Set(key string, value []byte) error {
	return s.DB.Set([]byte(key), value, pebble.Sync)
}

// Get returns a copy of the value for key, or ErrNotFound.
func (s *Store) Get(key string) ([]byte, error) {
	value, closer, err := s.DB.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer closer.Close()
	// value is only valid until closer.Close
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Delete removes the key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	return s.DB.Delete([]byte(key), pebble.Sync)
}

// PutJSON marshals v and stores it under key.
func (s *Store) PutJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return s.Set(key, data)
}

// GetJSON loads key into v. It returns false, nil when the key is missing.
func (s *Store) GetJSON(key string, v any) (bool, error) {
	data, err := s.Get(key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return true, nil
}

// Each calls fn for every key/value pair in key order. The slices are only
// valid during the call. Iteration stops at the first error fn returns.
func (s *Store) Each(fn func(key, value []byte) error) error {
	iter, err := s.DB.NewIter(&pebble.IterOptions{})
	if err != nil {
		return fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		if err := fn(iter.Key(), iter.Value()); err != nil {
			return err
		}
	}
	if err := iter.Error(); err != nil {
		return fmt.Errorf("iteration error: %w", err)
	}
	return nil
}

// Close closes the underlying DB.
func (s *Store) Close() error {
	return s.DB.Close()
}
