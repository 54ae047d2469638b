package credentials

import (
	"errors"
	"fmt"
	"sync"

	"pixbatch/kvstore"
	"pixbatch/logger"
)

// ErrNotFound is returned when no credentials are stored under a key.
var ErrNotFound = errors.New("credentials not found")

var (
	store *kvstore.Store
	mu    sync.RWMutex
)

// OpenDB opens the credentials DB at the specified path
func OpenDB(dbPath string) error {
	s, err := kvstore.Open(dbPath)
	if err != nil {
		logger.Errorf("Failed to open credentials DB: %v", err)
		return err
	}
	mu.Lock()
	store = s
	mu.Unlock()
	return nil
}

// CloseDB closes the DB
func CloseDB() error {
	mu.Lock()
	defer mu.Unlock()
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	return err
}

func current() (*kvstore.Store, error) {
	mu.RLock()
	defer mu.RUnlock()
	if store == nil {
		return nil, fmt.Errorf("credentials store not initialized")
	}
	return store, nil
}

// GetCredentials returns the credentials map stored under key
func GetCredentials(key string) (map[string]string, error) {
	s, err := current()
	if err != nil {
		return nil, err
	}
	creds := make(map[string]string)
	found, err := s.GetJSON(key, &creds)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return creds, nil
}

// StoreCredentials stores the credentials map under the given key
func StoreCredentials(key string, creds map[string]string) error {
	s, err := current()
	if err != nil {
		return err
	}
	return s.PutJSON(key, creds)
}

// DeleteCredentials deletes the credentials for the given key
func DeleteCredentials(key string) error {
	s, err := current()
	if err != nil {
		return err
	}
	return s.Delete(key)
}
