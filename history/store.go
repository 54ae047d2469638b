package history

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"pixbatch/kvstore"
)

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// BatchRecord is what is kept about a finished batch
type BatchRecord struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	Total      int       `json:"total"`       // jobs in the request
	SavedCount uint      `json:"saved_count"` // jobs written before completion or abort
	Error      string    `json:"error,omitempty"`
	Request    string    `json:"request"` // JSON of the batch request
}

var (
	store *kvstore.Store
	mu    sync.RWMutex
)

// Init opens the history store
func Init(dbPath string) error {
	s, err := kvstore.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open history store: %w", err)
	}
	mu.Lock()
	store = s
	mu.Unlock()
	return nil
}

// Close closes the history store
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	return err
}

// Enabled reports whether Init has been called.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return store != nil
}

func current() (*kvstore.Store, error) {
	mu.RLock()
	defer mu.RUnlock()
	if store == nil {
		return nil, fmt.Errorf("history store not initialized")
	}
	return store, nil
}

func encodeRequest(request interface{}) string {
	data, err := json.Marshal(request)
	if err != nil {
		return fmt.Sprintf("failed to marshal request: %v", err)
	}
	return string(data)
}

// RecordSuccess stores a completed batch
func RecordSuccess(id string, request interface{}, total int, saved uint) error {
	return put(BatchRecord{
		ID:         id,
		Status:     StatusCompleted,
		Timestamp:  time.Now(),
		Total:      total,
		SavedCount: saved,
		Request:    encodeRequest(request),
	})
}

// RecordFailure stores an aborted batch together with its error message
func RecordFailure(id string, request interface{}, total int, saved uint, err error) error {
	return put(BatchRecord{
		ID:         id,
		Status:     StatusFailed,
		Timestamp:  time.Now(),
		Total:      total,
		SavedCount: saved,
		Error:      err.Error(),
		Request:    encodeRequest(request),
	})
}

func put(record BatchRecord) error {
	s, err := current()
	if err != nil {
		return err
	}
	return s.PutJSON(record.ID, record)
}

// Get retrieves a record by batch id; nil, nil when there is none
func Get(id string) (*BatchRecord, error) {
	s, err := current()
	if err != nil {
		return nil, err
	}
	var record BatchRecord
	found, err := s.GetJSON(id, &record)
	if err != nil {
		return nil, fmt.Errorf("failed to get batch record: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &record, nil
}

// Delete removes a record
func Delete(id string) error {
	s, err := current()
	if err != nil {
		return err
	}
	return s.Delete(id)
}

// List returns all records, newest first
func List() ([]BatchRecord, error) {
	s, err := current()
	if err != nil {
		return nil, err
	}

	var records []BatchRecord
	err = s.Each(func(_, value []byte) error {
		var record BatchRecord
		if err := json.Unmarshal(value, &record); err != nil {
			return nil // Skip invalid records
		}
		records = append(records, record)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	return records, nil
}

// CleanupOldRecords removes records older than maxAge and returns how many went
func CleanupOldRecords(maxAge time.Duration) (int, error) {
	s, err := current()
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	var keysToDelete []string
	err = s.Each(func(key, value []byte) error {
		var record BatchRecord
		if err := json.Unmarshal(value, &record); err != nil {
			return nil
		}
		if record.Timestamp.Before(cutoff) {
			keysToDelete = append(keysToDelete, string(key))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, key := range keysToDelete {
		if err := s.Delete(key); err != nil {
			return 0, fmt.Errorf("failed to delete old batch record: %w", err)
		}
	}
	return len(keysToDelete), nil
}

// CheckHealth performs a basic read against the history database
func CheckHealth() error {
	s, err := current()
	if err != nil {
		return err
	}
	if _, err := s.Get("__health_check__"); err != nil && err != kvstore.ErrNotFound {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}
