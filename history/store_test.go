package history

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func initTestStore(t *testing.T) {
	t.Helper()
	if err := Init(filepath.Join(t.TempDir(), "test_history.db")); err != nil {
		t.Fatalf("Failed to initialize history store: %v", err)
	}
	t.Cleanup(func() { Close() })
}

func TestRecordAndGet(t *testing.T) {
	initTestStore(t)

	request := map[string]interface{}{"jobs": []string{"a", "b"}}
	if err := RecordSuccess("batch-ok", request, 2, 2); err != nil {
		t.Fatalf("RecordSuccess failed: %v", err)
	}
	if err := RecordFailure("batch-bad", request, 3, 1, errors.New("decode error: /x.png: no such file")); err != nil {
		t.Fatalf("RecordFailure failed: %v", err)
	}

	ok, err := Get("batch-ok")
	if err != nil || ok == nil {
		t.Fatalf("Get batch-ok: record=%v err=%v", ok, err)
	}
	if ok.Status != StatusCompleted || ok.SavedCount != 2 || ok.Total != 2 {
		t.Errorf("Unexpected success record %+v", ok)
	}
	if time.Since(ok.Timestamp) > time.Minute {
		t.Error("Timestamp should be recent")
	}

	bad, err := Get("batch-bad")
	if err != nil || bad == nil {
		t.Fatalf("Get batch-bad: record=%v err=%v", bad, err)
	}
	if bad.Status != StatusFailed || bad.SavedCount != 1 || bad.Error == "" {
		t.Errorf("Unexpected failure record %+v", bad)
	}

	missing, err := Get("nope")
	if err != nil {
		t.Fatalf("Get on missing id returned error: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil for missing record")
	}

	if err := Delete("batch-ok"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if rec, _ := Get("batch-ok"); rec != nil {
		t.Error("Expected nil after deletion")
	}
}

func TestListNewestFirst(t *testing.T) {
	initTestStore(t)

	for _, id := range []string{"first", "second", "third"} {
		if err := RecordSuccess(id, nil, 1, 1); err != nil {
			t.Fatalf("RecordSuccess %s failed: %v", id, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	records, err := List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	if records[0].ID != "third" || records[2].ID != "first" {
		t.Errorf("Expected newest first, got %s..%s", records[0].ID, records[2].ID)
	}
}

func TestCleanupOldRecords(t *testing.T) {
	initTestStore(t)

	s, _ := current()
	old := BatchRecord{ID: "old", Status: StatusCompleted, Timestamp: time.Now().Add(-48 * time.Hour)}
	if err := s.PutJSON(old.ID, old); err != nil {
		t.Fatalf("Failed to seed old record: %v", err)
	}
	if err := RecordSuccess("fresh", nil, 1, 1); err != nil {
		t.Fatalf("RecordSuccess failed: %v", err)
	}

	removed, err := CleanupOldRecords(24 * time.Hour)
	if err != nil {
		t.Fatalf("CleanupOldRecords failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 record removed, got %d", removed)
	}
	if rec, _ := Get("old"); rec != nil {
		t.Error("Old record should be gone")
	}
	if rec, _ := Get("fresh"); rec == nil {
		t.Error("Fresh record should survive")
	}
}

func TestNotInitialized(t *testing.T) {
	Close()
	if Enabled() {
		t.Fatal("Store should be disabled after Close")
	}
	if err := RecordSuccess("x", nil, 1, 1); err == nil {
		t.Error("Expected error when store is not initialized")
	}
	if err := CheckHealth(); err == nil {
		t.Error("Expected health check to fail when not initialized")
	}
}

func TestCheckHealth(t *testing.T) {
	initTestStore(t)
	if err := CheckHealth(); err != nil {
		t.Errorf("Health check failed: %v", err)
	}
}
