package kvstore

import (
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetGetDelete(t *testing.T) {
	s := openTestStore(t)

	if err := s.Set("a", []byte("one")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := s.Get("a")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "one" {
		t.Errorf("Expected one, got %s", got)
	}

	if err := s.Delete("a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get("a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	s := openTestStore(t)

	type record struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	if err := s.PutJSON("r1", record{Name: "x", Count: 3}); err != nil {
		t.Fatalf("PutJSON failed: %v", err)
	}

	var got record
	found, err := s.GetJSON("r1", &got)
	if err != nil || !found {
		t.Fatalf("GetJSON: found=%v err=%v", found, err)
	}
	if got.Name != "x" || got.Count != 3 {
		t.Errorf("Unexpected record %+v", got)
	}

	found, err = s.GetJSON("missing", &got)
	if err != nil {
		t.Fatalf("GetJSON on missing key returned error: %v", err)
	}
	if found {
		t.Error("Expected missing key to report not found")
	}
}

func TestEachInKeyOrder(t *testing.T) {
	s := openTestStore(t)

	for _, k := range []string{"c", "a", "b"} {
		if err := s.Set(k, []byte(k)); err != nil {
			t.Fatalf("Set %s failed: %v", k, err)
		}
	}

	var keys []string
	err := s.Each(func(key, value []byte) error {
		keys = append(keys, string(key))
		return nil
	})
	if err != nil {
		t.Fatalf("Each failed: %v", err)
	}
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
		t.Errorf("Expected [a b c], got %v", keys)
	}

	stop := errors.New("stop")
	count := 0
	err = s.Each(func(key, value []byte) error {
		count++
		return stop
	})
	if !errors.Is(err, stop) || count != 1 {
		t.Errorf("Expected iteration to stop after first error, count=%d err=%v", count, err)
	}
}
