package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	t.Setenv("PIXBATCH_DATA_DIR", "")
	t.Setenv("PIXBATCH_SPOOL_DIR", "")
	t.Setenv("PIXBATCH_ADDR", "")
	t.Setenv("PIXBATCH_LOG_LEVEL", "")
	t.Setenv("PIXBATCH_HISTORY_MAX_AGE", "")

	if got := GetDataDir(); got != "./data" {
		t.Errorf("Expected ./data, got %s", got)
	}
	if got := GetSpoolDir(); got != filepath.Join("./data", "spool") {
		t.Errorf("Expected spool under data dir, got %s", got)
	}
	if got := GetListenAddr(); got != ":8080" {
		t.Errorf("Expected :8080, got %s", got)
	}
	if got := GetLogLevel(); got != "debug" {
		t.Errorf("Expected debug, got %s", got)
	}
	if got := GetHistoryMaxAge(); got != 30*24*time.Hour {
		t.Errorf("Expected 720h, got %v", got)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("PIXBATCH_DATA_DIR", "/srv/pixbatch")
	t.Setenv("PIXBATCH_SPOOL_DIR", "")
	t.Setenv("PIXBATCH_HISTORY_MAX_AGE", "48h")

	if got := GetHistoryDBPath(); got != filepath.Join("/srv/pixbatch", "history.db") {
		t.Errorf("Unexpected history path %s", got)
	}
	if got := GetCredentialsDBPath(); got != filepath.Join("/srv/pixbatch", "credentials.db") {
		t.Errorf("Unexpected credentials path %s", got)
	}
	if got := GetSpoolDir(); got != filepath.Join("/srv/pixbatch", "spool") {
		t.Errorf("Unexpected spool dir %s", got)
	}
	if got := GetHistoryMaxAge(); got != 48*time.Hour {
		t.Errorf("Expected 48h, got %v", got)
	}

	t.Setenv("PIXBATCH_HISTORY_MAX_AGE", "not-a-duration")
	if got := GetHistoryMaxAge(); got != 30*24*time.Hour {
		t.Errorf("Invalid duration should fall back to default, got %v", got)
	}
}
