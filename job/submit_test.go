package job

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pixbatch/history"
	"pixbatch/models"
)

func openHistory(t *testing.T) {
	t.Helper()
	if err := history.Init(filepath.Join(t.TempDir(), "history")); err != nil {
		t.Fatalf("Failed to open history: %v", err)
	}
	t.Cleanup(func() { history.Close() })
}

func TestSubmitMirrorsToDir(t *testing.T) {
	dir := t.TempDir()
	mirrorDir := filepath.Join(dir, "mirror")
	t.Setenv("PIXBATCH_MIRROR_DIR", mirrorDir)
	openHistory(t)

	src := writeTestPNG(t, dir, "src.png", 20, 20)
	req := models.BatchRequest{
		Jobs: []models.TranscodeJob{
			{SourcePath: src, DestinationPath: filepath.Join(dir, "out", "a.png"), Width: 10, Height: 10, Format: models.Png, Quality: 80},
			{SourcePath: src, DestinationPath: filepath.Join(dir, "out", "b.jpg"), Width: 5, Height: 5, Format: models.Jpeg, Quality: 80},
		},
		Mirrors: []models.MirrorTarget{{Type: "dir", Folder: "thumbs"}},
	}

	id := NewBatchID()
	result, err := Submit(context.Background(), id, req)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if result.SavedCount != 2 {
		t.Errorf("Expected 2 saved, got %d", result.SavedCount)
	}

	for _, name := range []string{"a.png", "b.jpg"} {
		want, _ := os.ReadFile(filepath.Join(dir, "out", name))
		got, err := os.ReadFile(filepath.Join(mirrorDir, "thumbs", name))
		if err != nil {
			t.Fatalf("Mirror copy of %s missing: %v", name, err)
		}
		if string(got) != string(want) {
			t.Errorf("Mirror copy of %s differs from destination", name)
		}
	}

	record, err := history.Get(id)
	if err != nil || record == nil {
		t.Fatalf("Expected a history record, got %v, %v", record, err)
	}
	if record.Status != history.StatusCompleted || record.SavedCount != 2 || record.Total != 2 {
		t.Errorf("Unexpected record: %+v", record)
	}
}

func TestSubmitRecordsFailure(t *testing.T) {
	dir := t.TempDir()
	openHistory(t)

	src := writeTestPNG(t, dir, "src.png", 20, 20)
	req := models.BatchRequest{Jobs: []models.TranscodeJob{
		{SourcePath: src, DestinationPath: filepath.Join(dir, "a.png"), Width: 10, Height: 10, Format: models.Png, Quality: 80},
		{SourcePath: filepath.Join(dir, "gone.png"), DestinationPath: filepath.Join(dir, "b.png"), Width: 10, Height: 10, Format: models.Png, Quality: 80},
	}}

	id := NewBatchID()
	if _, err := Submit(context.Background(), id, req); !errors.Is(err, ErrDecode) {
		t.Fatalf("Expected ErrDecode, got %v", err)
	}

	record, err := history.Get(id)
	if err != nil || record == nil {
		t.Fatalf("Expected a history record, got %v, %v", record, err)
	}
	if record.Status != history.StatusFailed || record.SavedCount != 1 || record.Error == "" {
		t.Errorf("Unexpected record: %+v", record)
	}
}

func TestSubmitRejectsUnknownMirror(t *testing.T) {
	dir := t.TempDir()
	src := writeTestPNG(t, dir, "src.png", 20, 20)
	dest := filepath.Join(dir, "a.png")

	req := models.BatchRequest{
		Jobs:    []models.TranscodeJob{{SourcePath: src, DestinationPath: dest, Width: 10, Height: 10, Format: models.Png, Quality: 80}},
		Mirrors: []models.MirrorTarget{{Type: "ftp"}},
	}
	if _, err := Submit(context.Background(), NewBatchID(), req); !errors.Is(err, ErrConfig) {
		t.Fatalf("Expected ErrConfig, got %v", err)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("No job should run when a mirror is misconfigured")
	}
}

func TestSubmitMissingCredentialsIsPublishError(t *testing.T) {
	dir := t.TempDir()
	src := writeTestPNG(t, dir, "src.png", 20, 20)
	dest := filepath.Join(dir, "a.png")

	req := models.BatchRequest{
		Jobs:    []models.TranscodeJob{{SourcePath: src, DestinationPath: dest, Width: 10, Height: 10, Format: models.Png, Quality: 80}},
		Mirrors: []models.MirrorTarget{{Type: "s3", CredentialsKey: "nobody"}},
	}
	_, err := Submit(context.Background(), NewBatchID(), req)
	if !errors.Is(err, ErrPublish) {
		t.Fatalf("Expected ErrPublish, got %v", err)
	}
	// local outputs are kept when publishing fails
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("Local output should remain: %v", err)
	}
}

func TestPrepareAccessInfo(t *testing.T) {
	t.Setenv("PIXBATCH_MIRROR_DIR", "/srv/mirror")
	creds := map[string]string{"bucket": "b", "baseDir": "/etc"}

	info := prepareAccessInfo(models.MirrorTarget{Type: "dir", Folder: "x"}, creds, "a.png")
	if info["baseDir"] != "/srv/mirror" {
		t.Errorf("baseDir must come from server config, got %q", info["baseDir"])
	}
	if info["filename"] != "a.png" || info["folder"] != "x" || info["bucket"] != "b" {
		t.Errorf("Unexpected access info: %v", info)
	}
	if creds["filename"] != "" {
		t.Error("prepareAccessInfo must not modify the stored credentials")
	}
}
