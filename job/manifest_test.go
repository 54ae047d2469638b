package job

import (
	"os"
	"path/filepath"
	"testing"

	"pixbatch/models"
)

func TestParseManifestJSON(t *testing.T) {
	data := []byte(`{
		"jobs": [
			{"source_path": "/in/a.png", "destination_path": "/out/a.jpg", "target_width": 100, "target_height": 50, "output_format": "jpg", "quality": 80},
			{"source_path": "/in/b.png", "destination_path": "/out/b.webp", "target_width": 10, "target_height": 10, "output_format": "WebP", "quality": 100}
		],
		"mirrors": [{"type": "dir", "folder": "thumbs"}]
	}`)

	req, err := ParseManifest(data, ".json")
	if err != nil {
		t.Fatalf("ParseManifest failed: %v", err)
	}
	if len(req.Jobs) != 2 || len(req.Mirrors) != 1 {
		t.Fatalf("Unexpected request: %+v", req)
	}
	if req.Jobs[0].Format != models.Jpeg {
		t.Errorf("jpg should parse as jpeg, got %v", req.Jobs[0].Format)
	}
	if req.Jobs[1].Format != models.Webp || req.Jobs[1].Quality != 100 {
		t.Errorf("Unexpected second job: %+v", req.Jobs[1])
	}
	if req.Mirrors[0].Folder != "thumbs" {
		t.Errorf("Unexpected mirror: %+v", req.Mirrors[0])
	}
}

func TestParseManifestYAML(t *testing.T) {
	data := []byte(`
jobs:
  - source_path: /in/a.png
    destination_path: /out/a
    target_width: 32
    target_height: 32
    output_format: keep_original
    quality: 90
  - source_path: /in/b.png
    destination_path: /out/b.png
    target_width: 8
    target_height: 16
    output_format: PNG
    quality: 1
`)
	req, err := ParseManifest(data, ".YML")
	if err != nil {
		t.Fatalf("ParseManifest failed: %v", err)
	}
	if len(req.Jobs) != 2 {
		t.Fatalf("Expected 2 jobs, got %d", len(req.Jobs))
	}
	if req.Jobs[0].Format != models.KeepOriginal || req.Jobs[1].Format != models.Png {
		t.Errorf("Unexpected formats: %v, %v", req.Jobs[0].Format, req.Jobs[1].Format)
	}
	if req.Jobs[1].Width != 8 || req.Jobs[1].Height != 16 {
		t.Errorf("Unexpected dimensions: %+v", req.Jobs[1])
	}
}

func TestParseManifestRejectsUnknownFormat(t *testing.T) {
	if _, err := ParseManifest([]byte(`{"jobs":[{"output_format":"avif"}]}`), ".json"); err == nil {
		t.Error("Expected an error for an unknown output format")
	}
	if _, err := ParseManifest([]byte("jobs: [ {"), ".yaml"); err == nil {
		t.Error("Expected an error for malformed YAML")
	}
}

func TestWriteAndLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.json")
	req := models.BatchRequest{Jobs: []models.TranscodeJob{
		{SourcePath: "/in/a.png", DestinationPath: "/out/a.webp", Width: 4, Height: 3, Format: models.Webp, Quality: 55},
	}}

	if err := WriteManifest(path, req); err != nil {
		t.Fatalf("WriteManifest failed: %v", err)
	}
	loaded, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if len(loaded.Jobs) != 1 || loaded.Jobs[0] != req.Jobs[0] {
		t.Errorf("Loaded %+v, want %+v", loaded.Jobs, req.Jobs)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("Expected only the manifest in %s, found %d entries", dir, len(entries))
	}
}

func TestIsManifest(t *testing.T) {
	for path, want := range map[string]bool{
		"a.json":    true,
		"b.YAML":    true,
		"c.yml":     true,
		"d.png":     false,
		"noext":     false,
		"e.json.gz": false,
	} {
		if got := IsManifest(path); got != want {
			t.Errorf("IsManifest(%q) = %v, want %v", path, got, want)
		}
	}
}
