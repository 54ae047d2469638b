package job

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pixbatch/models"

	"gopkg.in/yaml.v3"
)

// ManifestExtensions lists the file extensions LoadManifest understands.
var ManifestExtensions = []string{".json", ".yaml", ".yml"}

// IsManifest reports whether path has a manifest extension.
func IsManifest(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range ManifestExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// LoadManifest reads a batch request from a JSON or YAML file, chosen by extension.
func LoadManifest(path string) (models.BatchRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.BatchRequest{}, fmt.Errorf("failed to read manifest: %w", err)
	}
	req, err := ParseManifest(data, filepath.Ext(path))
	if err != nil {
		return models.BatchRequest{}, fmt.Errorf("%s: %w", path, err)
	}
	return req, nil
}

// ParseManifest decodes a batch request. ext selects the syntax (".json",
// ".yaml", ".yml"); anything else is tried as JSON.
func ParseManifest(data []byte, ext string) (models.BatchRequest, error) {
	var req models.BatchRequest
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &req); err != nil {
			return models.BatchRequest{}, fmt.Errorf("failed to parse manifest: %w", err)
		}
	default:
		decoder := json.NewDecoder(bytes.NewReader(data))
		if err := decoder.Decode(&req); err != nil {
			return models.BatchRequest{}, fmt.Errorf("failed to parse manifest: %w", err)
		}
	}
	return req, nil
}

// WriteManifest writes req as indented JSON to path, via a temp file and a
// rename so spool watchers never see a half-written manifest.
func WriteManifest(path string, req models.BatchRequest) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".manifest-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create manifest file: %w", err)
	}
	defer os.Remove(tmp.Name())

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(req); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move manifest into place: %w", err)
	}
	return nil
}
