package writerbackends

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"pixbatch/logger"
)

// UploadToDir copies content into baseDir/folder/filename on the local
// filesystem. folder may not climb out of baseDir.
func UploadToDir(ctx context.Context, accessInfo map[string]string, reader io.Reader) error {
	baseDir := accessInfo["baseDir"]
	folder := accessInfo["folder"]
	filename := accessInfo["filename"]
	if baseDir == "" || filename == "" {
		return fmt.Errorf("missing required accessInfo keys: baseDir, filename")
	}

	fullDir := filepath.Join(baseDir, folder)
	rel, err := filepath.Rel(baseDir, fullDir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("folder %q escapes mirror directory", folder)
	}
	fullPath := filepath.Join(fullDir, filepath.Base(filename))

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(fullDir, 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", fullPath, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("failed to write to file %s: %w", fullPath, err)
	}

	logger.Infof("Mirrored '%s' to '%s'", filename, fullPath)
	return nil
}
