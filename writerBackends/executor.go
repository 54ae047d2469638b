package writerbackends

import (
	"context"
	"fmt"
	"io"
	"path"
)

// WriteImage copies one finished output to a mirror backend.
// accessInfo holds the backend's credentials plus "filename" and "folder";
// each backend derives its object path from those two.
func WriteImage(ctx context.Context, accessInfo map[string]string, reader io.Reader, backendType string) error {
	switch backendType {
	case "dir":
		if err := UploadToDir(ctx, accessInfo, reader); err != nil {
			return fmt.Errorf("failed to copy to mirror dir: %w", err)
		}
	case "s3":
		if err := UploadToS3WithCreds(ctx, accessInfo, reader); err != nil {
			return fmt.Errorf("failed to upload to S3: %w", err)
		}
	case "gcs":
		if err := UploadToGCSWithJSON(ctx, accessInfo, reader); err != nil {
			return fmt.Errorf("failed to upload to GCS: %w", err)
		}
	case "sftp":
		if err := UploadToSFTPWithCreds(ctx, accessInfo, reader); err != nil {
			return fmt.Errorf("failed to upload to SFTP: %w", err)
		}
	default:
		return fmt.Errorf("unknown backend type: %s", backendType)
	}
	return nil
}

// Supported reports whether backendType names a known backend.
func Supported(backendType string) bool {
	switch backendType {
	case "dir", "s3", "gcs", "sftp":
		return true
	}
	return false
}

// objectPath joins folder and filename with forward slashes, as object
// stores and SFTP servers expect.
func objectPath(accessInfo map[string]string) string {
	return path.Join(accessInfo["folder"], accessInfo["filename"])
}
