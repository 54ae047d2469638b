package job

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"pixbatch/config"
	"pixbatch/credentials"
	"pixbatch/history"
	"pixbatch/logger"
	"pixbatch/models"
	writerbackends "pixbatch/writerBackends"

	"github.com/google/uuid"
)

// one batch at a time, process-wide
var submitMu sync.Mutex

// NewBatchID returns a fresh batch id.
func NewBatchID() string {
	return uuid.NewString()
}

// Submit runs a batch request end to end: the local batch (Run), then the
// mirrors, then a history record when the history store is open.
// Batches from concurrent callers are serialized.
func Submit(ctx context.Context, id string, req models.BatchRequest) (models.BatchResult, error) {
	submitMu.Lock()
	defer submitMu.Unlock()

	logger.Infof("Submitting batch %s (%d jobs, %d mirrors)", id, len(req.Jobs), len(req.Mirrors))

	var saved uint
	result, err := func() (models.BatchResult, error) {
		if err := checkMirrors(req.Mirrors); err != nil {
			return models.BatchResult{}, err
		}
		result, err := Run(req.Jobs)
		if err != nil {
			saved = SavedBefore(err)
			return result, err
		}
		saved = result.SavedCount
		if err := publishMirrors(ctx, req); err != nil {
			return models.BatchResult{}, err
		}
		return result, nil
	}()

	recordHistory(id, req, saved, err)
	return result, err
}

func checkMirrors(mirrors []models.MirrorTarget) error {
	for _, m := range mirrors {
		if !writerbackends.Supported(m.Type) {
			return newError(ErrConfig, "", fmt.Errorf("unknown mirror type %q", m.Type))
		}
	}
	return nil
}

func recordHistory(id string, req models.BatchRequest, saved uint, err error) {
	if !history.Enabled() {
		return
	}
	var storeErr error
	if err != nil {
		storeErr = history.RecordFailure(id, req, len(req.Jobs), saved, err)
	} else {
		storeErr = history.RecordSuccess(id, req, len(req.Jobs), saved)
	}
	if storeErr != nil {
		// the batch outcome stands even if it cannot be recorded
		logger.Errorf("Failed to record batch %s: %v", id, storeErr)
	}
}

// publishMirrors copies every destination file to every mirror, in order.
func publishMirrors(ctx context.Context, req models.BatchRequest) error {
	for _, mirror := range req.Mirrors {
		creds, err := mirrorCredentials(mirror)
		if err != nil {
			return newError(ErrPublish, "", err)
		}

		for _, j := range req.Jobs {
			select {
			case <-ctx.Done():
				return newError(ErrPublish, j.DestinationPath, fmt.Errorf("cancelled: %w", ctx.Err()))
			default:
			}

			accessInfo := prepareAccessInfo(mirror, creds, filepath.Base(j.DestinationPath))
			if err := publishFile(ctx, mirror.Type, accessInfo, j.DestinationPath); err != nil {
				return newError(ErrPublish, j.DestinationPath, err)
			}
		}
		logger.Infof("Mirrored %d files to %s", len(req.Jobs), mirror.Type)
	}
	return nil
}

func publishFile(ctx context.Context, backend string, accessInfo map[string]string, path string) error {
	reader, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer reader.Close()
	return writerbackends.WriteImage(ctx, accessInfo, reader, backend)
}

func mirrorCredentials(mirror models.MirrorTarget) (map[string]string, error) {
	if mirror.CredentialsKey == "" {
		return nil, nil
	}
	creds, err := credentials.GetCredentials(mirror.CredentialsKey)
	if err != nil {
		return nil, fmt.Errorf("credentials for %s mirror: %w", mirror.Type, err)
	}
	return creds, nil
}

// prepareAccessInfo builds the access info map for a writer backend
func prepareAccessInfo(mirror models.MirrorTarget, creds map[string]string, filename string) map[string]string {
	accessInfo := make(map[string]string, len(creds)+3)
	for k, v := range creds {
		accessInfo[k] = v
	}
	accessInfo["filename"] = filename
	accessInfo["folder"] = mirror.Folder

	// the mirror root is a server setting, never taken from the request
	if mirror.Type == "dir" {
		accessInfo["baseDir"] = config.GetMirrorDir()
	}
	return accessInfo
}
