package job

import (
	"pixbatch/logger"
	"pixbatch/models"
)

// Run transcodes jobs strictly in order, one at a time.
// The first failing job aborts the batch: later jobs are not attempted and
// earlier outputs stay on disk. The returned error is a *BatchError.
// A BatchResult is only returned when every job was written.
func Run(jobs []models.TranscodeJob) (models.BatchResult, error) {
	if len(jobs) == 0 {
		logger.Warn("Batch has no jobs, nothing to do")
		return models.BatchResult{Success: true}, nil
	}

	logger.Infof("Processing batch of %d jobs", len(jobs))

	var saved uint
	for i, j := range jobs {
		logger.Debugf("[%d/%d] %s -> %s (%dx%d, %s, q%d)",
			i+1, len(jobs), j.SourcePath, j.DestinationPath, j.Width, j.Height, j.Format, j.Quality)

		if err := Transcode(j); err != nil {
			logger.Errorf("Batch aborted at job %d/%d after %d saved: %v", i+1, len(jobs), saved, err)
			return models.BatchResult{}, &BatchError{Index: i, Total: len(jobs), Saved: saved, Err: err}
		}
		saved++
	}

	logger.Infof("Batch completed, %d images saved", saved)
	return models.BatchResult{Success: true, SavedCount: saved}, nil
}
