package spool

import (
	"context"
	"fmt"

	"pixbatch/logger"

	"github.com/fsnotify/fsnotify"
)

// Watch queues manifests as they appear in the spool directory until ctx is
// cancelled. Manifests should be moved in with a rename; Enqueue does this.
func (s *Spool) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", s.dir, err)
	}
	logger.Infof("Watching spool directory: %s", s.dir)

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Create) || !isCandidate(event.Name) {
					continue
				}
				s.Add(event.Name)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Errorf("Spool watcher error: %v", err)
			}
		}
	}()
	return nil
}
