package spool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"pixbatch/history"
	"pixbatch/job"
	"pixbatch/logger"
	"pixbatch/models"
)

// State represents where a spooled batch is in its life
type State int

const (
	StatePending State = iota
	StateProcessing
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateProcessing:
		return "processing"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

const (
	doneDir   = "done"
	failedDir = "failed"
	pollEvery = time.Second
)

// Spool is a directory of batch manifests processed one at a time.
// Finished manifests move to done/ or failed/; failures get a .err file
// next to the manifest holding the error text.
type Spool struct {
	dir string

	mu      sync.RWMutex
	pending []string         // manifest paths, in arrival order
	states  map[string]State // batch id -> state
	wake    chan struct{}
}

// New opens the spool rooted at dir, creating it and its subdirectories.
func New(dir string) (*Spool, error) {
	for _, d := range []string{dir, filepath.Join(dir, doneDir), filepath.Join(dir, failedDir)} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return nil, fmt.Errorf("failed to create spool directory %s: %w", d, err)
		}
	}
	return &Spool{
		dir:    dir,
		states: make(map[string]State),
		wake:   make(chan struct{}, 1),
	}, nil
}

// Dir returns the directory the spool reads manifests from.
func (s *Spool) Dir() string { return s.dir }

// BatchID derives a batch id from a manifest path: its base name without extension.
func BatchID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isCandidate(path string) bool {
	base := filepath.Base(path)
	return !strings.HasPrefix(base, ".") && job.IsManifest(base)
}

// Add queues a manifest. A batch id that is already pending or processing
// is ignored.
func (s *Spool) Add(path string) bool {
	id := BatchID(path)

	s.mu.Lock()
	if state, exists := s.states[id]; exists && (state == StatePending || state == StateProcessing) {
		s.mu.Unlock()
		return false
	}
	s.pending = append(s.pending, path)
	s.states[id] = StatePending
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
	logger.Debugf("Spooled batch %s from %s", id, path)
	return true
}

func (s *Spool) remove(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.pending {
		if p == path {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			break
		}
	}
}

func (s *Spool) setState(id string, state State) {
	s.mu.Lock()
	s.states[id] = state
	s.mu.Unlock()
}

// Pending returns a copy of the queued manifest paths
func (s *Spool) Pending() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths := make([]string, len(s.pending))
	copy(paths, s.pending)
	return paths
}

// State returns the state of a batch this process has seen.
func (s *Spool) State(id string) (State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, exists := s.states[id]
	return state, exists
}

// Enqueue writes req as a manifest named after id and queues it.
func (s *Spool) Enqueue(id string, req models.BatchRequest) (string, error) {
	path := filepath.Join(s.dir, id+".json")
	if err := job.WriteManifest(path, req); err != nil {
		return "", err
	}
	s.Add(path)
	return path, nil
}

// Scan queues every manifest already sitting in the spool directory,
// e.g. ones left behind by a previous run.
func (s *Spool) Scan() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}
	added := 0
	for _, entry := range entries {
		if entry.IsDir() || !isCandidate(entry.Name()) {
			continue
		}
		if s.Add(filepath.Join(s.dir, entry.Name())) {
			added++
		}
	}
	return added, nil
}

// ProcessOnce drains the current queue and returns how many batches it ran.
func (s *Spool) ProcessOnce(ctx context.Context) int {
	paths := s.Pending()
	if len(paths) > 0 {
		logger.Infof("Processing %d spooled batches", len(paths))
	}
	processed := 0
	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}
		if err := s.process(ctx, path); err != nil {
			logger.Errorf("Spooled batch %s failed: %v", path, err)
		} else {
			logger.Infof("Processed spooled batch %s", path)
		}
		s.remove(path)
		processed++
	}
	return processed
}

func (s *Spool) process(ctx context.Context, path string) error {
	id := BatchID(path)
	s.setState(id, StateProcessing)

	req, err := job.LoadManifest(path)
	if err == nil {
		_, err = job.Submit(ctx, id, req)
	} else if history.Enabled() {
		if recErr := history.RecordFailure(id, nil, 0, 0, err); recErr != nil {
			logger.Errorf("Failed to record batch %s: %v", id, recErr)
		}
	}

	if err != nil {
		s.setState(id, StateFailed)
		if moveErr := s.finish(path, failedDir, err); moveErr != nil {
			logger.Errorf("Failed to move manifest %s: %v", path, moveErr)
		}
		return err
	}

	s.setState(id, StateCompleted)
	if moveErr := s.finish(path, doneDir, nil); moveErr != nil {
		logger.Errorf("Failed to move manifest %s: %v", path, moveErr)
	}
	return nil
}

// finish moves a processed manifest into sub and writes a .err file when
// cause is set.
func (s *Spool) finish(path, sub string, cause error) error {
	target := filepath.Join(s.dir, sub, filepath.Base(path))
	if err := os.Rename(path, target); err != nil {
		return err
	}
	if cause != nil {
		return os.WriteFile(target+".err", []byte(cause.Error()+"\n"), 0644)
	}
	return nil
}

// Run processes queued batches until ctx is cancelled. It wakes up when a
// batch is added and polls once a second otherwise.
func (s *Spool) Run(ctx context.Context) {
	ticker := time.NewTicker(pollEvery)
	defer ticker.Stop()

	for {
		s.ProcessOnce(ctx)
		select {
		case <-ctx.Done():
			logger.Info("Spool processor stopped")
			return
		case <-s.wake:
		case <-ticker.C:
		}
	}
}
