package job

import (
	"errors"
	"fmt"
)

// Error kinds. Every pipeline error matches exactly one of them with errors.Is.
var (
	ErrDecode  = errors.New("decode error")
	ErrConfig  = errors.New("config error")
	ErrIO      = errors.New("io error")
	ErrEncode  = errors.New("encode error")
	ErrPublish = errors.New("publish error")
)

// Error is a pipeline failure for one path.
// errors.Is matches both the kind and the underlying cause.
type Error struct {
	Kind error
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func newError(kind error, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// BatchError reports where an aborted batch stopped and how many jobs were
// already written. Files written before Index are left on disk.
type BatchError struct {
	Index int // 0-based index of the failing job
	Total int
	Saved uint
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("job %d of %d failed: %v", e.Index+1, e.Total, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// SavedBefore returns how many jobs completed before err aborted a batch.
func SavedBefore(err error) uint {
	var be *BatchError
	if errors.As(err, &be) {
		return be.Saved
	}
	return 0
}
