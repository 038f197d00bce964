package coordinator

import (
	"errors"
	"fmt"
)

var (
	ErrNotStarted       = errors.New("coordinator: panel is not started")
	ErrAlreadyStarted   = errors.New("coordinator: panel is already started")
	ErrPermissionDenied = errors.New("coordinator: permission denied")
	ErrInitialLoad      = errors.New("coordinator: initial load failed")
	ErrWriteFailed      = errors.New("coordinator: write failed")
)

// PermissionDeniedError is fatal for the panel: the refresh scheduler never
// starts and a redirect is signalled after the configured delay.
type PermissionDeniedError struct {
	Capability string
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("coordinator: capability %q denied", e.Capability)
}

func (e *PermissionDeniedError) Unwrap() error {
	return ErrPermissionDenied
}

// InitialLoadError surfaces the one read failure that is user visible: a
// failed first fetch blocks the panel instead of being retried silently.
type InitialLoadError struct {
	Cause error
}

func (e *InitialLoadError) Error() string {
	return fmt.Sprintf("coordinator: initial load failed: %v", e.Cause)
}

func (e *InitialLoadError) Unwrap() error {
	return e.Cause
}

func (e *InitialLoadError) Is(target error) bool {
	return target == ErrInitialLoad
}

// WriteError is a retryable save failure. The session falls back to editing
// with the draft preserved; no raw transport error reaches the view layer.
type WriteError struct {
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("coordinator: write failed: %v", e.Cause)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}

func (e *WriteError) Is(target error) bool {
	return target == ErrWriteFailed
}
