package session

import (
	"errors"
	"sync"

	"github.com/goliatone/go-content-sync/records"
	"github.com/google/uuid"
)

// State enumerates the edit session lifecycle.
type State string

const (
	StateIdle    State = "idle"
	StateEditing State = "editing"
	StateSaving  State = "saving"
)

var (
	ErrNotIdle       = errors.New("session: an edit is already in progress")
	ErrNotEditing    = errors.New("session: no edit in progress")
	ErrNotSaving     = errors.New("session: no save in progress")
	ErrDraftRequired = errors.New("session: draft is required")
)

// Session tracks whether one admin panel is composing or saving a record.
// It is the sole mutual-exclusion primitive between the refresh scheduler
// and user-initiated writes: while the session is not idle, background
// refreshes for the panel are suppressed. The lock is advisory; independent
// panels (or a second tab) run their own sessions.
type Session struct {
	mu    sync.Mutex
	state State
	draft *records.Draft
}

// New returns an idle session.
func New() *Session {
	return &Session{state: StateIdle}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Active reports whether the session is anywhere other than idle. It is the
// suppression predicate consumed by the refresh scheduler.
func (s *Session) Active() bool {
	return s.State() != StateIdle
}

// RecordID returns the record under edit, ok=false for a new record or an
// idle session.
func (s *Session) RecordID() (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil || s.draft.RecordID == nil {
		return uuid.Nil, false
	}
	return *s.draft.RecordID, true
}

// Draft returns a copy of the current draft, or nil when idle.
func (s *Session) Draft() *records.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// Begin transitions Idle -> Editing, taking ownership of the draft copy.
func (s *Session) Begin(draft *records.Draft) error {
	if draft == nil {
		return ErrDraftRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return ErrNotIdle
	}
	s.state = StateEditing
	s.draft = draft.Clone()
	return nil
}

// Update replaces the draft while editing, keeping the session in Editing.
func (s *Session) Update(draft *records.Draft) error {
	if draft == nil {
		return ErrDraftRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEditing {
		return ErrNotEditing
	}
	s.draft = draft.Clone()
	return nil
}

// Submit transitions Editing -> Saving and hands back the draft that must be
// written. Saving is the only state allowed to invoke the write path.
func (s *Session) Submit() (*records.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEditing {
		return nil, ErrNotEditing
	}
	s.state = StateSaving
	return s.draft.Clone(), nil
}

// Complete transitions Saving -> Idle after a successful write, discarding
// the draft.
func (s *Session) Complete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSaving {
		return ErrNotSaving
	}
	s.state = StateIdle
	s.draft = nil
	return nil
}

// Fail transitions Saving -> Editing after a failed write, preserving the
// draft so the user can retry.
func (s *Session) Fail() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSaving {
		return ErrNotSaving
	}
	s.state = StateEditing
	return nil
}

// Cancel transitions Editing -> Idle, discarding the draft.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEditing {
		return ErrNotEditing
	}
	s.state = StateIdle
	s.draft = nil
	return nil
}
