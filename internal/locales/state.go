package locales

import (
	"context"
	"sync/atomic"

	"github.com/goliatone/go-content-sync/records"
)

// ChangeEvent notifies subscribers that the admin surface switched locale.
type ChangeEvent struct {
	Previous records.Locale
	Current  records.Locale
}

// State provides a concurrency-safe view of the panel's current locale and
// broadcasts changes to subscribers. Consumers receive notifications instead
// of polling for a locale flip.
type State struct {
	current     atomic.Value
	settings    Settings
	broadcaster *changeBroadcaster
}

// NewState constructs a state seeded with settings, starting at the default
// locale.
func NewState(settings Settings) *State {
	st := &State{
		settings:    settings,
		broadcaster: newChangeBroadcaster(),
	}
	st.current.Store(Normalize(settings.Default))
	return st
}

// Settings returns the locale settings this state was built with.
func (s *State) Settings() Settings {
	if s == nil {
		return Settings{}
	}
	return s.settings
}

// Current returns the locale the admin surface is rendering in.
func (s *State) Current() records.Locale {
	if s == nil {
		return ""
	}
	if code, ok := s.current.Load().(records.Locale); ok {
		return code
	}
	return ""
}

// Set switches the current locale and notifies subscribers. Unsupported
// codes are ignored; setting the current locale again is a no-op.
func (s *State) Set(code records.Locale) {
	if s == nil {
		return
	}
	normalized := Normalize(code)
	if !s.settings.IsSupported(normalized) {
		return
	}
	previous := s.Current()
	if previous == normalized {
		return
	}
	s.current.Store(normalized)
	s.broadcaster.Broadcast(ChangeEvent{Previous: previous, Current: normalized})
}

// Subscribe returns a channel that receives locale change events until ctx
// is cancelled. Slow subscribers drop events rather than block the setter.
func (s *State) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return s.broadcaster.Subscribe(ctx)
}
