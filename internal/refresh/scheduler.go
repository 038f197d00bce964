package refresh

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goliatone/go-content-sync/internal/logging"
	"github.com/goliatone/go-content-sync/pkg/interfaces"
	"github.com/goliatone/go-content-sync/records"
)

// DefaultInterval matches the cadence the admin panels refresh at.
const DefaultInterval = 5 * time.Second

var ErrFetchRequired = errors.New("refresh: fetch function is required")

// FetchFunc performs the forced authoritative read for one panel.
type FetchFunc func(ctx context.Context) ([]*records.ContentRecord, error)

// PublishFunc receives the active, order-sorted result of a successful tick.
type PublishFunc func(recs []*records.ContentRecord)

// SuppressFunc reports whether ticks must currently be skipped (an edit
// session is active). It is consulted when a tick starts and again when its
// fetch completes; a fetch that lands after an edit began is discarded.
type SuppressFunc func() bool

// Scheduler drives the periodic re-fetch of one panel's collection. It owns
// its timer exclusively; stopping only prevents future ticks, a tick already
// in flight runs to completion and re-checks suppression before publishing.
type Scheduler struct {
	interval time.Duration
	fetch    FetchFunc
	publish  PublishFunc
	suppress SuppressFunc
	logger   interfaces.Logger
	now      func() time.Time

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool

	inFlight atomic.Bool
	lastTick atomic.Int64
}

// Option configures the scheduler at construction time.
type Option func(*Scheduler)

// WithInterval overrides the tick cadence. Suppression and the single-flight
// guard apply regardless of the value.
func WithInterval(interval time.Duration) Option {
	return func(s *Scheduler) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithSuppression installs the predicate that pauses ticks during edits.
func WithSuppression(suppress SuppressFunc) Option {
	return func(s *Scheduler) {
		s.suppress = suppress
	}
}

// WithLogger injects the tick logger. Defaults to a no-op logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock, used mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Scheduler) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewScheduler builds a scheduler for the supplied fetch/publish pair.
func NewScheduler(fetch FetchFunc, publish PublishFunc, opts ...Option) (*Scheduler, error) {
	if fetch == nil {
		return nil, ErrFetchRequired
	}
	s := &Scheduler{
		interval: DefaultInterval,
		fetch:    fetch,
		publish:  publish,
		logger:   logging.NoOp(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start arms the repeating timer. Calling Start on a running scheduler is a
// no-op.
func (s *Scheduler) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true
	s.mu.Unlock()

	go s.loop(runCtx)
}

// Stop clears the timer. It is idempotent and safe to call when already
// stopped; required on permission revocation, panel teardown, and when a
// session enters editing.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.running = false
}

// Running reports whether the timer is armed.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// LastTick returns when the last successful publish happened.
func (s *Scheduler) LastTick() time.Time {
	nanos := s.lastTick.Load()
	if nanos == 0 {
		return time.Time{}
	}
	return time.Unix(0, nanos)
}

func (s *Scheduler) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one refresh cycle. Exposed so hosts and tests can drive the
// scheduler with a synthetic clock.
func (s *Scheduler) Tick(ctx context.Context) {
	if s.suppressed() {
		s.logger.Trace("refresh.tick.suppressed")
		return
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		s.logger.Trace("refresh.tick.skipped", "reason", "previous tick still in flight")
		return
	}
	defer s.inFlight.Store(false)

	recs, err := s.fetch(ctx)
	if err != nil {
		// Transient failure: log and let the next tick retry.
		s.logger.Warn("refresh.tick.failed", "error", err)
		return
	}

	// An edit may have started while the fetch was in flight; the panel
	// state at completion time decides, not the state at tick start.
	if s.suppressed() {
		s.logger.Trace("refresh.tick.discarded", "reason", "edit started during fetch")
		return
	}

	active := records.FilterActive(recs)
	records.SortByOrder(active)
	if s.publish != nil {
		s.publish(active)
	}
	s.lastTick.Store(s.now().UnixNano())
}

func (s *Scheduler) suppressed() bool {
	return s.suppress != nil && s.suppress()
}
