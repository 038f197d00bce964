package refresh

import (
	"sync"
	"time"

	"github.com/goliatone/go-content-sync/records"
)

// Snapshot is one published generation of a panel's view: the active,
// order-sorted records plus their locale-resolved projections. A snapshot is
// immutable once published.
type Snapshot struct {
	Records    []*records.ContentRecord
	Resolved   []*records.ResolvedRecord
	UpdatedAt  time.Time
	Generation uint64
}

// View owns the list published to the UI host. It is only ever replaced
// wholesale, never mutated field by field, so readers can never observe a
// partially-updated list.
type View struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewView returns an empty view at generation zero.
func NewView() *View {
	return &View{}
}

// Publish swaps in a new generation atomically.
func (v *View) Publish(recs []*records.ContentRecord, resolved []*records.ResolvedRecord, at time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.snap = Snapshot{
		Records:    recs,
		Resolved:   resolved,
		UpdatedAt:  at,
		Generation: v.snap.Generation + 1,
	}
}

// Snapshot returns the current generation. The slices are shared with the
// published snapshot and must be treated as read-only.
func (v *View) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snap
}

// Generation returns the current publish counter; useful to assert that a
// suppressed tick left the view untouched.
func (v *View) Generation() uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snap.Generation
}
