package interfaces

import (
	"context"
	"errors"

	"github.com/goliatone/go-content-sync/records"
	"github.com/google/uuid"
)

var (
	// ErrRecordNotFound reports a missing document on targeted writes.
	ErrRecordNotFound = errors.New("store: record not found")
	// ErrCollectionRequired reports an empty collection name.
	ErrCollectionRequired = errors.New("store: collection is required")
	// ErrEmptyPatch reports a write carrying no fields.
	ErrEmptyPatch = errors.New("store: patch is empty")
)

// ReadOptions narrows and orders a collection read.
type ReadOptions struct {
	// ActiveOnly drops tombstoned records before returning.
	ActiveOnly bool
	// OrderByOrder sorts ascending by the manual order value.
	OrderByOrder bool
	// FeaturedOnly keeps only records flagged as featured.
	FeaturedOnly bool
	// Limit caps the result set; zero means no cap.
	Limit int
}

// StoreGateway is the narrow remote document store contract the coordinator
// consumes. Writes are merge-patches with last-write-wins semantics; no
// conflict token is sent or checked.
type StoreGateway interface {
	// ForceRead returns the store's current authoritative state, bypassing
	// any intermediate cache the gateway might otherwise apply.
	ForceRead(ctx context.Context, collection string, opts ReadOptions) ([]*records.ContentRecord, error)
	// Read serves the regular read path and may be satisfied from cache.
	Read(ctx context.Context, collection string, opts ReadOptions) ([]*records.ContentRecord, error)
	// Write merge-patches the document for id, creating it when id is
	// uuid.Nil or not yet stored. Returns the record id.
	Write(ctx context.Context, collection string, id uuid.UUID, patch records.Patch) (uuid.UUID, error)
	// Subscribe delivers the full record list after every accepted write.
	// Used by push-based public consumers; the coordinator itself polls.
	Subscribe(ctx context.Context, collection string) (<-chan []*records.ContentRecord, error)
}
