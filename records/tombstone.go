package records

import (
	"sort"
	"time"
)

// Wire-level keys shared by the tombstone patch and the store codec.
const (
	KeyIsDeleted     = "isDeleted"
	KeyDeletedBy     = "deletedBy"
	KeyDeletedByName = "deletedByName"
	KeyDeletedAt     = "deletedAt"
)

// IsActive reports whether the record is visible to published views. It is
// the single predicate shared by the refresh filter and the ordering
// validator's sibling set so the two can never disagree.
func IsActive(rec *ContentRecord) bool {
	return rec != nil && rec.Deletion == nil
}

// Tombstone produces the additive patch that soft-deletes a record. The
// patch only sets the deleted-state fields; the document and its audit trail
// are retained indefinitely.
func Tombstone(actor Actor, at time.Time) Patch {
	return Patch{
		KeyIsDeleted:     true,
		KeyDeletedBy:     actor.ID,
		KeyDeletedByName: actor.Name,
		KeyDeletedAt:     at.UTC().Format(time.RFC3339),
	}
}

// FilterActive returns the active subset of recs, preserving order.
func FilterActive(recs []*ContentRecord) []*ContentRecord {
	out := make([]*ContentRecord, 0, len(recs))
	for _, rec := range recs {
		if IsActive(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// SortByOrder sorts records by their manual order value, ascending. Ties are
// broken by creation time so the sort stays deterministic for records that
// predate the uniqueness invariant.
func SortByOrder(recs []*ContentRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Order == recs[j].Order {
			return recs[i].Audit.CreatedAt.Before(recs[j].Audit.CreatedAt)
		}
		return recs[i].Order < recs[j].Order
	})
}
