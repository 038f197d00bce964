package records

import "github.com/google/uuid"

// ValidateOrder checks a candidate manual-order value against the record's
// siblings. The candidate must be a positive integer and must not collide
// with any active sibling other than the record itself. Deleted siblings
// never block a value; they are excluded through the same IsActive predicate
// the refresh filter uses.
//
// Runs synchronously before a write is dispatched; on failure the write must
// not be attempted.
func ValidateOrder(candidate int, recordID uuid.UUID, siblings []*ContentRecord) error {
	if candidate <= 0 {
		return ErrOrderNotPositive
	}
	for _, sibling := range siblings {
		if sibling == nil || !IsActive(sibling) {
			continue
		}
		if sibling.ID == recordID {
			continue
		}
		if sibling.Order == candidate {
			return &DuplicateOrderError{Order: candidate, HeldBy: sibling.ID}
		}
	}
	return nil
}
