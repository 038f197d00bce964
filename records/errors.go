package records

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrOrderNotPositive = errors.New("records: order must be a positive integer")
	ErrDuplicateOrder   = errors.New("records: order already in use")
	ErrRecordDeleted    = errors.New("records: record is deleted")
	ErrRecordRequired   = errors.New("records: record is required")
)

// DuplicateOrderError reports which active sibling already holds the
// candidate order value.
type DuplicateOrderError struct {
	Order  int
	HeldBy uuid.UUID
}

func (e *DuplicateOrderError) Error() string {
	if e == nil {
		return ErrDuplicateOrder.Error()
	}
	if e.HeldBy == uuid.Nil {
		return fmt.Sprintf("%s: order=%d", ErrDuplicateOrder.Error(), e.Order)
	}
	return fmt.Sprintf("%s: order=%d held_by=%s", ErrDuplicateOrder.Error(), e.Order, e.HeldBy)
}

func (e *DuplicateOrderError) Unwrap() error {
	return ErrDuplicateOrder
}
