package records

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestValidateOrderRejectsNonPositive(t *testing.T) {
	for _, candidate := range []int{0, -1, -100} {
		if err := ValidateOrder(candidate, uuid.New(), nil); !errors.Is(err, ErrOrderNotPositive) {
			t.Fatalf("candidate %d: expected ErrOrderNotPositive, got %v", candidate, err)
		}
	}
}

func TestValidateOrderRejectsDuplicateAmongActiveSiblings(t *testing.T) {
	holder := &ContentRecord{ID: uuid.New(), Order: 1}
	siblings := []*ContentRecord{holder, {ID: uuid.New(), Order: 2}}

	err := ValidateOrder(1, uuid.New(), siblings)
	if !errors.Is(err, ErrDuplicateOrder) {
		t.Fatalf("expected ErrDuplicateOrder, got %v", err)
	}

	var dup *DuplicateOrderError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateOrderError, got %T", err)
	}
	if dup.HeldBy != holder.ID || dup.Order != 1 {
		t.Fatalf("unexpected conflict details: %+v", dup)
	}
}

func TestValidateOrderIgnoresSelfAndDeletedSiblings(t *testing.T) {
	self := uuid.New()
	deleted := &ContentRecord{
		ID:       uuid.New(),
		Order:    4,
		Deletion: &Deletion{By: "admin-1", ByName: "Admin"},
	}
	siblings := []*ContentRecord{
		{ID: self, Order: 4},
		deleted,
	}

	t.Run("own value is not a conflict", func(t *testing.T) {
		if err := ValidateOrder(4, self, siblings); err != nil {
			t.Fatalf("expected ok, got %v", err)
		}
	})

	t.Run("tombstoned sibling never blocks", func(t *testing.T) {
		if err := ValidateOrder(4, uuid.New(), []*ContentRecord{deleted}); err != nil {
			t.Fatalf("expected ok, got %v", err)
		}
	})
}
