package domain

import (
	"errors"
	"testing"
)

func TestBalanceHistoryEntry_Validate(t *testing.T) {
	entry := &BalanceHistoryEntry{
		PreviousBalance: 4000,
		NewBalance:      10000,
		BalanceChange:   6000,
		ChangeType:      ChangeTypeWorkCreated,
	}

	if err := entry.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry.BalanceChange = 5000
	if err := entry.Validate(); !errors.Is(err, ErrInconsistentEntry) {
		t.Fatalf("expected ErrInconsistentEntry, got %v", err)
	}
}

func TestBalanceHistoryEntry_Validate_NegativeChange(t *testing.T) {
	entry := &BalanceHistoryEntry{
		PreviousBalance: 3000,
		NewBalance:      0,
		BalanceChange:   -3000,
		ChangeType:      ChangeTypeWorkDeleted,
	}

	if err := entry.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
