package domain

import "time"

// ChangeType tags the cause of a balance transition.
type ChangeType string

const (
	ChangeTypeWorkCreated       ChangeType = "work_created"
	ChangeTypeWorkUpdated       ChangeType = "work_updated"
	ChangeTypeWorkDeleted       ChangeType = "work_deleted"
	ChangeTypePaymentMade       ChangeType = "payment_made"
	ChangeTypeManualAdjustment  ChangeType = "manual_adjustment"
	ChangeTypeBalanceCorrection ChangeType = "balance_correction"
)

// BalanceHistoryEntry is an immutable audit record of one balance
// transition. WorkID weakly references the work transaction that caused
// the change; the work may since have been deleted, in which case readers
// must treat the reference as "work details unavailable".
//
// Entries are append-only. The only deletion path is retention pruning.
type BalanceHistoryEntry struct {
	ID              string
	ClientID        string
	WorkID          string // empty when the change was not work-driven
	PreviousBalance int64
	NewBalance      int64
	BalanceChange   int64 // always NewBalance - PreviousBalance
	ChangeType      ChangeType
	Description     string
	CreatedAt       time.Time
}

// Validate checks the entry's internal invariant.
func (e *BalanceHistoryEntry) Validate() error {
	if e.BalanceChange != e.NewBalance-e.PreviousBalance {
		return ErrInconsistentEntry
	}

	return nil
}
