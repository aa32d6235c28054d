package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/khatahq/khata/internal/domain"
	"github.com/khatahq/khata/internal/infrastructure/metrics"
)

// LedgerUseCase maintains client balances and the balance-change audit
// trail. Balances are kept as running totals: every work-transaction
// mutation feeds its signed delta through Apply inside the mutation's own
// transaction. Recomputation from scratch exists only as the explicit
// reconcile repair routine.
type LedgerUseCase struct {
	txManager   TransactionManager
	clientRepo  ClientRepository
	workRepo    WorkRepository
	historyRepo HistoryRepository
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase. metrics may be nil.
func NewLedgerUseCase(
	txManager TransactionManager,
	clientRepo ClientRepository,
	workRepo WorkRepository,
	historyRepo HistoryRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		clientRepo:  clientRepo,
		workRepo:    workRepo,
		historyRepo: historyRepo,
		idGen:       idGen,
		metrics:     metrics,
	}
}

// BalanceChange describes one balance transition to record.
type BalanceChange struct {
	Delta       int64
	ChangeType  domain.ChangeType
	WorkID      string // optional weak reference to the causing work
	Description string
}

// Apply adds a signed delta to an already-locked client inside the
// caller's transaction and appends one history entry capturing the
// transition. A zero delta is an idempotent no-op: the balance is left
// untouched and no history entry is written.
//
// The client's in-memory Balance is advanced so callers can chain
// multiple changes in one transaction.
func (uc *LedgerUseCase) Apply(
	ctx context.Context,
	tx Transaction,
	client *domain.Client,
	change BalanceChange,
	now time.Time,
) (*domain.BalanceHistoryEntry, error) {
	if change.Delta == 0 {
		return nil, nil
	}

	previous := client.Balance
	newBalance := previous + change.Delta

	if err := uc.clientRepo.UpdateBalance(ctx, tx, client.ID, newBalance, now); err != nil {
		return nil, err
	}

	entry := &domain.BalanceHistoryEntry{
		ID:              uc.idGen.Generate(),
		ClientID:        client.ID,
		WorkID:          change.WorkID,
		PreviousBalance: previous,
		NewBalance:      newBalance,
		BalanceChange:   change.Delta,
		ChangeType:      change.ChangeType,
		Description:     change.Description,
		CreatedAt:       now,
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := uc.historyRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}

	client.Balance = newBalance

	if uc.metrics != nil {
		uc.metrics.HistoryEntriesWritten.Inc()
	}

	return entry, nil
}

// AdjustBalanceInput represents a manual balance adjustment.
type AdjustBalanceInput struct {
	ClientID    string
	Amount      int64 // signed delta in minor units
	Description string
}

// AdjustBalance applies a manual adjustment to a client's balance in its
// own transaction.
func (uc *LedgerUseCase) AdjustBalance(ctx context.Context, input AdjustBalanceInput) (*domain.BalanceHistoryEntry, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	client, err := uc.clientRepo.GetByIDForUpdate(ctx, tx, input.ClientID)
	if err != nil {
		return nil, err
	}

	description := input.Description
	if description == "" {
		description = fmt.Sprintf("Manual balance adjustment of %d", input.Amount)
	}

	entry, err := uc.Apply(ctx, tx, client, BalanceChange{
		Delta:       input.Amount,
		ChangeType:  domain.ChangeTypeManualAdjustment,
		Description: description,
	}, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BalanceAdjustments.Inc()
	}

	return entry, nil
}

// ReconcileResult reports the outcome of a balance reconciliation.
type ReconcileResult struct {
	ClientID        string
	RecordedBalance int64
	ComputedBalance int64
	Difference      int64
	Corrected       bool
	CheckedAt       time.Time
}

// ReconcileClient recomputes a client's balance from scratch as the sum of
// remainders over all current work transactions. If the stored balance has
// drifted, it is corrected and a balance_correction history entry records
// the repair.
func (uc *LedgerUseCase) ReconcileClient(ctx context.Context, clientID string) (*ReconcileResult, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	client, err := uc.clientRepo.GetByIDForUpdate(ctx, tx, clientID)
	if err != nil {
		return nil, err
	}

	computed, err := uc.workRepo.SumRemainderByClient(ctx, tx, clientID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	result := &ReconcileResult{
		ClientID:        clientID,
		RecordedBalance: client.Balance,
		ComputedBalance: computed,
		Difference:      computed - client.Balance,
		CheckedAt:       now,
	}

	if result.Difference != 0 {
		_, err = uc.Apply(ctx, tx, client, BalanceChange{
			Delta:      result.Difference,
			ChangeType: domain.ChangeTypeBalanceCorrection,
			Description: fmt.Sprintf(
				"Balance corrected from %d to %d during reconciliation",
				result.RecordedBalance, computed,
			),
		}, now)
		if err != nil {
			return nil, err
		}

		result.Corrected = true
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ReconciliationRuns.Inc()
		if result.Corrected {
			uc.metrics.ReconciliationCorrections.Inc()
		}
	}

	return result, nil
}

// ReconcileAll reconciles every client and reports each outcome.
func (uc *LedgerUseCase) ReconcileAll(ctx context.Context) ([]*ReconcileResult, error) {
	clients, err := uc.clientRepo.List(ctx, reconcileLimit, 0)
	if err != nil {
		return nil, err
	}

	results := make([]*ReconcileResult, 0, len(clients))

	for _, client := range clients {
		result, err := uc.ReconcileClient(ctx, client.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to reconcile client %s: %w", client.ID, err)
		}

		results = append(results, result)
	}

	return results, nil
}
