package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/khatahq/khata/internal/domain"
	"github.com/khatahq/khata/internal/infrastructure/metrics"
)

// WorkUseCase handles work-transaction business logic. Every mutation runs
// as one transaction covering the work record write, the owning client's
// balance update, and the history append: either all land or none do.
type WorkUseCase struct {
	txManager  TransactionManager
	clientRepo ClientRepository
	workRepo   WorkRepository
	ledger     *LedgerUseCase
	idGen      IDGenerator
	retrier    Retrier
	statsCache Cache // optional
	metrics    *metrics.Metrics
}

// NewWorkUseCase creates a new WorkUseCase. statsCache and metrics may be
// nil.
func NewWorkUseCase(
	txManager TransactionManager,
	clientRepo ClientRepository,
	workRepo WorkRepository,
	ledger *LedgerUseCase,
	idGen IDGenerator,
	retrier Retrier,
	statsCache Cache,
	metrics *metrics.Metrics,
) *WorkUseCase {
	return &WorkUseCase{
		txManager:  txManager,
		clientRepo: clientRepo,
		workRepo:   workRepo,
		ledger:     ledger,
		idGen:      idGen,
		retrier:    retrier,
		statsCache: statsCache,
		metrics:    metrics,
	}
}

// CreateWorkInput represents input for creating a work transaction.
type CreateWorkInput struct {
	ClientID    string
	Date        domain.WorkDate
	TotalPrice  int64
	PaidAmount  int64
	WorkTypes   []string
	Description string
}

// CreateWork creates a work transaction and credits its remainder to the
// owning client's balance.
func (uc *WorkUseCase) CreateWork(ctx context.Context, input CreateWorkInput) (*domain.WorkTransaction, error) {
	if err := domain.ValidateAmounts(input.TotalPrice, input.PaidAmount); err != nil {
		return nil, err
	}

	if input.Date.IsZero() {
		return nil, domain.ErrInvalidWorkDate
	}

	workTypes := domain.NormalizeWorkTypes(input.WorkTypes)
	if len(workTypes) == 0 {
		return nil, domain.ErrNoWorkTypes
	}

	var work *domain.WorkTransaction

	err := uc.retrier.Retry(ctx, func() error {
		w, err := uc.createWork(ctx, input, workTypes)
		if err != nil {
			return err
		}

		work = w

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.invalidateStats(ctx)

	if uc.metrics != nil {
		uc.metrics.WorksCreated.Inc()
		uc.metrics.WorkAmount.Observe(float64(work.TotalPrice))
	}

	return work, nil
}

func (uc *WorkUseCase) createWork(ctx context.Context, input CreateWorkInput, workTypes []string) (*domain.WorkTransaction, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	client, err := uc.clientRepo.GetByIDForUpdate(ctx, tx, input.ClientID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	work := &domain.WorkTransaction{
		ID:            uc.idGen.Generate(),
		ClientID:      input.ClientID,
		Date:          input.Date,
		TotalPrice:    input.TotalPrice,
		PaidAmount:    input.PaidAmount,
		WorkTypes:     workTypes,
		Description:   input.Description,
		PaymentStatus: domain.PaymentStatusFor(input.TotalPrice, input.PaidAmount),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.workRepo.Create(ctx, tx, work); err != nil {
		return nil, err
	}

	_, err = uc.ledger.Apply(ctx, tx, client, BalanceChange{
		Delta:      work.Remainder(),
		ChangeType: domain.ChangeTypeWorkCreated,
		WorkID:     work.ID,
		Description: fmt.Sprintf(
			"Work created on %s (total %d, paid %d)",
			work.Date, work.TotalPrice, work.PaidAmount,
		),
	}, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return work, nil
}

// UpdateWorkInput represents a partial update. Nil fields keep their
// existing values.
type UpdateWorkInput struct {
	ClientID    *string
	Date        *domain.WorkDate
	TotalPrice  *int64
	PaidAmount  *int64
	WorkTypes   []string
	Description *string
}

// UpdateWork applies a partial update to a work transaction, re-validating
// the merged values and feeding the net balance delta to the ledger. When
// the owning client changes, the old client loses the work's prior
// contribution and the new client gains its new contribution, atomically.
func (uc *WorkUseCase) UpdateWork(ctx context.Context, id string, input UpdateWorkInput) (*domain.WorkTransaction, error) {
	var work *domain.WorkTransaction

	err := uc.retrier.Retry(ctx, func() error {
		w, err := uc.updateWork(ctx, id, input)
		if err != nil {
			return err
		}

		work = w

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.invalidateStats(ctx)

	if uc.metrics != nil {
		uc.metrics.WorksUpdated.Inc()
	}

	return work, nil
}

func (uc *WorkUseCase) updateWork(ctx context.Context, id string, input UpdateWorkInput) (*domain.WorkTransaction, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	work, err := uc.workRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	oldClientID := work.ClientID
	oldRemainder := work.Remainder()

	merged := *work
	amountsChanged := false
	paidOnly := true

	if input.ClientID != nil {
		merged.ClientID = *input.ClientID
	}

	if input.Date != nil {
		if input.Date.IsZero() {
			return nil, domain.ErrInvalidWorkDate
		}

		merged.Date = *input.Date
	}

	if input.TotalPrice != nil {
		merged.TotalPrice = *input.TotalPrice
		amountsChanged = true
		paidOnly = false
	}

	if input.PaidAmount != nil {
		merged.PaidAmount = *input.PaidAmount
		amountsChanged = true
	}

	if input.WorkTypes != nil {
		workTypes := domain.NormalizeWorkTypes(input.WorkTypes)
		if len(workTypes) == 0 {
			return nil, domain.ErrNoWorkTypes
		}

		merged.WorkTypes = workTypes
	}

	if input.Description != nil {
		merged.Description = *input.Description
	}

	if err := domain.ValidateAmounts(merged.TotalPrice, merged.PaidAmount); err != nil {
		return nil, err
	}

	merged.PaymentStatus = domain.PaymentStatusFor(merged.TotalPrice, merged.PaidAmount)

	now := time.Now().UTC()
	merged.UpdatedAt = now

	if merged.ClientID != oldClientID {
		if err := uc.moveWork(ctx, tx, &merged, oldClientID, oldRemainder, now); err != nil {
			return nil, err
		}
	} else {
		client, err := uc.clientRepo.GetByIDForUpdate(ctx, tx, oldClientID)
		if err != nil {
			return nil, err
		}

		changeType := domain.ChangeTypeWorkUpdated
		if amountsChanged && paidOnly && merged.PaidAmount > work.PaidAmount {
			changeType = domain.ChangeTypePaymentMade
		}

		_, err = uc.ledger.Apply(ctx, tx, client, BalanceChange{
			Delta:      merged.Remainder() - oldRemainder,
			ChangeType: changeType,
			WorkID:     merged.ID,
			Description: fmt.Sprintf(
				"Work updated (total %d, paid %d)",
				merged.TotalPrice, merged.PaidAmount,
			),
		}, now)
		if err != nil {
			return nil, err
		}
	}

	if err := uc.workRepo.Update(ctx, tx, &merged); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &merged, nil
}

// moveWork reassigns a work to another client: the old client loses the
// prior contribution, the new one gains the updated contribution. Clients
// are locked in sorted ID order to avoid deadlocks.
func (uc *WorkUseCase) moveWork(
	ctx context.Context,
	tx Transaction,
	merged *domain.WorkTransaction,
	oldClientID string,
	oldRemainder int64,
	now time.Time,
) error {
	ids := []string{oldClientID, merged.ClientID}
	sort.Strings(ids)

	clients, err := uc.clientRepo.GetByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return err
	}

	if len(clients) != len(ids) {
		return domain.ErrClientNotFound
	}

	byID := make(map[string]*domain.Client, len(clients))
	for _, c := range clients {
		byID[c.ID] = c
	}

	_, err = uc.ledger.Apply(ctx, tx, byID[oldClientID], BalanceChange{
		Delta:       -oldRemainder,
		ChangeType:  domain.ChangeTypeWorkUpdated,
		WorkID:      merged.ID,
		Description: fmt.Sprintf("Work moved to client %s", merged.ClientID),
	}, now)
	if err != nil {
		return err
	}

	_, err = uc.ledger.Apply(ctx, tx, byID[merged.ClientID], BalanceChange{
		Delta:       merged.Remainder(),
		ChangeType:  domain.ChangeTypeWorkUpdated,
		WorkID:      merged.ID,
		Description: fmt.Sprintf("Work moved from client %s", oldClientID),
	}, now)

	return err
}

// DeleteWork removes a work transaction and reverses its contribution to
// the owning client's balance.
func (uc *WorkUseCase) DeleteWork(ctx context.Context, id string) error {
	err := uc.retrier.Retry(ctx, func() error {
		return uc.deleteWork(ctx, id)
	})
	if err != nil {
		return err
	}

	uc.invalidateStats(ctx)

	if uc.metrics != nil {
		uc.metrics.WorksDeleted.Inc()
	}

	return nil
}

func (uc *WorkUseCase) deleteWork(ctx context.Context, id string) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	work, err := uc.workRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return err
	}

	client, err := uc.clientRepo.GetByIDForUpdate(ctx, tx, work.ClientID)
	if err != nil {
		return err
	}

	if err := uc.workRepo.Delete(ctx, tx, id); err != nil {
		return err
	}

	now := time.Now().UTC()

	_, err = uc.ledger.Apply(ctx, tx, client, BalanceChange{
		Delta:      -work.Remainder(),
		ChangeType: domain.ChangeTypeWorkDeleted,
		WorkID:     work.ID,
		Description: fmt.Sprintf(
			"Work deleted (total %d, paid %d)",
			work.TotalPrice, work.PaidAmount,
		),
	}, now)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetWork retrieves a work transaction by ID.
func (uc *WorkUseCase) GetWork(ctx context.Context, id string) (*domain.WorkTransaction, error) {
	return uc.workRepo.GetByID(ctx, id)
}

// ListWorks lists work transactions with optional filters and pagination.
func (uc *WorkUseCase) ListWorks(ctx context.Context, filter domain.WorkFilter) ([]*domain.WorkTransaction, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultPageSize
	}

	if filter.Limit > MaxPageSize {
		filter.Limit = MaxPageSize
	}

	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return uc.workRepo.List(ctx, filter)
}

// GetWorkStats returns counts and sums by payment status over the full
// work-transaction set. Results are cached briefly; every work mutation
// invalidates the cache.
func (uc *WorkUseCase) GetWorkStats(ctx context.Context) (*domain.WorkStats, error) {
	if uc.statsCache != nil {
		if data, err := uc.statsCache.Get(ctx, StatsCacheKey); err == nil {
			var stats domain.WorkStats
			if err := json.Unmarshal(data, &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats, err := uc.workRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}

	if uc.statsCache != nil {
		if data, err := json.Marshal(stats); err == nil {
			_ = uc.statsCache.Set(ctx, StatsCacheKey, data, StatsCacheTTL)
		}
	}

	return stats, nil
}

func (uc *WorkUseCase) invalidateStats(ctx context.Context) {
	if uc.statsCache != nil {
		_ = uc.statsCache.Delete(ctx, StatsCacheKey)
	}
}
