package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/khatahq/khata/internal/domain"
)

// HistoryUseCase serves read views over the balance-change audit trail,
// plus the destructive retention-pruning operation.
type HistoryUseCase struct {
	clientRepo  ClientRepository
	workRepo    WorkRepository
	historyRepo HistoryRepository
}

// NewHistoryUseCase creates a new HistoryUseCase.
func NewHistoryUseCase(clientRepo ClientRepository, workRepo WorkRepository, historyRepo HistoryRepository) *HistoryUseCase {
	return &HistoryUseCase{
		clientRepo:  clientRepo,
		workRepo:    workRepo,
		historyRepo: historyRepo,
	}
}

// HistoryEntryView pairs a history entry with the current snapshot of the
// work transaction that caused it. Work is nil when the entry was not
// work-driven or the work has since been deleted.
type HistoryEntryView struct {
	Entry *domain.BalanceHistoryEntry
	Work  *domain.WorkTransaction
}

// BalanceHistoryPage is one page of a client's history, newest first.
type BalanceHistoryPage struct {
	Entries []*HistoryEntryView
	Total   int64
	HasMore bool
}

// GetHistoryInput represents input for the paginated history view.
type GetHistoryInput struct {
	ClientID string
	Limit    int
	Offset   int
}

// GetClientBalanceHistory returns a client's history entries in
// reverse-chronological order with work snapshots attached.
func (uc *HistoryUseCase) GetClientBalanceHistory(ctx context.Context, input GetHistoryInput) (*BalanceHistoryPage, error) {
	if input.Limit <= 0 {
		input.Limit = DefaultPageSize
	}

	if input.Limit > MaxPageSize {
		input.Limit = MaxPageSize
	}

	if input.Offset < 0 {
		input.Offset = 0
	}

	if _, err := uc.clientRepo.GetByID(ctx, input.ClientID); err != nil {
		return nil, err
	}

	entries, err := uc.historyRepo.ListByClient(ctx, input.ClientID, input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	total, err := uc.historyRepo.CountByClient(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}

	views := make([]*HistoryEntryView, 0, len(entries))

	for _, entry := range entries {
		view := &HistoryEntryView{Entry: entry}

		if entry.WorkID != "" {
			work, err := uc.workRepo.GetByID(ctx, entry.WorkID)
			switch {
			case err == nil:
				view.Work = work
			case errors.Is(err, domain.ErrWorkNotFound):
				// Work deleted after the entry was written; the weak
				// reference is simply unresolvable.
			default:
				return nil, err
			}
		}

		views = append(views, view)
	}

	return &BalanceHistoryPage{
		Entries: views,
		Total:   total,
		HasMore: int64(input.Offset+len(entries)) < total,
	}, nil
}

// TimelinePoint is one step of the chronological balance replay. The
// running balance at a point in time is the newBalance recorded by that
// entry; entries are append-only snapshots, not deltas to replay.
type TimelinePoint struct {
	Entry          *domain.BalanceHistoryEntry
	RunningBalance int64
}

// BalanceTimeline is the oldest-first replay of a client's balance.
type BalanceTimeline struct {
	Points         []*TimelinePoint
	CurrentBalance int64
	TotalEntries   int64
}

// GetClientBalanceTimeline returns the chronological balance replay for a
// client, along with the current balance and total entry count for
// cross-checking.
func (uc *HistoryUseCase) GetClientBalanceTimeline(ctx context.Context, clientID string, limit int) (*BalanceTimeline, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	client, err := uc.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	entries, err := uc.historyRepo.ListByClientAsc(ctx, clientID, limit)
	if err != nil {
		return nil, err
	}

	total, err := uc.historyRepo.CountByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	points := make([]*TimelinePoint, 0, len(entries))
	for _, entry := range entries {
		points = append(points, &TimelinePoint{
			Entry:          entry,
			RunningBalance: entry.NewBalance,
		})
	}

	return &BalanceTimeline{
		Points:         points,
		CurrentBalance: client.Balance,
		TotalEntries:   total,
	}, nil
}

// ChangeTypeSummary aggregates history entries of one change type.
type ChangeTypeSummary struct {
	Count int64
	Net   int64
}

// BalanceChangeSummary partitions a window of history entries into
// increases and decreases. TotalIncrease and TotalDecrease are magnitudes;
// NetChange = TotalIncrease - TotalDecrease.
type BalanceChangeSummary struct {
	TotalIncrease int64
	TotalDecrease int64
	NetChange     int64
	ByType        map[domain.ChangeType]*ChangeTypeSummary
}

// SummaryInput represents input for the change summary. Zero From/To mean
// an unbounded window on that side.
type SummaryInput struct {
	ClientID string
	From     time.Time
	To       time.Time
}

// GetBalanceChangeSummary summarizes a client's balance changes over an
// optional date window.
func (uc *HistoryUseCase) GetBalanceChangeSummary(ctx context.Context, input SummaryInput) (*BalanceChangeSummary, error) {
	if _, err := uc.clientRepo.GetByID(ctx, input.ClientID); err != nil {
		return nil, err
	}

	entries, err := uc.historyRepo.ListByClientRange(ctx, input.ClientID, input.From, input.To)
	if err != nil {
		return nil, err
	}

	summary := &BalanceChangeSummary{
		ByType: make(map[domain.ChangeType]*ChangeTypeSummary),
	}

	for _, entry := range entries {
		if entry.BalanceChange > 0 {
			summary.TotalIncrease += entry.BalanceChange
		} else {
			summary.TotalDecrease += -entry.BalanceChange
		}

		byType := summary.ByType[entry.ChangeType]
		if byType == nil {
			byType = &ChangeTypeSummary{}
			summary.ByType[entry.ChangeType] = byType
		}

		byType.Count++
		byType.Net += entry.BalanceChange
	}

	summary.NetChange = summary.TotalIncrease - summary.TotalDecrease

	return summary, nil
}

// CleanupResult reports what retention pruning removed.
type CleanupResult struct {
	ClientsProcessed int64
	EntriesDeleted   int64
}

// CleanupHistory keeps only the most recent keepLastN history entries per
// client (by creation time) and permanently deletes the rest. Destructive
// and irreversible; keepLastN <= 0 falls back to DefaultHistoryRetention.
func (uc *HistoryUseCase) CleanupHistory(ctx context.Context, keepLastN int) (*CleanupResult, error) {
	if keepLastN <= 0 {
		keepLastN = DefaultHistoryRetention
	}

	ids, err := uc.clientRepo.ListIDs(ctx)
	if err != nil {
		return nil, err
	}

	result := &CleanupResult{}

	for _, clientID := range ids {
		deleted, err := uc.historyRepo.PruneOldest(ctx, clientID, keepLastN)
		if err != nil {
			return nil, err
		}

		result.ClientsProcessed++
		result.EntriesDeleted += deleted
	}

	return result, nil
}
