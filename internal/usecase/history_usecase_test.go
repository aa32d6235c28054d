package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/khatahq/khata/internal/domain"
	"github.com/khatahq/khata/internal/usecase"
	"github.com/khatahq/khata/internal/usecase/mocks"
)

func TestHistoryUseCase_GetClientBalanceHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clientRepo := mocks.NewMockClientRepository(ctrl)
	workRepo := mocks.NewMockWorkRepository(ctrl)
	historyRepo := mocks.NewMockHistoryRepository(ctrl)

	clientRepo.EXPECT().GetByID(gomock.Any(), "c1").Return(&domain.Client{ID: "c1"}, nil)

	entries := []*domain.BalanceHistoryEntry{
		{ID: "h4", ClientID: "c1", WorkID: "w2", BalanceChange: -500},
		{ID: "h3", ClientID: "c1", WorkID: "w-gone", BalanceChange: 2000},
	}

	historyRepo.EXPECT().ListByClient(gomock.Any(), "c1", 2, 1).Return(entries, nil)
	historyRepo.EXPECT().CountByClient(gomock.Any(), "c1").Return(int64(5), nil)

	workRepo.EXPECT().GetByID(gomock.Any(), "w2").Return(&domain.WorkTransaction{ID: "w2"}, nil)
	workRepo.EXPECT().GetByID(gomock.Any(), "w-gone").Return(nil, domain.ErrWorkNotFound)

	uc := usecase.NewHistoryUseCase(clientRepo, workRepo, historyRepo)

	page, err := uc.GetClientBalanceHistory(context.Background(), usecase.GetHistoryInput{
		ClientID: "c1",
		Limit:    2,
		Offset:   1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if page.Total != 5 {
		t.Errorf("expected total 5, got %d", page.Total)
	}

	if !page.HasMore {
		t.Error("expected more pages past offset 1 + 2 of 5")
	}

	if len(page.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(page.Entries))
	}

	if page.Entries[0].Work == nil || page.Entries[0].Work.ID != "w2" {
		t.Error("expected work snapshot attached to first entry")
	}

	if page.Entries[1].Work != nil {
		t.Error("expected nil work for deleted reference")
	}
}

func TestHistoryUseCase_GetClientBalanceHistory_LastPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clientRepo := mocks.NewMockClientRepository(ctrl)
	workRepo := mocks.NewMockWorkRepository(ctrl)
	historyRepo := mocks.NewMockHistoryRepository(ctrl)

	clientRepo.EXPECT().GetByID(gomock.Any(), "c1").Return(&domain.Client{ID: "c1"}, nil)
	historyRepo.EXPECT().ListByClient(gomock.Any(), "c1", 20, 3).Return([]*domain.BalanceHistoryEntry{
		{ID: "h1", ClientID: "c1"},
		{ID: "h0", ClientID: "c1"},
	}, nil)
	historyRepo.EXPECT().CountByClient(gomock.Any(), "c1").Return(int64(5), nil)

	uc := usecase.NewHistoryUseCase(clientRepo, workRepo, historyRepo)

	page, err := uc.GetClientBalanceHistory(context.Background(), usecase.GetHistoryInput{
		ClientID: "c1",
		Offset:   3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if page.HasMore {
		t.Error("expected no more pages at 3 + 2 of 5")
	}
}

func TestHistoryUseCase_GetClientBalanceHistory_ClientNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clientRepo := mocks.NewMockClientRepository(ctrl)
	workRepo := mocks.NewMockWorkRepository(ctrl)
	historyRepo := mocks.NewMockHistoryRepository(ctrl)

	clientRepo.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, domain.ErrClientNotFound)

	uc := usecase.NewHistoryUseCase(clientRepo, workRepo, historyRepo)

	_, err := uc.GetClientBalanceHistory(context.Background(), usecase.GetHistoryInput{ClientID: "missing"})
	if !errors.Is(err, domain.ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound, got %v", err)
	}
}

func TestHistoryUseCase_GetClientBalanceTimeline(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clientRepo := mocks.NewMockClientRepository(ctrl)
	workRepo := mocks.NewMockWorkRepository(ctrl)
	historyRepo := mocks.NewMockHistoryRepository(ctrl)

	clientRepo.EXPECT().GetByID(gomock.Any(), "c1").Return(&domain.Client{ID: "c1", Balance: 300}, nil)
	historyRepo.EXPECT().ListByClientAsc(gomock.Any(), "c1", 20).Return([]*domain.BalanceHistoryEntry{
		{ID: "h1", PreviousBalance: 0, NewBalance: 1000, BalanceChange: 1000},
		{ID: "h2", PreviousBalance: 1000, NewBalance: 300, BalanceChange: -700},
	}, nil)
	historyRepo.EXPECT().CountByClient(gomock.Any(), "c1").Return(int64(2), nil)

	uc := usecase.NewHistoryUseCase(clientRepo, workRepo, historyRepo)

	timeline, err := uc.GetClientBalanceTimeline(context.Background(), "c1", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if timeline.CurrentBalance != 300 || timeline.TotalEntries != 2 {
		t.Errorf("unexpected timeline header: %+v", timeline)
	}

	if len(timeline.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(timeline.Points))
	}

	if timeline.Points[0].RunningBalance != 1000 || timeline.Points[1].RunningBalance != 300 {
		t.Errorf("unexpected running balances: %d, %d",
			timeline.Points[0].RunningBalance, timeline.Points[1].RunningBalance)
	}

	// The final point must agree with the stored balance.
	last := timeline.Points[len(timeline.Points)-1]
	if last.RunningBalance != timeline.CurrentBalance {
		t.Errorf("timeline ends at %d but balance is %d", last.RunningBalance, timeline.CurrentBalance)
	}
}

func TestHistoryUseCase_GetBalanceChangeSummary(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clientRepo := mocks.NewMockClientRepository(ctrl)
	workRepo := mocks.NewMockWorkRepository(ctrl)
	historyRepo := mocks.NewMockHistoryRepository(ctrl)

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	clientRepo.EXPECT().GetByID(gomock.Any(), "c1").Return(&domain.Client{ID: "c1"}, nil)
	historyRepo.EXPECT().ListByClientRange(gomock.Any(), "c1", from, to).Return([]*domain.BalanceHistoryEntry{
		{BalanceChange: 10000, ChangeType: domain.ChangeTypeWorkCreated},
		{BalanceChange: -10000, ChangeType: domain.ChangeTypePaymentMade},
		{BalanceChange: 5000, ChangeType: domain.ChangeTypeWorkCreated},
		{BalanceChange: -3000, ChangeType: domain.ChangeTypeManualAdjustment},
	}, nil)

	uc := usecase.NewHistoryUseCase(clientRepo, workRepo, historyRepo)

	summary, err := uc.GetBalanceChangeSummary(context.Background(), usecase.SummaryInput{
		ClientID: "c1",
		From:     from,
		To:       to,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.TotalIncrease != 15000 {
		t.Errorf("expected total increase 15000, got %d", summary.TotalIncrease)
	}

	if summary.TotalDecrease != 13000 {
		t.Errorf("expected total decrease 13000, got %d", summary.TotalDecrease)
	}

	if summary.NetChange != 2000 {
		t.Errorf("expected net change 2000, got %d", summary.NetChange)
	}

	created := summary.ByType[domain.ChangeTypeWorkCreated]
	if created == nil || created.Count != 2 || created.Net != 15000 {
		t.Errorf("unexpected work_created summary: %+v", created)
	}

	payment := summary.ByType[domain.ChangeTypePaymentMade]
	if payment == nil || payment.Count != 1 || payment.Net != -10000 {
		t.Errorf("unexpected payment_made summary: %+v", payment)
	}
}

func TestHistoryUseCase_CleanupHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clientRepo := mocks.NewMockClientRepository(ctrl)
	workRepo := mocks.NewMockWorkRepository(ctrl)
	historyRepo := mocks.NewMockHistoryRepository(ctrl)

	clientRepo.EXPECT().ListIDs(gomock.Any()).Return([]string{"c1", "c2"}, nil)
	historyRepo.EXPECT().PruneOldest(gomock.Any(), "c1", 3).Return(int64(7), nil)
	historyRepo.EXPECT().PruneOldest(gomock.Any(), "c2", 3).Return(int64(0), nil)

	uc := usecase.NewHistoryUseCase(clientRepo, workRepo, historyRepo)

	result, err := uc.CleanupHistory(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.ClientsProcessed != 2 {
		t.Errorf("expected 2 clients processed, got %d", result.ClientsProcessed)
	}

	if result.EntriesDeleted != 7 {
		t.Errorf("expected 7 entries deleted, got %d", result.EntriesDeleted)
	}
}

func TestHistoryUseCase_CleanupHistory_DefaultRetention(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clientRepo := mocks.NewMockClientRepository(ctrl)
	workRepo := mocks.NewMockWorkRepository(ctrl)
	historyRepo := mocks.NewMockHistoryRepository(ctrl)

	clientRepo.EXPECT().ListIDs(gomock.Any()).Return([]string{"c1"}, nil)
	historyRepo.EXPECT().PruneOldest(gomock.Any(), "c1", usecase.DefaultHistoryRetention).Return(int64(12), nil)

	uc := usecase.NewHistoryUseCase(clientRepo, workRepo, historyRepo)

	result, err := uc.CleanupHistory(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.EntriesDeleted != 12 {
		t.Errorf("expected 12 entries deleted, got %d", result.EntriesDeleted)
	}
}

// TestHistoryUseCase_CleanupOverStore exercises pruning against the
// in-memory store end to end.
func TestHistoryUseCase_CleanupOverStore(t *testing.T) {
	env := newLedgerEnv()
	env.seedClient("c1")

	ctx := context.Background()

	// Ten adjustments leave ten history entries.
	for i := 1; i <= 10; i++ {
		if _, err := env.ledgerUC.AdjustBalance(ctx, usecase.AdjustBalanceInput{
			ClientID: "c1",
			Amount:   int64(i * 100),
		}); err != nil {
			t.Fatalf("adjust %d: %v", i, err)
		}
	}

	result, err := env.historyUC.CleanupHistory(ctx, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.EntriesDeleted != 7 {
		t.Errorf("expected 7 entries deleted, got %d", result.EntriesDeleted)
	}

	remaining := env.store.historyFor("c1")
	if len(remaining) != 3 {
		t.Fatalf("expected 3 entries remaining, got %d", len(remaining))
	}

	// The newest entries survive.
	if remaining[len(remaining)-1].BalanceChange != 1000 {
		t.Errorf("expected newest entry to survive, got change %d",
			remaining[len(remaining)-1].BalanceChange)
	}
}
