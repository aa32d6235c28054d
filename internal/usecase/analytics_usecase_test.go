package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/khatahq/khata/internal/domain"
	"github.com/khatahq/khata/internal/usecase"
	"github.com/khatahq/khata/internal/usecase/mocks"
)

func TestAnalyticsUseCase_GetIncomeTrend(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	workRepo := mocks.NewMockWorkRepository(ctrl)

	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	var capturedFrom time.Time
	workRepo.EXPECT().IncomeByMonth(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, from time.Time) ([]*domain.MonthlyIncome, error) {
			capturedFrom = from
			return []*domain.MonthlyIncome{
				{Month: jan, Income: 4000, Billed: 1000, Count: 4},
				{Month: feb, Income: 0, Billed: 0, Count: 0},
			}, nil
		})

	uc := usecase.NewAnalyticsUseCase(workRepo)

	points, err := uc.GetIncomeTrend(context.Background(), 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Six months back from the current month, anchored to the first.
	now := time.Now().UTC()
	wantFrom := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -5, 0)
	if !capturedFrom.Equal(wantFrom) {
		t.Errorf("expected window start %s, got %s", wantFrom, capturedFrom)
	}

	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}

	if !points[0].AverageTicket.Equal(decimal.NewFromInt(250)) {
		t.Errorf("expected average ticket 250, got %s", points[0].AverageTicket)
	}

	// No works means no average, not a division by zero.
	if !points[1].AverageTicket.IsZero() {
		t.Errorf("expected zero average for empty month, got %s", points[1].AverageTicket)
	}
}

func TestAnalyticsUseCase_GetIncomeTrend_DefaultWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	workRepo := mocks.NewMockWorkRepository(ctrl)

	workRepo.EXPECT().IncomeByMonth(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, from time.Time) ([]*domain.MonthlyIncome, error) {
			now := time.Now().UTC()
			want := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
				AddDate(0, -(usecase.DefaultTrendMonths - 1), 0)
			if !from.Equal(want) {
				t.Errorf("expected default window start %s, got %s", want, from)
			}
			return nil, nil
		})

	uc := usecase.NewAnalyticsUseCase(workRepo)

	if _, err := uc.GetIncomeTrend(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAnalyticsUseCase_GetWorkTypePerformance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	workRepo := mocks.NewMockWorkRepository(ctrl)
	workRepo.EXPECT().StatsByWorkType(gomock.Any()).Return([]*domain.WorkTypeStats{
		{WorkType: "stitching", Count: 8, Billed: 9000, Collected: 7500},
		{WorkType: "dyeing", Count: 3, Billed: 4000, Collected: 2500},
	}, nil)

	uc := usecase.NewAnalyticsUseCase(workRepo)

	results, err := uc.GetWorkTypePerformance(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	if !results[0].RevenueShare.Equal(decimal.NewFromInt(75)) {
		t.Errorf("expected 75%% share for stitching, got %s", results[0].RevenueShare)
	}

	if !results[1].RevenueShare.Equal(decimal.NewFromInt(25)) {
		t.Errorf("expected 25%% share for dyeing, got %s", results[1].RevenueShare)
	}
}

func TestAnalyticsUseCase_GetWorkTypePerformance_NoRevenue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	workRepo := mocks.NewMockWorkRepository(ctrl)
	workRepo.EXPECT().StatsByWorkType(gomock.Any()).Return([]*domain.WorkTypeStats{
		{WorkType: "stitching", Count: 2, Billed: 3000, Collected: 0},
	}, nil)

	uc := usecase.NewAnalyticsUseCase(workRepo)

	results, err := uc.GetWorkTypePerformance(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !results[0].RevenueShare.IsZero() {
		t.Errorf("expected zero share with no revenue, got %s", results[0].RevenueShare)
	}
}
