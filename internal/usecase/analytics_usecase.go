package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTrendMonths is the income-trend window when none is requested.
const DefaultTrendMonths = 12

// AnalyticsUseCase serves the dashboard aggregates: income trends and
// per-work-type performance.
type AnalyticsUseCase struct {
	workRepo WorkRepository
}

// NewAnalyticsUseCase creates a new AnalyticsUseCase.
func NewAnalyticsUseCase(workRepo WorkRepository) *AnalyticsUseCase {
	return &AnalyticsUseCase{workRepo: workRepo}
}

// IncomeTrendPoint is one calendar month of the income trend.
type IncomeTrendPoint struct {
	Month         time.Time
	Income        int64
	Billed        int64
	WorkCount     int64
	AverageTicket decimal.Decimal // billed value per work, minor units
}

// GetIncomeTrend returns per-month billing aggregates for the trailing
// window of months (oldest first).
func (uc *AnalyticsUseCase) GetIncomeTrend(ctx context.Context, months int) ([]*IncomeTrendPoint, error) {
	if months <= 0 {
		months = DefaultTrendMonths
	}

	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	rows, err := uc.workRepo.IncomeByMonth(ctx, from)
	if err != nil {
		return nil, err
	}

	points := make([]*IncomeTrendPoint, 0, len(rows))

	for _, row := range rows {
		point := &IncomeTrendPoint{
			Month:     row.Month,
			Income:    row.Income,
			Billed:    row.Billed,
			WorkCount: row.Count,
		}

		if row.Count > 0 {
			point.AverageTicket = decimal.NewFromInt(row.Billed).
				Div(decimal.NewFromInt(row.Count)).
				Round(2)
		}

		points = append(points, point)
	}

	return points, nil
}

// WorkTypePerformance aggregates works by work type, with each type's
// share of total collected revenue as a percentage.
type WorkTypePerformance struct {
	WorkType     string
	Count        int64
	Billed       int64
	Collected    int64
	RevenueShare decimal.Decimal
}

// GetWorkTypePerformance returns per-work-type aggregates over the full
// work-transaction set. A work with several types counts toward each.
func (uc *AnalyticsUseCase) GetWorkTypePerformance(ctx context.Context) ([]*WorkTypePerformance, error) {
	rows, err := uc.workRepo.StatsByWorkType(ctx)
	if err != nil {
		return nil, err
	}

	var totalCollected int64
	for _, row := range rows {
		totalCollected += row.Collected
	}

	results := make([]*WorkTypePerformance, 0, len(rows))

	for _, row := range rows {
		perf := &WorkTypePerformance{
			WorkType:  row.WorkType,
			Count:     row.Count,
			Billed:    row.Billed,
			Collected: row.Collected,
		}

		if totalCollected > 0 {
			perf.RevenueShare = decimal.NewFromInt(row.Collected).
				Div(decimal.NewFromInt(totalCollected)).
				Mul(decimal.NewFromInt(100)).
				Round(2)
		}

		results = append(results, perf)
	}

	return results, nil
}
