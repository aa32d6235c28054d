package handler

import (
	"context"
	"net/http"

	"github.com/khatahq/khata/internal/adapter/http/dto"
	"github.com/khatahq/khata/internal/usecase"
)

// AnalyticsService defines the behavior needed by AnalyticsHandler.
type AnalyticsService interface {
	GetIncomeTrend(ctx context.Context, months int) ([]*usecase.IncomeTrendPoint, error)
	GetWorkTypePerformance(ctx context.Context) ([]*usecase.WorkTypePerformance, error)
}

// AnalyticsHandler handles dashboard analytics requests.
type AnalyticsHandler struct {
	analyticsUC AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsUC AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsUC: analyticsUC}
}

// IncomeTrend returns per-month billing aggregates for the trailing
// months window.
func (h *AnalyticsHandler) IncomeTrend(w http.ResponseWriter, r *http.Request) {
	months := parseIntQuery(r, "months", 0)

	points, err := h.analyticsUC.GetIncomeTrend(r.Context(), months)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get income trend", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.IncomeTrendFromDomain(points))
}

// WorkTypes returns per-work-type performance aggregates.
func (h *AnalyticsHandler) WorkTypes(w http.ResponseWriter, r *http.Request) {
	rows, err := h.analyticsUC.GetWorkTypePerformance(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get work type performance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WorkTypePerformanceFromDomain(rows))
}
