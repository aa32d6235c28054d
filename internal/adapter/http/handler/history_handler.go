package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/khatahq/khata/internal/adapter/http/dto"
	"github.com/khatahq/khata/internal/usecase"
)

// HistoryService defines the behavior needed by HistoryHandler.
type HistoryService interface {
	GetClientBalanceHistory(ctx context.Context, input usecase.GetHistoryInput) (*usecase.BalanceHistoryPage, error)
	GetClientBalanceTimeline(ctx context.Context, clientID string, limit int) (*usecase.BalanceTimeline, error)
	GetBalanceChangeSummary(ctx context.Context, input usecase.SummaryInput) (*usecase.BalanceChangeSummary, error)
	CleanupHistory(ctx context.Context, keepLastN int) (*usecase.CleanupResult, error)
}

// HistoryHandler handles balance-history HTTP requests.
type HistoryHandler struct {
	historyUC HistoryService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(historyUC HistoryService) *HistoryHandler {
	return &HistoryHandler{historyUC: historyUC}
}

// History returns a page of a client's balance changes, newest first.
func (h *HistoryHandler) History(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing client ID", "")
		return
	}

	page, err := h.historyUC.GetClientBalanceHistory(r.Context(), usecase.GetHistoryInput{
		ClientID: id,
		Limit:    parseIntQuery(r, "limit", 20),
		Offset:   parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance history", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceHistoryFromPage(page))
}

// Timeline returns the chronological balance replay for a client.
func (h *HistoryHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing client ID", "")
		return
	}

	timeline, err := h.historyUC.GetClientBalanceTimeline(r.Context(), id, parseIntQuery(r, "limit", 20))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance timeline", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceTimelineFromDomain(timeline))
}

// Summary returns increase/decrease aggregates over an optional
// DD/MM/YYYY date window.
func (h *HistoryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing client ID", "")
		return
	}

	fromDate, err := parseDateQuery(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from date", err.Error())
		return
	}

	toDate, err := parseDateQuery(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to date", err.Error())
		return
	}

	var from, to time.Time
	if !fromDate.IsZero() {
		from = fromDate.Time()
	}
	if !toDate.IsZero() {
		// Include the whole end day.
		to = toDate.Time().AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	summary, err := h.historyUC.GetBalanceChangeSummary(r.Context(), usecase.SummaryInput{
		ClientID: id,
		From:     from,
		To:       to,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance summary", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceChangeSummaryFromDomain(summary))
}

// Cleanup permanently prunes each client's history down to the most
// recent keep_last_n entries.
func (h *HistoryHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	// An empty body means the server-side retention default.
	var req dto.CleanupHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.historyUC.CleanupHistory(r.Context(), req.KeepLastN)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clean up history", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CleanupHistoryResponse{
		ClientsProcessed: result.ClientsProcessed,
		EntriesDeleted:   result.EntriesDeleted,
	})
}
