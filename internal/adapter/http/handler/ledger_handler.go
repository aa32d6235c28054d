package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/khatahq/khata/internal/adapter/http/dto"
	"github.com/khatahq/khata/internal/domain"
	"github.com/khatahq/khata/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	AdjustBalance(ctx context.Context, input usecase.AdjustBalanceInput) (*domain.BalanceHistoryEntry, error)
	ReconcileClient(ctx context.Context, clientID string) (*usecase.ReconcileResult, error)
	ReconcileAll(ctx context.Context) ([]*usecase.ReconcileResult, error)
}

// LedgerHandler handles balance adjustment and reconciliation requests.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// AdjustBalance applies a manual balance adjustment to a client. A zero
// amount is accepted and recorded as nothing.
func (h *LedgerHandler) AdjustBalance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing client ID", "")
		return
	}

	var req dto.AdjustBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.ledgerUC.AdjustBalance(r.Context(), usecase.AdjustBalanceInput{
		ClientID:    id,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to adjust balance", err.Error())
		return
	}

	if entry == nil {
		// Zero delta: nothing recorded.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, dto.HistoryEntryFromDomain(entry))
}

// Reconcile recomputes one client's balance from scratch and repairs
// drift.
func (h *LedgerHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing client ID", "")
		return
	}

	result, err := h.ledgerUC.ReconcileClient(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reconcile client", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconcileFromDomain(result))
}

// ReconcileAll sweeps every client.
func (h *LedgerHandler) ReconcileAll(w http.ResponseWriter, r *http.Request) {
	results, err := h.ledgerUC.ReconcileAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reconcile clients", err.Error())
		return
	}

	resp := dto.ReconcileAllResponse{
		Results: make([]*dto.ReconcileResponse, len(results)),
	}

	for i, result := range results {
		resp.Results[i] = dto.ReconcileFromDomain(result)
		if result.Corrected {
			resp.Corrected++
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
