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

// WorkService defines the behavior needed by WorkHandler.
type WorkService interface {
	CreateWork(ctx context.Context, input usecase.CreateWorkInput) (*domain.WorkTransaction, error)
	GetWork(ctx context.Context, id string) (*domain.WorkTransaction, error)
	UpdateWork(ctx context.Context, id string, input usecase.UpdateWorkInput) (*domain.WorkTransaction, error)
	DeleteWork(ctx context.Context, id string) error
	ListWorks(ctx context.Context, filter domain.WorkFilter) ([]*domain.WorkTransaction, error)
	GetWorkStats(ctx context.Context) (*domain.WorkStats, error)
}

// WorkHandler handles work-transaction HTTP requests.
type WorkHandler struct {
	workUC WorkService
}

// NewWorkHandler creates a new WorkHandler.
func NewWorkHandler(workUC WorkService) *WorkHandler {
	return &WorkHandler{workUC: workUC}
}

// Create records a new work transaction.
func (h *WorkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateWorkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	work, err := h.workUC.CreateWork(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create work", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.WorkFromDomain(work))
}

// Get retrieves a work transaction by ID.
func (h *WorkHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing work ID", "")
		return
	}

	work, err := h.workUC.GetWork(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get work", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WorkFromDomain(work))
}

// Update applies a partial update to a work transaction.
func (h *WorkHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing work ID", "")
		return
	}

	var req dto.UpdateWorkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	work, err := h.workUC.UpdateWork(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update work", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WorkFromDomain(work))
}

// Delete removes a work transaction and reverses its balance
// contribution.
func (h *WorkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing work ID", "")
		return
	}

	if err := h.workUC.DeleteWork(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete work", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List lists work transactions with optional filters.
func (h *WorkHandler) List(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateQuery(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from date", err.Error())
		return
	}

	to, err := parseDateQuery(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to date", err.Error())
		return
	}

	filter := domain.WorkFilter{
		ClientID:      r.URL.Query().Get("client_id"),
		WorkTypes:     r.URL.Query()["work_type"],
		PaymentStatus: domain.PaymentStatus(r.URL.Query().Get("payment_status")),
		From:          from,
		To:            to,
		Limit:         parseIntQuery(r, "limit", 20),
		Offset:        parseIntQuery(r, "offset", 0),
	}

	if filter.PaymentStatus != "" && !filter.PaymentStatus.Valid() {
		writeError(w, http.StatusBadRequest, "invalid payment status", string(filter.PaymentStatus))
		return
	}

	works, err := h.workUC.ListWorks(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list works", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListWorksResponse{
		Works: dto.WorksFromDomain(works),
		Total: int64(len(works)),
	})
}

// Stats returns aggregate work statistics.
func (h *WorkHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.workUC.GetWorkStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get work stats", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WorkStatsFromDomain(stats))
}
