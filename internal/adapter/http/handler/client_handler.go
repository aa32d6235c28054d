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

// ClientService defines the behavior needed by ClientHandler.
type ClientService interface {
	CreateClient(ctx context.Context, input usecase.CreateClientInput) (*domain.Client, error)
	GetClient(ctx context.Context, id string) (*domain.Client, error)
	UpdateClient(ctx context.Context, id string, input usecase.UpdateClientInput) (*domain.Client, error)
	ListClients(ctx context.Context, input usecase.ListClientsInput) ([]*domain.Client, error)
}

// ClientHandler handles client directory HTTP requests.
type ClientHandler struct {
	clientUC ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientUC ClientService) *ClientHandler {
	return &ClientHandler{clientUC: clientUC}
}

// Create creates a new client.
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	client, err := h.clientUC.CreateClient(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create client", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ClientFromDomain(client))
}

// Get retrieves a client by ID.
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing client ID", "")
		return
	}

	client, err := h.clientUC.GetClient(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get client", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ClientFromDomain(client))
}

// Update applies a partial update to a client.
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing client ID", "")
		return
	}

	var req dto.UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	client, err := h.clientUC.UpdateClient(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update client", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ClientFromDomain(client))
}

// List lists clients.
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	clients, err := h.clientUC.ListClients(r.Context(), usecase.ListClientsInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list clients", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListClientsResponse{
		Clients: dto.ClientsFromDomain(clients),
		Total:   int64(len(clients)),
	})
}
