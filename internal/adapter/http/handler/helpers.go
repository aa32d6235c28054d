package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/khatahq/khata/internal/adapter/http/dto"
	"github.com/khatahq/khata/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrClientNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrWorkNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicatePhone):
		return http.StatusConflict
	case errors.Is(err, domain.ErrDuplicatePAN):
		return http.StatusConflict
	case errors.Is(err, domain.ErrDuplicateAadhar):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidClientName),
		errors.Is(err, domain.ErrInvalidPhone),
		errors.Is(err, domain.ErrInvalidPAN),
		errors.Is(err, domain.ErrInvalidAadhar),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidWorkDate),
		errors.Is(err, domain.ErrNoWorkTypes):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseDateQuery parses an optional DD/MM/YYYY query parameter.
func parseDateQuery(r *http.Request, key string) (domain.WorkDate, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return domain.WorkDate{}, nil
	}

	return domain.ParseWorkDate(val)
}
