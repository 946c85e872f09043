package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"parkyard/internal/models"
	"parkyard/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeDomainError maps the error taxonomy onto HTTP statuses: missing
// resources are 404, business-rule violations 422, concurrency conflicts 409,
// transient storage trouble 503, broken invariants and everything unknown 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrVehicleNotFound),
		errors.Is(err, models.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrSessionClosed),
		errors.Is(err, models.ErrMissingVersion),
		errors.Is(err, service.ErrInvalidPlate):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, models.ErrVersionMismatch),
		errors.Is(err, models.ErrActiveSessionExists),
		errors.Is(err, models.ErrPlateTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, models.ErrInvalidState):
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// parseTimeParam reads an optional RFC3339 query parameter. The zero time
// means absent.
func parseTimeParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}
