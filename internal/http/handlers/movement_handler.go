package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"parkyard/internal/models"
	"parkyard/internal/service"
)

// MovementHandler exposes the session lifecycle: entry, exit and live fee
// inquiry.
type MovementHandler struct {
	svc    *service.LifecycleService
	logger *zap.Logger
}

// NewMovementHandler builds handler set.
func NewMovementHandler(svc *service.LifecycleService, logger *zap.Logger) *MovementHandler {
	return &MovementHandler{svc: svc, logger: logger}
}

type entryRequest struct {
	VehicleID string `json:"vehicle_id"`
}

type exitRequest struct {
	SessionID string `json:"session_id"`
	// A pointer so that an absent token is distinguishable from zero; absence
	// is a business-rule error, not a validation default.
	Version *int64 `json:"version"`
}

// HandleEntry handles POST /yard/entry.
func (h *MovementHandler) HandleEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.VehicleID == "" {
		writeError(w, http.StatusBadRequest, "vehicle_id is required")
		return
	}

	session, err := h.svc.Enter(r.Context(), req.VehicleID)
	if err != nil {
		h.logger.Warn("entry failed", zap.String("vehicle_id", req.VehicleID), zap.Error(err))
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// HandleExit handles POST /yard/exit.
func (h *MovementHandler) HandleExit(w http.ResponseWriter, r *http.Request) {
	var req exitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	var version int64
	if req.Version != nil {
		version = *req.Version
	}

	session, err := h.svc.Exit(r.Context(), req.SessionID, version)
	if err != nil {
		h.logger.Warn("exit failed", zap.String("session_id", req.SessionID), zap.Error(err))
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// HandleFee handles GET /yard/fee?session_id=.
func (h *MovementHandler) HandleFee(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	amount, err := h.svc.Inquire(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"amount":     amount,
	})
}

// HandleActive handles GET /yard/active?plate=.
func (h *MovementHandler) HandleActive(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.svc.ListActive(r.Context(), r.URL.Query().Get("plate"))
	if err != nil {
		h.logger.Error("failed to list active sessions", zap.Error(err))
		writeDomainError(w, err)
		return
	}
	if sessions == nil {
		sessions = []models.Session{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
	})
}
