package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"parkyard/internal/repository"
	"parkyard/internal/service"
)

// VehiclesHandler exposes vehicle registration endpoints.
type VehiclesHandler struct {
	svc    *service.VehicleService
	logger *zap.Logger
}

// NewVehiclesHandler builds handler set.
func NewVehiclesHandler(svc *service.VehicleService, logger *zap.Logger) *VehiclesHandler {
	return &VehiclesHandler{svc: svc, logger: logger}
}

type createVehicleRequest struct {
	Plate string  `json:"plate"`
	Model *string `json:"model"`
	Color *string `json:"color"`
	Type  string  `json:"type"`
}

type updateVehicleRequest struct {
	ID    string  `json:"id"`
	Model *string `json:"model"`
	Color *string `json:"color"`
	Type  *string `json:"type"`
}

// HandleCreate handles POST /vehicles.
func (h *VehiclesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Plate == "" {
		writeError(w, http.StatusBadRequest, "plate is required")
		return
	}

	vehicle, err := h.svc.Register(r.Context(), service.RegisterVehicleInput{
		Plate: req.Plate,
		Model: req.Model,
		Color: req.Color,
		Type:  req.Type,
	})
	if err != nil {
		h.logger.Warn("vehicle registration failed", zap.String("plate", req.Plate), zap.Error(err))
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, vehicle)
}

// HandleUpdate handles POST /vehicles/update.
func (h *VehiclesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	vehicle, err := h.svc.Update(r.Context(), req.ID, service.UpdateVehicleInput{
		Model: req.Model,
		Color: req.Color,
		Type:  req.Type,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

// HandleGet handles GET /vehicles/get?id=.
func (h *VehiclesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	vehicle, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

// HandleGetByPlate handles GET /vehicles/by-plate?plate=.
func (h *VehiclesHandler) HandleGetByPlate(w http.ResponseWriter, r *http.Request) {
	plate := r.URL.Query().Get("plate")
	if plate == "" {
		writeError(w, http.StatusBadRequest, "plate is required")
		return
	}

	vehicle, err := h.svc.GetByPlate(r.Context(), plate)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

// HandleList handles GET /vehicles/list with filter and pagination params.
func (h *VehiclesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("page_size"))

	result, err := h.svc.List(r.Context(), repository.VehicleFilter{
		Plate: query.Get("plate"),
		Model: query.Get("model"),
		Color: query.Get("color"),
		Type:  query.Get("type"),
	}, page, pageSize)
	if err != nil {
		h.logger.Error("failed to list vehicles", zap.Error(err))
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
