package handlers

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"parkyard/internal/service"
)

// ReportsHandler exposes the reporting endpoints.
type ReportsHandler struct {
	svc    *service.ReportService
	logger *zap.Logger
}

// NewReportsHandler builds handler set.
func NewReportsHandler(svc *service.ReportService, logger *zap.Logger) *ReportsHandler {
	return &ReportsHandler{svc: svc, logger: logger}
}

// HandleRevenue handles GET /reports/revenue?from=&to=.
func (h *ReportsHandler) HandleRevenue(w http.ResponseWriter, r *http.Request) {
	from, to, ok := h.period(w, r)
	if !ok {
		return
	}

	result, err := h.svc.RevenueByDay(r.Context(), from, to)
	if err != nil {
		h.logger.Error("revenue report failed", zap.Error(err))
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"days": result})
}

// HandleTopVehicles handles GET /reports/top-vehicles?from=&to=.
func (h *ReportsHandler) HandleTopVehicles(w http.ResponseWriter, r *http.Request) {
	from, to, ok := h.period(w, r)
	if !ok {
		return
	}

	result, err := h.svc.TopVehicles(r.Context(), from, to)
	if err != nil {
		h.logger.Error("top vehicles report failed", zap.Error(err))
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"vehicles": result})
}

// HandleOccupancy handles GET /reports/occupancy?from=&to=.
func (h *ReportsHandler) HandleOccupancy(w http.ResponseWriter, r *http.Request) {
	from, to, ok := h.period(w, r)
	if !ok {
		return
	}

	result, err := h.svc.OccupancyByHour(r.Context(), from, to)
	if err != nil {
		if errors.Is(err, service.ErrPeriodTooLarge) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("occupancy report failed", zap.Error(err))
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"hours": result})
}

func (h *ReportsHandler) period(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	from, err := parseTimeParam(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, "from must be RFC3339")
		return time.Time{}, time.Time{}, false
	}
	to, err := parseTimeParam(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, "to must be RFC3339")
		return time.Time{}, time.Time{}, false
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		writeError(w, http.StatusBadRequest, "to must not precede from")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
