package handlers

import (
	"net/http"

	"linea1-bknd/internal/services"

	"go.uber.org/zap"
)

type BarHandler struct {
	service *services.BarService
	logr    *zap.Logger
}

func NewBarHandler(svc *services.BarService, logr *zap.Logger) *BarHandler {
	return &BarHandler{service: svc, logr: logr}
}

func (h *BarHandler) ListByStation(w http.ResponseWriter, r *http.Request) {
	stationID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	bars, err := h.service.ListByStation(r.Context(), stationID)
	if err != nil {
		h.logr.Error("failed to list bars", zap.Error(err), zap.Int64("station_id", stationID))
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bars)
}

func (h *BarHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	bar, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bar)
}

func (h *BarHandler) PowerSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	summary, err := h.service.PowerSummary(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
