package handlers

import (
	"net/http"

	"linea1-bknd/internal/models"
	"linea1-bknd/internal/services"

	"go.uber.org/zap"
)

type StationHandler struct {
	service *services.StationService
	logr    *zap.Logger
}

func NewStationHandler(svc *services.StationService, logr *zap.Logger) *StationHandler {
	return &StationHandler{service: svc, logr: logr}
}

func (h *StationHandler) List(w http.ResponseWriter, r *http.Request) {
	stations, err := h.service.List(r.Context())
	if err != nil {
		h.logr.Error("failed to list stations", zap.Error(err))
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stations)
}

func (h *StationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	station, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, station)
}

func (h *StationHandler) PowerSummary(w http.ResponseWriter, r *http.Request) {
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

func (h *StationHandler) UpdateCapacity(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req models.StationUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.TransformerCapacityKW == nil {
		writeError(w, http.StatusBadRequest, "transformer_capacity_kw is required")
		return
	}
	station, err := h.service.UpdateCapacity(r.Context(), id, *req.TransformerCapacityKW)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, station)
}

// Recalculate forces a fresh aggregation of the station's power figures.
func (h *StationHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	station, err := h.service.Recalculate(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, station)
}
