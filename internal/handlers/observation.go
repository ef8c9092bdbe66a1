package handlers

import (
	"net/http"

	"linea1-bknd/internal/middleware"
	"linea1-bknd/internal/models"
	"linea1-bknd/internal/services"

	"go.uber.org/zap"
)

type ObservationHandler struct {
	service *services.ObservationService
	logr    *zap.Logger
}

func NewObservationHandler(svc *services.ObservationService, logr *zap.Logger) *ObservationHandler {
	return &ObservationHandler{service: svc, logr: logr}
}

func (h *ObservationHandler) ListByCircuit(w http.ResponseWriter, r *http.Request) {
	circuitID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	observations, err := h.service.ListByCircuit(r.Context(), circuitID)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, observations)
}

func (h *ObservationHandler) ListByBar(w http.ResponseWriter, r *http.Request) {
	barID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	observations, err := h.service.ListByBar(r.Context(), barID)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, observations)
}

func (h *ObservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.ObservationCreate
	if !decodeJSON(w, r, &input) {
		return
	}
	observation, err := h.service.Create(r.Context(), input, middleware.UserFromContext(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, observation)
}
