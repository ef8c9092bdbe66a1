package handlers

import (
	"net/http"

	"linea1-bknd/internal/middleware"
	"linea1-bknd/internal/models"
	"linea1-bknd/internal/services"

	"go.uber.org/zap"
)

type SubCircuitHandler struct {
	service *services.SubCircuitService
	logr    *zap.Logger
}

func NewSubCircuitHandler(svc *services.SubCircuitService, logr *zap.Logger) *SubCircuitHandler {
	return &SubCircuitHandler{service: svc, logr: logr}
}

func (h *SubCircuitHandler) ListByCircuit(w http.ResponseWriter, r *http.Request) {
	circuitID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	subs, err := h.service.ListByCircuit(r.Context(), circuitID)
	if err != nil {
		h.logr.Error("failed to list sub-circuits", zap.Error(err), zap.Int64("circuit_id", circuitID))
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

func (h *SubCircuitHandler) Create(w http.ResponseWriter, r *http.Request) {
	circuitID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req models.SubCircuitCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sub, err := h.service.Create(r.Context(), circuitID, req, middleware.UserFromContext(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (h *SubCircuitHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req models.StatusChangeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sub, err := h.service.ChangeStatus(r.Context(), id, req.Status, middleware.UserFromContext(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *SubCircuitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id, middleware.UserFromContext(r.Context())); err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}
