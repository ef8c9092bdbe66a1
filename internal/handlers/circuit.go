package handlers

import (
	"net/http"

	"linea1-bknd/internal/middleware"
	"linea1-bknd/internal/models"
	"linea1-bknd/internal/services"

	"go.uber.org/zap"
)

type CircuitHandler struct {
	service *services.CircuitService
	logr    *zap.Logger
}

func NewCircuitHandler(svc *services.CircuitService, logr *zap.Logger) *CircuitHandler {
	return &CircuitHandler{service: svc, logr: logr}
}

func (h *CircuitHandler) ListByBar(w http.ResponseWriter, r *http.Request) {
	barID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	circuits, err := h.service.ListByBar(r.Context(), barID)
	if err != nil {
		h.logr.Error("failed to list circuits", zap.Error(err), zap.Int64("bar_id", barID))
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, circuits)
}

func (h *CircuitHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	circuit, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, circuit)
}

func (h *CircuitHandler) Create(w http.ResponseWriter, r *http.Request) {
	barID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req models.CircuitCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	circuit, err := h.service.Create(r.Context(), barID, req, middleware.UserFromContext(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, circuit)
}

func (h *CircuitHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req models.CircuitUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	circuit, err := h.service.Update(r.Context(), id, req, middleware.UserFromContext(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, circuit)
}

func (h *CircuitHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req models.StatusChangeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	circuit, err := h.service.ChangeStatus(r.Context(), id, req.Status, middleware.UserFromContext(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, circuit)
}

// DeletionPlan previews what a delete would remove, so the client can confirm
// the cascade before committing to it.
func (h *CircuitHandler) DeletionPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	plan, err := h.service.DeletionPlan(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *CircuitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	plan, err := h.service.Delete(r.Context(), id, middleware.UserFromContext(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": plan})
}
