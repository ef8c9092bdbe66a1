package handlers

import (
	"net/http"

	"linea1-bknd/internal/middleware"
	"linea1-bknd/internal/models"
	"linea1-bknd/internal/services"

	"go.uber.org/zap"
)

type RequestHandler struct {
	service *services.RequestService
	logr    *zap.Logger
}

func NewRequestHandler(svc *services.RequestService, logr *zap.Logger) *RequestHandler {
	return &RequestHandler{service: svc, logr: logr}
}

func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	requests, err := h.service.List(r.Context())
	if err != nil {
		h.logr.Error("failed to list requests", zap.Error(err))
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

// ListMine returns only the caller's own requests.
func (h *RequestHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	requests, err := h.service.ListMine(r.Context(), user.ID)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

// CircuitOptions lists the circuits of a bar a requester can attach a
// sub-circuit request to.
func (h *RequestHandler) CircuitOptions(w http.ResponseWriter, r *http.Request) {
	barID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	options, err := h.service.CircuitOptions(r.Context(), barID)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

func (h *RequestHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var input models.LoadRequestCreate
	if !decodeJSON(w, r, &input) {
		return
	}
	resp, err := h.service.Submit(r.Context(), input, middleware.UserFromContext(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *RequestHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	resp, err := h.service.Approve(r.Context(), id, middleware.UserFromContext(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *RequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req models.LoadRequestReject
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := h.service.Reject(r.Context(), id, req.RejectionReason, middleware.UserFromContext(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
