package handlers

import (
	"net/http"
	"strconv"

	"linea1-bknd/internal/models"
	"linea1-bknd/internal/services"

	"go.uber.org/zap"
)

type AuditHandler struct {
	service *services.AuditService
	logr    *zap.Logger
}

func NewAuditHandler(svc *services.AuditService, logr *zap.Logger) *AuditHandler {
	return &AuditHandler{service: svc, logr: logr}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := models.AuditFilterParams{
		EntityType: q.Get("entity_type"),
		Limit:      100,
	}
	if v := q.Get("entity_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid entity_id")
			return
		}
		params.EntityID = &id
	}
	if v := q.Get("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid user_id")
			return
		}
		params.UserID = &id
	}
	if v := q.Get("is_flagged"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid is_flagged")
			return
		}
		params.IsFlagged = &b
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			params.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			params.Offset = n
		}
	}

	logs, err := h.service.List(r.Context(), params)
	if err != nil {
		h.logr.Error("failed to list audit logs", zap.Error(err))
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// Flag marks or clears the review flag on one audit entry.
func (h *AuditHandler) Flag(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var update models.AuditFlagUpdate
	if !decodeJSON(w, r, &update) {
		return
	}
	entry, err := h.service.Flag(r.Context(), id, update)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
