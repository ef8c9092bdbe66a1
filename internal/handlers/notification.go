package handlers

import (
	"net/http"
	"strconv"

	"linea1-bknd/internal/models"
	"linea1-bknd/internal/services"
	"linea1-bknd/internal/utils"

	"go.uber.org/zap"
)

type NotificationHandler struct {
	service *services.NotificationService
	logr    *zap.Logger
}

func NewNotificationHandler(svc *services.NotificationService, logr *zap.Logger) *NotificationHandler {
	return &NotificationHandler{service: svc, logr: logr}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var isRead *bool
	if v := q.Get("is_read"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid is_read")
			return
		}
		isRead = &b
	}

	notifications, err := h.service.List(r.Context(), isRead, utils.ParseQueryList(q, "type"))
	if err != nil {
		h.logr.Error("failed to list notifications", zap.Error(err))
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.UnreadCount(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"unread_count": count})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.MarkRead(r.Context(), id); err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "is_read": true})
}

// Extend postpones a reserve-contact alert until the given date.
func (h *NotificationHandler) Extend(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req models.NotificationExtend
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ExtendedUntil.IsZero() {
		writeError(w, http.StatusBadRequest, "extended_until is required")
		return
	}
	if err := h.service.Extend(r.Context(), id, req.ExtendedUntil); err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "extended_until": req.ExtendedUntil})
}

func (h *NotificationHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.Dismiss(r.Context(), id); err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "is_dismissed": true})
}
