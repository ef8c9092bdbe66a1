package handlers

import (
	"net/http"

	"linea1-bknd/internal/middleware"
	"linea1-bknd/internal/models"
	"linea1-bknd/internal/services"

	"go.uber.org/zap"
)

type BackupHandler struct {
	service *services.BackupService
	logr    *zap.Logger
}

func NewBackupHandler(svc *services.BackupService, logr *zap.Logger) *BackupHandler {
	return &BackupHandler{service: svc, logr: logr}
}

func (h *BackupHandler) List(w http.ResponseWriter, r *http.Request) {
	backups, err := h.service.List(r.Context())
	if err != nil {
		h.logr.Error("failed to list backups", zap.Error(err))
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, backups)
}

func (h *BackupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.BackupCreate
	if !decodeJSON(w, r, &input) {
		return
	}
	backup, err := h.service.Create(r.Context(), input, middleware.UserFromContext(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, backup)
}

func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.Restore(r.Context(), id, middleware.UserFromContext(r.Context())); err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"restored_from": id})
}
