package handlers

import (
	"net/http"

	"linea1-bknd/internal/middleware"
	"linea1-bknd/internal/models"
	"linea1-bknd/internal/services"

	"go.uber.org/zap"
)

type UserHandler struct {
	service *services.UserService
	logr    *zap.Logger
}

func NewUserHandler(svc *services.UserService, logr *zap.Logger) *UserHandler {
	return &UserHandler{service: svc, logr: logr}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		h.logr.Error("failed to list users", zap.Error(err))
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.UserCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.service.Create(r.Context(), req, middleware.UserFromContext(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req models.UserUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.service.Update(r.Context(), id, req, middleware.UserFromContext(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Features lists the feature keys available for permission grants.
func (h *UserHandler) Features(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"features": h.service.Features()})
}

func (h *UserHandler) GetPermissions(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	set, err := h.service.GetPermissions(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	allowed := make([]string, 0, len(set))
	for _, f := range models.PermissionFeatures {
		if set.Has(f) {
			allowed = append(allowed, f)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"user_id": id, "allowed": allowed})
}

func (h *UserHandler) UpdatePermissions(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var update models.PermissionsBulkUpdate
	if !decodeJSON(w, r, &update) {
		return
	}
	perms, err := h.service.BulkUpdatePermissions(r.Context(), id, update, middleware.UserFromContext(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, perms)
}
