package handlers

import (
	"net/http"
	"strings"

	"linea1-bknd/internal/middleware"
	"linea1-bknd/internal/services"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service *services.AuthService
	logr    *zap.Logger
}

func NewAuthHandler(svc *services.AuthService, logr *zap.Logger) *AuthHandler {
	return &AuthHandler{service: svc, logr: logr}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	resp, err := h.service.LoginLocal(r.Context(), req.Username, req.Password)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) LoginLDAP(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	resp, err := h.service.LoginLDAP(r.Context(), req.Username, req.Password)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Me returns the authenticated user attached by the JWT middleware.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
