package middleware

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"linea1-bknd/internal/auth"
	"linea1-bknd/internal/models"
	"linea1-bknd/internal/services"

	"go.uber.org/zap"
)

type AuthMiddleware struct {
	jwt         *auth.JWTManager
	authService *services.AuthService
	logr        *zap.Logger
}

type contextKey string

const (
	ContextUserKey    contextKey = "user"
	ContextAuthMethod contextKey = "authMethod"
)

// NewAuthMiddleware creates a reusable JWT auth middleware instance.
func NewAuthMiddleware(jwt *auth.JWTManager, authService *services.AuthService, logr *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, authService: authService, logr: logr}
}

// JWTAuth validates the token, loads the user and attaches it to the request
// context. Inactive and reported accounts are rejected even with a valid token.
func (m *AuthMiddleware) JWTAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			http.Error(w, "invalid token format", http.StatusUnauthorized)
			return
		}

		claims, err := m.jwt.VerifyToken(tokenString)
		if err != nil {
			m.logr.Warn("token parse error", zap.Error(err))
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		user, err := m.authService.GetUserByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "user no longer exists", http.StatusUnauthorized)
				return
			}
			m.logr.Error("failed loading user for token", zap.Error(err), zap.Int64("user_id", claims.UserID))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if user.Status != models.UserActive {
			http.Error(w, "account is not active", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), ContextUserKey, user)
		ctx = context.WithValue(ctx, ContextAuthMethod, claims.AuthMethod)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the authenticated user, or nil outside JWTAuth.
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(ContextUserKey).(*models.User)
	return u
}

// RequireAdmin rejects non-admin users. Must run after JWTAuth.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil || user.Role != models.RoleAdmin {
			http.Error(w, "admin access required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission gates a route behind a per-user feature grant. Admins
// always pass.
func (m *AuthMiddleware) RequirePermission(feature string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}
			if user.Role == models.RoleAdmin {
				next.ServeHTTP(w, r)
				return
			}
			if !models.NewPermissionSet(user.Permissions).Has(feature) {
				http.Error(w, "permission denied: "+feature, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
