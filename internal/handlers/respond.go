package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"linea1-bknd/internal/energy"
	"linea1-bknd/internal/services"

	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

// respondErr translates service and domain errors to HTTP responses. A
// capacity overflow carries its numbers so the client can offer the forced
// retry.
func respondErr(w http.ResponseWriter, err error) {
	var capErr *energy.CapacityExceededError
	if errors.As(err, &capErr) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":               capErr.Error(),
			"requires_force":      capErr.RequiresForce,
			"bar_id":              capErr.BarID,
			"capacity_kw":         capErr.CapacityKW,
			"available_before_kw": capErr.AvailableBefore,
			"available_after_kw":  capErr.AvailableAfter,
		})
		return
	}

	var valErr *energy.ValidationError
	var inputErr *energy.InvalidInputError
	var upsErr *energy.InvalidUpsLinkError
	switch {
	case errors.As(err, &valErr), errors.As(err, &inputErr), errors.As(err, &upsErr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, sql.ErrNoRows):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrUsernameTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrBarNotFound),
		errors.Is(err, services.ErrFlagReasonRequired),
		errors.Is(err, services.ErrNotExtendable):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// idParam reads a chi URL parameter as int64, writing a 400 on failure.
func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
