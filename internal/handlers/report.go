package handlers

import (
	"net/http"
	"time"

	"linea1-bknd/internal/services"

	"go.uber.org/zap"
)

type ReportHandler struct {
	service *services.ReportService
	logr    *zap.Logger
}

func NewReportHandler(svc *services.ReportService, logr *zap.Logger) *ReportHandler {
	return &ReportHandler{service: svc, logr: logr}
}

func (h *ReportHandler) DemandEvolution(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.DemandEvolution(r.Context())
	if err != nil {
		h.logr.Error("failed to build demand report", zap.Error(err))
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) RequestsPerStation(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var startDate, endDate *time.Time
	if v := q.Get("start_date"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start_date")
			return
		}
		startDate = &d
	}
	if v := q.Get("end_date"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end_date")
			return
		}
		endDate = &d
	}

	rows, err := h.service.RequestsPerStation(r.Context(), startDate, endDate)
	if err != nil {
		h.logr.Error("failed to build requests report", zap.Error(err))
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
