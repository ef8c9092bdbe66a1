package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"linea1-bknd/internal/energy"
	"linea1-bknd/internal/models"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// RequestService runs the load-request lifecycle. Submissions and decisions
// validate through the energy core; an approval persists the decision and the
// created circuit or sub-circuit in one transaction so neither can apply
// alone.
type RequestService struct {
	db       *bun.DB
	stations *StationService
	audit    *AuditService
	logr     *zap.Logger
}

func NewRequestService(db *bun.DB, stations *StationService, audit *AuditService, logr *zap.Logger) *RequestService {
	return &RequestService{db: db, stations: stations, audit: audit, logr: logr}
}

func (s *RequestService) List(ctx context.Context) ([]models.LoadRequestResponse, error) {
	var requests []models.LoadRequest
	err := s.db.NewSelect().
		Model(&requests).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, requests)
}

func (s *RequestService) ListMine(ctx context.Context, userID int64) ([]models.LoadRequestResponse, error) {
	var requests []models.LoadRequest
	err := s.db.NewSelect().
		Model(&requests).
		Where("opersac_user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, requests)
}

// CircuitOption is a slim circuit row for the request form's dropdown.
type CircuitOption struct {
	ID           int64  `json:"id"`
	Denomination string `json:"denomination"`
	Name         string `json:"name"`
}

func (s *RequestService) CircuitOptions(ctx context.Context, barID int64) ([]CircuitOption, error) {
	var options []CircuitOption
	err := s.db.NewSelect().
		Model((*models.Circuit)(nil)).
		Column("id", "denomination", "name").
		Where("bar_id = ?", barID).
		Order("denomination ASC").
		Scan(ctx, &options)
	return options, err
}

// Submit validates and stores a pending request, then raises a
// request_pending notification for the reviewers.
func (s *RequestService) Submit(ctx context.Context, input models.LoadRequestCreate, submitter *models.User) (*models.LoadRequestResponse, error) {
	if input.FD == 0 {
		input.FD = 1.0
	}
	if err := energy.ValidateSubmit(input); err != nil {
		return nil, err
	}

	station := new(models.Station)
	if err := s.db.NewSelect().Model(station).Where("st.id = ?", input.StationID).Scan(ctx); err != nil {
		return nil, fmt.Errorf("load station: %w", err)
	}

	req := &models.LoadRequest{
		OpersacUserID:         submitter.ID,
		StationID:             input.StationID,
		BarType:               input.BarType,
		CircuitID:             input.CircuitID,
		LocalItem:             input.LocalItem,
		RequestedLoadKW:       input.RequestedLoadKW,
		FD:                    input.FD,
		SubCircuitName:        input.SubCircuitName,
		SubCircuitDescription: input.SubCircuitDescription,
		SubCircuitITM:         input.SubCircuitITM,
		SubCircuitMM2:         input.SubCircuitMM2,
		Justification:         input.Justification,
		Status:                models.RequestPending,
	}
	if _, err := s.db.NewInsert().Model(req).Exec(ctx); err != nil {
		return nil, err
	}

	notif := &models.Notification{
		StationID: &req.StationID,
		Type:      models.NotifRequestPending,
		Message: fmt.Sprintf("Nueva solicitud de ampliacion #%d de %s para la estacion %s (%.2f kW).",
			req.ID, submitter.FullName, station.Name, req.RequestedLoadKW),
	}
	if _, err := s.db.NewInsert().Model(notif).Exec(ctx); err != nil {
		s.logr.Error("failed to create request notification", zap.Error(err), zap.Int64("request_id", req.ID))
	}

	s.audit.Log(ctx, submitter, "CREATE_REQUEST", "request", &req.ID, map[string]any{
		"station_id": req.StationID,
		"bar_type":   req.BarType,
	})

	responses, err := s.enrich(ctx, []models.LoadRequest{*req})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// Approve re-runs the hierarchy validation (capacity check included) and, on
// success, persists the approved request together with the circuit or
// sub-circuit it creates, atomically. A CapacityExceededError comes back to
// the reviewer untouched.
func (s *RequestService) Approve(ctx context.Context, requestID int64, reviewer *models.User) (*models.LoadRequestResponse, error) {
	req := new(models.LoadRequest)
	if err := s.db.NewSelect().Model(req).Where("req.id = ?", requestID).Scan(ctx); err != nil {
		return nil, err
	}

	bar := new(models.Bar)
	err := s.db.NewSelect().
		Model(bar).
		Where("station_id = ?", req.StationID).
		Where("bar_type = ?", req.BarType).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrBarNotFound
		}
		return nil, err
	}

	var existing []*models.Circuit
	if err := s.db.NewSelect().Model(&existing).Where("bar_id = ?", bar.ID).Scan(ctx); err != nil {
		return nil, fmt.Errorf("load circuits: %w", err)
	}

	result, err := energy.Approve(req, bar, existing, reviewer, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if result.NewCircuit != nil {
			if _, err := tx.NewInsert().Model(result.NewCircuit).Exec(ctx); err != nil {
				return fmt.Errorf("insert circuit: %w", err)
			}
		}
		if result.NewSubCircuit != nil {
			if _, err := tx.NewInsert().Model(result.NewSubCircuit).Exec(ctx); err != nil {
				return fmt.Errorf("insert sub-circuit: %w", err)
			}
		}
		req.UpdatedAt = time.Now().UTC()
		if _, err := tx.NewUpdate().
			Model(req).
			Column("status", "reviewed_by", "reviewed_at", "updated_at").
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("update request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.stations.Recalculate(ctx, req.StationID); err != nil {
		s.logr.Error("failed to recalculate station after approval", zap.Error(err), zap.Int64("station_id", req.StationID))
	}

	details := map[string]any{"station_id": req.StationID}
	if result.NewCircuit != nil {
		details["circuit_created"] = true
	} else {
		details["sub_circuit_created"] = true
	}
	s.audit.Log(ctx, reviewer, "APPROVE_REQUEST", "request", &req.ID, details)

	responses, err := s.enrich(ctx, []models.LoadRequest{*req})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// Reject moves a pending request to rejected with a mandatory reason.
func (s *RequestService) Reject(ctx context.Context, requestID int64, reason string, reviewer *models.User) (*models.LoadRequestResponse, error) {
	req := new(models.LoadRequest)
	if err := s.db.NewSelect().Model(req).Where("req.id = ?", requestID).Scan(ctx); err != nil {
		return nil, err
	}

	if err := energy.Reject(req, reason, reviewer, time.Now().UTC()); err != nil {
		return nil, err
	}

	req.UpdatedAt = time.Now().UTC()
	_, err := s.db.NewUpdate().
		Model(req).
		Column("status", "rejection_reason", "reviewed_by", "reviewed_at", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	s.audit.Log(ctx, reviewer, "REJECT_REQUEST", "request", &req.ID, map[string]any{
		"reason": reason,
	})

	responses, err := s.enrich(ctx, []models.LoadRequest{*req})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// enrich joins in the display names the dashboard shows next to each request.
func (s *RequestService) enrich(ctx context.Context, requests []models.LoadRequest) ([]models.LoadRequestResponse, error) {
	out := make([]models.LoadRequestResponse, 0, len(requests))
	for _, req := range requests {
		resp := models.LoadRequestResponse{LoadRequest: req}

		var userName string
		if err := s.db.NewSelect().
			Model((*models.User)(nil)).
			Column("full_name").
			Where("id = ?", req.OpersacUserID).
			Scan(ctx, &userName); err == nil {
			resp.OpersacName = &userName
		}

		var stationName string
		if err := s.db.NewSelect().
			Model((*models.Station)(nil)).
			Column("name").
			Where("id = ?", req.StationID).
			Scan(ctx, &stationName); err == nil {
			resp.StationName = &stationName
		}

		if req.CircuitID != nil {
			var circuitName string
			if err := s.db.NewSelect().
				Model((*models.Circuit)(nil)).
				Column("name").
				Where("id = ?", *req.CircuitID).
				Scan(ctx, &circuitName); err == nil {
				resp.CircuitName = &circuitName
			}
		}

		out = append(out, resp)
	}
	return out, nil
}
