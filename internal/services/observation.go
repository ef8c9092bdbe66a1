package services

import (
	"context"
	"strings"

	"linea1-bknd/internal/energy"
	"linea1-bknd/internal/models"

	"github.com/uptrace/bun"
)

type ObservationService struct {
	db    *bun.DB
	audit *AuditService
}

func NewObservationService(db *bun.DB, audit *AuditService) *ObservationService {
	return &ObservationService{db: db, audit: audit}
}

func (s *ObservationService) ListByCircuit(ctx context.Context, circuitID int64) ([]models.ObservationResponse, error) {
	var obs []models.Observation
	err := s.db.NewSelect().
		Model(&obs).
		Where("circuit_id = ?", circuitID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, obs)
}

func (s *ObservationService) ListByBar(ctx context.Context, barID int64) ([]models.ObservationResponse, error) {
	var obs []models.Observation
	err := s.db.NewSelect().
		Model(&obs).
		Where("bar_id = ?", barID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, obs)
}

// Create attaches a note to exactly one of bar, circuit or sub-circuit.
func (s *ObservationService) Create(ctx context.Context, input models.ObservationCreate, author *models.User) (*models.ObservationResponse, error) {
	targets := 0
	for _, id := range []*int64{input.CircuitID, input.SubCircuitID, input.BarID} {
		if id != nil {
			targets++
		}
	}
	if targets != 1 {
		return nil, &energy.ValidationError{Field: "target", Message: "exactly one of circuit_id, sub_circuit_id or bar_id must be set"}
	}
	if !models.ValidSeverity(input.Severity) {
		return nil, &energy.ValidationError{Field: "severity", Message: "must be urgent, warning or recommendation"}
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, &energy.ValidationError{Field: "content", Message: "is required"}
	}

	obs := &models.Observation{
		CircuitID:    input.CircuitID,
		SubCircuitID: input.SubCircuitID,
		BarID:        input.BarID,
		UserID:       author.ID,
		Severity:     input.Severity,
		Content:      input.Content,
	}
	if _, err := s.db.NewInsert().Model(obs).Exec(ctx); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, author, "CREATE_OBSERVATION", "observation", &obs.ID, map[string]any{
		"severity": obs.Severity,
	})

	return &models.ObservationResponse{
		Observation: *obs,
		UserName:    &author.FullName,
		UserRole:    &author.Role,
	}, nil
}

func (s *ObservationService) enrich(ctx context.Context, obs []models.Observation) ([]models.ObservationResponse, error) {
	out := make([]models.ObservationResponse, 0, len(obs))
	for _, o := range obs {
		resp := models.ObservationResponse{Observation: o}
		var user models.User
		err := s.db.NewSelect().
			Model(&user).
			Column("full_name", "role").
			Where("id = ?", o.UserID).
			Scan(ctx)
		if err == nil {
			resp.UserName = &user.FullName
			resp.UserRole = &user.Role
		}
		out = append(out, resp)
	}
	return out, nil
}
