package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"linea1-bknd/internal/energy"
	"linea1-bknd/internal/models"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// CircuitService owns the structural mutations of the circuit hierarchy: all
// validation runs through the energy core on snapshots, persistence happens
// here, and every mutation recalculates the owning station and appends audit.
type CircuitService struct {
	db       *bun.DB
	stations *StationService
	audit    *AuditService
	logr     *zap.Logger
}

func NewCircuitService(db *bun.DB, stations *StationService, audit *AuditService, logr *zap.Logger) *CircuitService {
	return &CircuitService{db: db, stations: stations, audit: audit, logr: logr}
}

func (s *CircuitService) ListByBar(ctx context.Context, barID int64) ([]models.Circuit, error) {
	var circuits []models.Circuit
	err := s.db.NewSelect().
		Model(&circuits).
		Where("bar_id = ?", barID).
		Order("id ASC").
		Scan(ctx)
	return circuits, err
}

func (s *CircuitService) Get(ctx context.Context, id int64) (*models.Circuit, error) {
	circuit := new(models.Circuit)
	err := s.db.NewSelect().
		Model(circuit).
		Where("c.id = ?", id).
		Relation("SubCircuits").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return circuit, nil
}

// Create validates and persists a new circuit on a bar. MD is recomputed
// server-side. A capacity overrun fails with CapacityExceededError unless
// force is set, in which case the override is recorded in the audit log with
// the capacity numbers at the time.
func (s *CircuitService) Create(ctx context.Context, barID int64, req models.CircuitCreateRequest, actor *models.User) (*models.Circuit, error) {
	bar := new(models.Bar)
	if err := s.db.NewSelect().Model(bar).Where("b.id = ?", barID).Scan(ctx); err != nil {
		return nil, fmt.Errorf("load bar: %w", err)
	}

	if strings.TrimSpace(req.Name) == "" {
		return nil, &energy.ValidationError{Field: "name", Message: "is required"}
	}
	if strings.TrimSpace(req.Denomination) == "" {
		return nil, &energy.ValidationError{Field: "denomination", Message: "is required"}
	}

	fd := req.FD
	if fd == 0 {
		fd = 1.0
	}
	md, err := energy.ComputeMD(req.PIKw, fd)
	if err != nil {
		return nil, err
	}

	status := models.CircuitStatus(req.Status)
	if req.Status == "" {
		status = models.CircuitOperativeNormal
	}
	if !status.Valid() {
		return nil, &energy.ValidationError{Field: "status", Message: "unknown status " + req.Status}
	}

	var existing []*models.Circuit
	if err := s.db.NewSelect().Model(&existing).Where("bar_id = ?", barID).Scan(ctx); err != nil {
		return nil, fmt.Errorf("load circuits: %w", err)
	}

	var before *models.BarPowerSummary
	if req.Force {
		summary := energy.AggregateBarPower(bar, existing)
		before = &summary
	}
	if err := energy.ValidateCreateCircuit(bar, existing, md, req.Force); err != nil {
		return nil, err
	}

	circuit := &models.Circuit{
		BarID:        barID,
		Denomination: req.Denomination,
		Name:         req.Name,
		Description:  req.Description,
		LocalItem:    req.LocalItem,
		PIKw:         req.PIKw,
		FD:           fd,
		MDKw:         md,
		Status:       status,
		IsUPS:        req.IsUPS,
	}
	if req.IsUPS {
		if err := energy.ValidateUpsLinkage(barID, req.SecondaryBarID, req.TertiaryBarID); err != nil {
			return nil, err
		}
		circuit.SecondaryBarID = req.SecondaryBarID
		circuit.TertiaryBarID = req.TertiaryBarID
	}
	if status.IsReserve() {
		now := time.Now().UTC()
		circuit.ReserveSince = &now
	}

	if _, err := s.db.NewInsert().Model(circuit).Exec(ctx); err != nil {
		return nil, fmt.Errorf("insert circuit: %w", err)
	}

	if _, err := s.stations.Recalculate(ctx, bar.StationID); err != nil {
		s.logr.Error("failed to recalculate station after circuit create", zap.Error(err), zap.Int64("station_id", bar.StationID))
	}

	details := map[string]any{
		"name":         circuit.Name,
		"denomination": circuit.Denomination,
		"bar_id":       barID,
		"pi_kw":        circuit.PIKw,
		"md_kw":        circuit.MDKw,
		"is_ups":       circuit.IsUPS,
	}
	action := "CREATE_CIRCUIT"
	if req.Force {
		action = "CREATE_CIRCUIT_FORCED"
		details["capacity_override"] = true
		details["bar_capacity_kw"] = bar.CapacityKW
		details["available_before_kw"] = before.AvailablePowerKW
		details["available_after_kw"] = energy.Round2(before.AvailablePowerKW - md)
	}
	s.audit.Log(ctx, actor, action, "circuit", &circuit.ID, details)

	return circuit, nil
}

// Update applies partial field changes. MD follows PI and FD whenever either
// moves.
func (s *CircuitService) Update(ctx context.Context, id int64, req models.CircuitUpdateRequest, actor *models.User) (*models.Circuit, error) {
	circuit := new(models.Circuit)
	if err := s.db.NewSelect().Model(circuit).Where("c.id = ?", id).Scan(ctx); err != nil {
		return nil, err
	}

	var updated []string
	if req.Denomination != nil {
		circuit.Denomination = *req.Denomination
		updated = append(updated, "denomination")
	}
	if req.Name != nil {
		circuit.Name = *req.Name
		updated = append(updated, "name")
	}
	if req.Description != nil {
		circuit.Description = req.Description
		updated = append(updated, "description")
	}
	if req.LocalItem != nil {
		circuit.LocalItem = req.LocalItem
		updated = append(updated, "local_item")
	}
	if req.PIKw != nil {
		circuit.PIKw = *req.PIKw
		updated = append(updated, "pi_kw")
	}
	if req.FD != nil {
		circuit.FD = *req.FD
		updated = append(updated, "fd")
	}
	if req.ClientLastContact != nil {
		t, err := time.Parse("2006-01-02", *req.ClientLastContact)
		if err != nil {
			return nil, &energy.ValidationError{Field: "client_last_contact", Message: "must be YYYY-MM-DD"}
		}
		circuit.ClientLastContact = &t
		updated = append(updated, "client_last_contact")
	}

	if req.PIKw != nil || req.FD != nil {
		md, err := energy.ComputeMD(circuit.PIKw, circuit.FD)
		if err != nil {
			return nil, err
		}
		circuit.MDKw = md
		updated = append(updated, "md_kw")
	}

	circuit.UpdatedAt = time.Now().UTC()
	if _, err := s.db.NewUpdate().Model(circuit).WherePK().Exec(ctx); err != nil {
		return nil, err
	}

	s.recalcForCircuit(ctx, circuit)
	s.audit.Log(ctx, actor, "UPDATE_CIRCUIT", "circuit", &circuit.ID, map[string]any{
		"updated_fields": updated,
	})
	return circuit, nil
}

// ChangeStatus moves a circuit between states, stamping or clearing
// reserve_since per the transition rules.
func (s *CircuitService) ChangeStatus(ctx context.Context, id int64, target string, actor *models.User) (*models.Circuit, error) {
	circuit := new(models.Circuit)
	if err := s.db.NewSelect().Model(circuit).Where("c.id = ?", id).Scan(ctx); err != nil {
		return nil, err
	}

	transition, err := energy.Transition(circuit.Status, circuit.ReserveSince, models.CircuitStatus(target), time.Now().UTC())
	if err != nil {
		return nil, err
	}

	circuit.Status = transition.New
	circuit.ReserveSince = transition.ReserveSince
	circuit.UpdatedAt = time.Now().UTC()
	_, err = s.db.NewUpdate().
		Model(circuit).
		Column("status", "reserve_since", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	s.recalcForCircuit(ctx, circuit)
	s.audit.Log(ctx, actor, "CHANGE_CIRCUIT_STATUS", "circuit", &circuit.ID, map[string]any{
		"old_status": string(transition.Old),
		"new_status": string(transition.New),
	})
	return circuit, nil
}

// DeletionPlan enumerates what a delete would remove, for the confirmation
// step.
func (s *CircuitService) DeletionPlan(ctx context.Context, id int64) (*energy.DeletionPlan, error) {
	circuit := new(models.Circuit)
	if err := s.db.NewSelect().Model(circuit).Where("c.id = ?", id).Scan(ctx); err != nil {
		return nil, err
	}
	var subs []*models.SubCircuit
	if err := s.db.NewSelect().Model(&subs).Where("circuit_id = ?", id).Scan(ctx); err != nil {
		return nil, err
	}
	plan := energy.PlanCascadeDelete(circuit, subs)
	return &plan, nil
}

// Delete removes the circuit and all its sub-circuits in one transaction.
func (s *CircuitService) Delete(ctx context.Context, id int64, actor *models.User) (*energy.DeletionPlan, error) {
	circuit := new(models.Circuit)
	if err := s.db.NewSelect().Model(circuit).Where("c.id = ?", id).Scan(ctx); err != nil {
		return nil, err
	}
	plan, err := s.DeletionPlan(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*models.SubCircuit)(nil)).Where("circuit_id = ?", id).Exec(ctx); err != nil {
			return fmt.Errorf("delete sub-circuits: %w", err)
		}
		if _, err := tx.NewDelete().Model((*models.Circuit)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
			return fmt.Errorf("delete circuit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recalcForCircuit(ctx, circuit)
	s.audit.Log(ctx, actor, "DELETE_CIRCUIT", "circuit", &id, map[string]any{
		"name":             circuit.Name,
		"denomination":     circuit.Denomination,
		"bar_id":           circuit.BarID,
		"sub_circuits_num": plan.SubCircuitsNum,
	})
	return plan, nil
}

func (s *CircuitService) recalcForCircuit(ctx context.Context, circuit *models.Circuit) {
	bar := new(models.Bar)
	if err := s.db.NewSelect().Model(bar).Where("b.id = ?", circuit.BarID).Scan(ctx); err != nil {
		s.logr.Error("failed to load bar for recalculation", zap.Error(err), zap.Int64("bar_id", circuit.BarID))
		return
	}
	if _, err := s.stations.Recalculate(ctx, bar.StationID); err != nil {
		s.logr.Error("failed to recalculate station", zap.Error(err), zap.Int64("station_id", bar.StationID))
	}
}
