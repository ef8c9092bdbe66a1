package services

import (
	"context"
	"time"

	"linea1-bknd/internal/energy"
	"linea1-bknd/internal/models"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

type SubCircuitService struct {
	db       *bun.DB
	circuits *CircuitService
	audit    *AuditService
	logr     *zap.Logger
}

func NewSubCircuitService(db *bun.DB, circuits *CircuitService, audit *AuditService, logr *zap.Logger) *SubCircuitService {
	return &SubCircuitService{db: db, circuits: circuits, audit: audit, logr: logr}
}

func (s *SubCircuitService) ListByCircuit(ctx context.Context, circuitID int64) ([]models.SubCircuit, error) {
	var subs []models.SubCircuit
	err := s.db.NewSelect().
		Model(&subs).
		Where("circuit_id = ?", circuitID).
		Order("id ASC").
		Scan(ctx)
	return subs, err
}

// Create adds a sub-circuit under a circuit. Sub-circuits subdivide the
// parent's installed power, so only field presence is validated; there is no
// capacity ceiling against the parent.
func (s *SubCircuitService) Create(ctx context.Context, circuitID int64, req models.SubCircuitCreateRequest, actor *models.User) (*models.SubCircuit, error) {
	parent := new(models.Circuit)
	if err := s.db.NewSelect().Model(parent).Where("c.id = ?", circuitID).Scan(ctx); err != nil {
		return nil, err
	}

	if err := energy.ValidateCreateSubCircuit(req); err != nil {
		return nil, err
	}
	fd := req.FD
	if fd == 0 {
		fd = 1.0
	}
	md, err := energy.ComputeMD(req.PIKw, fd)
	if err != nil {
		return nil, err
	}

	sub := &models.SubCircuit{
		CircuitID:   circuitID,
		Name:        req.Name,
		Description: req.Description,
		ITM:         req.ITM,
		MM2:         req.MM2,
		PIKw:        req.PIKw,
		FD:          fd,
		MDKw:        md,
		Status:      models.CircuitOperativeNormal,
	}
	if _, err := s.db.NewInsert().Model(sub).Exec(ctx); err != nil {
		return nil, err
	}

	s.circuits.recalcForCircuit(ctx, parent)
	s.audit.Log(ctx, actor, "CREATE_SUB_CIRCUIT", "sub_circuit", &sub.ID, map[string]any{
		"name":       sub.Name,
		"circuit_id": circuitID,
	})
	return sub, nil
}

// ChangeStatus mirrors the circuit transition rules on a sub-circuit.
func (s *SubCircuitService) ChangeStatus(ctx context.Context, id int64, target string, actor *models.User) (*models.SubCircuit, error) {
	sub := new(models.SubCircuit)
	if err := s.db.NewSelect().Model(sub).Where("sc.id = ?", id).Scan(ctx); err != nil {
		return nil, err
	}

	transition, err := energy.Transition(sub.Status, sub.ReserveSince, models.CircuitStatus(target), time.Now().UTC())
	if err != nil {
		return nil, err
	}

	sub.Status = transition.New
	sub.ReserveSince = transition.ReserveSince
	sub.UpdatedAt = time.Now().UTC()
	_, err = s.db.NewUpdate().
		Model(sub).
		Column("status", "reserve_since", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	s.recalcForSub(ctx, sub)
	s.audit.Log(ctx, actor, "CHANGE_SUB_CIRCUIT_STATUS", "sub_circuit", &sub.ID, map[string]any{
		"old_status": string(transition.Old),
		"new_status": string(transition.New),
	})
	return sub, nil
}

func (s *SubCircuitService) Delete(ctx context.Context, id int64, actor *models.User) error {
	sub := new(models.SubCircuit)
	if err := s.db.NewSelect().Model(sub).Where("sc.id = ?", id).Scan(ctx); err != nil {
		return err
	}

	if _, err := s.db.NewDelete().Model((*models.SubCircuit)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
		return err
	}

	s.recalcForSub(ctx, sub)
	s.audit.Log(ctx, actor, "DELETE_SUB_CIRCUIT", "sub_circuit", &id, map[string]any{
		"name":       sub.Name,
		"circuit_id": sub.CircuitID,
	})
	return nil
}

func (s *SubCircuitService) recalcForSub(ctx context.Context, sub *models.SubCircuit) {
	parent := new(models.Circuit)
	if err := s.db.NewSelect().Model(parent).Where("c.id = ?", sub.CircuitID).Scan(ctx); err != nil {
		s.logr.Error("failed to load parent circuit", zap.Error(err), zap.Int64("circuit_id", sub.CircuitID))
		return
	}
	s.circuits.recalcForCircuit(ctx, parent)
}
