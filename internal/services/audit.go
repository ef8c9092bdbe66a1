package services

import (
	"context"
	"encoding/json"
	"strings"

	"linea1-bknd/internal/models"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// AuditService appends and queries the immutable action log. Appends are
// best-effort: a failed append is logged and never rolls back the mutation
// that produced it.
type AuditService struct {
	db   *bun.DB
	logr *zap.Logger
}

func NewAuditService(db *bun.DB, logr *zap.Logger) *AuditService {
	return &AuditService{db: db, logr: logr}
}

// Log appends one entry. Details are marshaled to JSON; a nil details map is
// stored as NULL.
func (s *AuditService) Log(ctx context.Context, actor *models.User, action, entityType string, entityID *int64, details map[string]any) {
	var raw json.RawMessage
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			s.logr.Error("failed to marshal audit details", zap.Error(err), zap.String("action", action))
		} else {
			raw = b
		}
	}

	entry := &models.AuditLog{
		UserID:     actor.ID,
		UserRole:   actor.Role,
		UserName:   actor.FullName,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    raw,
	}
	if _, err := s.db.NewInsert().Model(entry).Exec(ctx); err != nil {
		// Best-effort by contract: report, never fail the caller.
		s.logr.Error("failed to append audit log",
			zap.Error(err),
			zap.String("action", action),
			zap.String("entity_type", entityType))
	}
}

// List returns entries newest-first, narrowed by the filter params.
func (s *AuditService) List(ctx context.Context, params models.AuditFilterParams) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	q := s.db.NewSelect().Model(&logs)

	if params.EntityType != "" {
		q = q.Where("entity_type = ?", params.EntityType)
	}
	if params.EntityID != nil {
		q = q.Where("entity_id = ?", *params.EntityID)
	}
	if params.UserID != nil {
		q = q.Where("user_id = ?", *params.UserID)
	}
	if params.IsFlagged != nil {
		q = q.Where("is_flagged = ?", *params.IsFlagged)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 100
	}
	err := q.Order("action_date DESC").
		Limit(limit).
		Offset(params.Offset).
		Scan(ctx)
	return logs, err
}

// Flag marks or unmarks an entry. A flagged entry always carries a non-empty
// reason; unflagging clears it.
func (s *AuditService) Flag(ctx context.Context, logID int64, update models.AuditFlagUpdate) (*models.AuditLog, error) {
	entry := new(models.AuditLog)
	if err := s.db.NewSelect().Model(entry).Where("al.id = ?", logID).Scan(ctx); err != nil {
		return nil, err
	}

	if update.IsFlagged {
		reason := strings.TrimSpace(update.FlagReason)
		if reason == "" {
			return nil, ErrFlagReasonRequired
		}
		entry.IsFlagged = true
		entry.FlagReason = &reason
	} else {
		entry.IsFlagged = false
		entry.FlagReason = nil
	}

	_, err := s.db.NewUpdate().
		Model(entry).
		Column("is_flagged", "flag_reason").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return entry, nil
}
