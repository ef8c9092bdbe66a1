package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"linea1-bknd/internal/models"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// BackupService snapshots the infrastructure tables into a JSON blob and
// restores them wholesale. A restore wipes and reinserts inside a single
// transaction, then recalculates every station.
type BackupService struct {
	db       *bun.DB
	stations *StationService
	audit    *AuditService
	logr     *zap.Logger
}

func NewBackupService(db *bun.DB, stations *StationService, audit *AuditService, logr *zap.Logger) *BackupService {
	return &BackupService{db: db, stations: stations, audit: audit, logr: logr}
}

func (s *BackupService) List(ctx context.Context) ([]models.BackupResponse, error) {
	var backups []models.Backup
	err := s.db.NewSelect().
		Model(&backups).
		ExcludeColumn("backup_data").
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.BackupResponse, 0, len(backups))
	for _, b := range backups {
		resp := models.BackupResponse{Backup: b}
		var name string
		if err := s.db.NewSelect().
			Model((*models.User)(nil)).
			Column("full_name").
			Where("id = ?", b.CreatedBy).
			Scan(ctx, &name); err == nil {
			resp.CreatorName = &name
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *BackupService) Create(ctx context.Context, input models.BackupCreate, creator *models.User) (*models.BackupResponse, error) {
	snapshot := models.BackupSnapshot{}
	if err := s.db.NewSelect().Model(&snapshot.Stations).Scan(ctx); err != nil {
		return nil, fmt.Errorf("snapshot stations: %w", err)
	}
	if err := s.db.NewSelect().Model(&snapshot.Bars).Scan(ctx); err != nil {
		return nil, fmt.Errorf("snapshot bars: %w", err)
	}
	if err := s.db.NewSelect().Model(&snapshot.Circuits).Scan(ctx); err != nil {
		return nil, fmt.Errorf("snapshot circuits: %w", err)
	}
	if err := s.db.NewSelect().Model(&snapshot.SubCircuits).Scan(ctx); err != nil {
		return nil, fmt.Errorf("snapshot sub-circuits: %w", err)
	}
	if err := s.db.NewSelect().Model(&snapshot.Observations).Scan(ctx); err != nil {
		return nil, fmt.Errorf("snapshot observations: %w", err)
	}
	if input.IncludesAudit {
		if err := s.db.NewSelect().Model(&snapshot.AuditLogs).Scan(ctx); err != nil {
			return nil, fmt.Errorf("snapshot audit logs: %w", err)
		}
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	backup := &models.Backup{
		CreatedBy:     creator.ID,
		FileName:      fmt.Sprintf("backup_%s.json", time.Now().UTC().Format("20060102_150405")),
		Description:   input.Description,
		BackupData:    data,
		IncludesAudit: input.IncludesAudit,
		SizeBytes:     int64(len(data)),
	}
	if _, err := s.db.NewInsert().Model(backup).Exec(ctx); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, creator, "CREATE_BACKUP", "backup", &backup.ID, map[string]any{
		"size_bytes": backup.SizeBytes,
	})

	return &models.BackupResponse{Backup: *backup, CreatorName: &creator.FullName}, nil
}

// Restore replaces the infrastructure tables with the snapshot. All-or-
// nothing: delete and reinsert run in one transaction, in dependency order.
func (s *BackupService) Restore(ctx context.Context, backupID int64, actor *models.User) error {
	backup := new(models.Backup)
	if err := s.db.NewSelect().Model(backup).Where("bk.id = ?", backupID).Scan(ctx); err != nil {
		return err
	}

	var snapshot models.BackupSnapshot
	if err := json.Unmarshal(backup.BackupData, &snapshot); err != nil {
		return fmt.Errorf("unmarshal snapshot: %w", err)
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// Wipe in reverse dependency order.
		wipe := []interface{}{
			(*models.SubCircuit)(nil),
			(*models.Observation)(nil),
			(*models.Circuit)(nil),
			(*models.Bar)(nil),
			(*models.Station)(nil),
		}
		if backup.IncludesAudit && len(snapshot.AuditLogs) > 0 {
			wipe = append(wipe, (*models.AuditLog)(nil))
		}
		for _, m := range wipe {
			if _, err := tx.NewDelete().Model(m).Where("TRUE").Exec(ctx); err != nil {
				return fmt.Errorf("wipe %T: %w", m, err)
			}
		}

		if len(snapshot.Stations) > 0 {
			if _, err := tx.NewInsert().Model(&snapshot.Stations).Exec(ctx); err != nil {
				return fmt.Errorf("restore stations: %w", err)
			}
		}
		if len(snapshot.Bars) > 0 {
			if _, err := tx.NewInsert().Model(&snapshot.Bars).Exec(ctx); err != nil {
				return fmt.Errorf("restore bars: %w", err)
			}
		}
		if len(snapshot.Circuits) > 0 {
			if _, err := tx.NewInsert().Model(&snapshot.Circuits).Exec(ctx); err != nil {
				return fmt.Errorf("restore circuits: %w", err)
			}
		}
		if len(snapshot.SubCircuits) > 0 {
			if _, err := tx.NewInsert().Model(&snapshot.SubCircuits).Exec(ctx); err != nil {
				return fmt.Errorf("restore sub-circuits: %w", err)
			}
		}
		if len(snapshot.Observations) > 0 {
			if _, err := tx.NewInsert().Model(&snapshot.Observations).Exec(ctx); err != nil {
				return fmt.Errorf("restore observations: %w", err)
			}
		}
		if backup.IncludesAudit && len(snapshot.AuditLogs) > 0 {
			if _, err := tx.NewInsert().Model(&snapshot.AuditLogs).Exec(ctx); err != nil {
				return fmt.Errorf("restore audit logs: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.stations.RecalculateAll(ctx); err != nil {
		s.logr.Error("failed to recalculate stations after restore", zap.Error(err))
	}

	s.audit.Log(ctx, actor, "RESTORE_BACKUP", "backup", &backupID, map[string]any{
		"backup_file": backup.FileName,
	})
	return nil
}
