package services

import (
	"context"

	"linea1-bknd/internal/energy"
	"linea1-bknd/internal/models"

	"github.com/uptrace/bun"
)

type BarService struct {
	db *bun.DB
}

func NewBarService(db *bun.DB) *BarService {
	return &BarService{db: db}
}

// ListByStation returns a station's bars grouped by type.
func (s *BarService) ListByStation(ctx context.Context, stationID int64) ([]models.Bar, error) {
	var bars []models.Bar
	err := s.db.NewSelect().
		Model(&bars).
		Where("station_id = ?", stationID).
		Order("bar_type ASC").
		Scan(ctx)
	return bars, err
}

func (s *BarService) Get(ctx context.Context, id int64) (*models.Bar, error) {
	bar := new(models.Bar)
	err := s.db.NewSelect().Model(bar).Where("b.id = ?", id).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return bar, nil
}

// PowerSummary computes the bar's balance from a fresh circuit snapshot.
func (s *BarService) PowerSummary(ctx context.Context, id int64) (*models.BarPowerSummary, error) {
	bar, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var circuits []*models.Circuit
	if err := s.db.NewSelect().Model(&circuits).Where("bar_id = ?", id).Scan(ctx); err != nil {
		return nil, err
	}
	summary := energy.AggregateBarPower(bar, circuits)
	return &summary, nil
}
