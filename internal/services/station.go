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

// StationService reads stations and keeps their derived power columns
// (max demand, available power, status) in sync with the circuits below them.
type StationService struct {
	db   *bun.DB
	logr *zap.Logger
}

func NewStationService(db *bun.DB, logr *zap.Logger) *StationService {
	return &StationService{db: db, logr: logr}
}

// List returns all stations in track order.
func (s *StationService) List(ctx context.Context) ([]models.Station, error) {
	var stations []models.Station
	err := s.db.NewSelect().
		Model(&stations).
		Order("order_index ASC").
		Scan(ctx)
	return stations, err
}

func (s *StationService) Get(ctx context.Context, id int64) (*models.Station, error) {
	station := new(models.Station)
	err := s.db.NewSelect().Model(station).Where("st.id = ?", id).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return station, nil
}

// PowerSummary returns the stored balance for the dashboard cards.
func (s *StationService) PowerSummary(ctx context.Context, id int64) (*models.PowerSummary, error) {
	station, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.PowerSummary{
		StationID:             station.ID,
		StationName:           station.Name,
		TransformerCapacityKW: station.TransformerCapacityKW,
		MaxDemandKW:           station.MaxDemandKW,
		AvailablePowerKW:      station.AvailablePowerKW,
		Status:                station.Status,
	}, nil
}

// UpdateCapacity sets the transformer capacity and recomputes the balance.
func (s *StationService) UpdateCapacity(ctx context.Context, id int64, capacityKW float64) (*models.Station, error) {
	station, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	station.TransformerCapacityKW = capacityKW
	station.UpdatedAt = time.Now().UTC()
	_, err = s.db.NewUpdate().
		Model(station).
		Column("transformer_capacity_kw", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return s.Recalculate(ctx, id)
}

// Recalculate rebuilds the station's derived columns from a fresh snapshot of
// its bars and circuits, persists them, and raises a negative_energy
// notification when the station first goes red.
func (s *StationService) Recalculate(ctx context.Context, stationID int64) (*models.Station, error) {
	station, err := s.Get(ctx, stationID)
	if err != nil {
		return nil, err
	}

	var bars []*models.Bar
	if err := s.db.NewSelect().Model(&bars).Where("station_id = ?", stationID).Scan(ctx); err != nil {
		return nil, fmt.Errorf("load bars: %w", err)
	}

	circuitsByBar := make(map[int64][]*models.Circuit, len(bars))
	if len(bars) > 0 {
		barIDs := make([]int64, len(bars))
		for i, b := range bars {
			barIDs[i] = b.ID
		}
		var circuits []*models.Circuit
		if err := s.db.NewSelect().Model(&circuits).Where("bar_id IN (?)", bun.In(barIDs)).Scan(ctx); err != nil {
			return nil, fmt.Errorf("load circuits: %w", err)
		}
		for _, c := range circuits {
			circuitsByBar[c.BarID] = append(circuitsByBar[c.BarID], c)
		}
	}

	summary := energy.AggregateStationPower(station, circuitsByBar, bars)

	wasRed := station.Status == models.StationRed
	station.MaxDemandKW = summary.MaxDemandKW
	station.AvailablePowerKW = summary.AvailablePowerKW
	station.Status = summary.Status
	station.UpdatedAt = time.Now().UTC()

	_, err = s.db.NewUpdate().
		Model(station).
		Column("max_demand_kw", "available_power_kw", "status", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	if station.Status == models.StationRed && !wasRed {
		s.notifyNegativeEnergy(ctx, station)
	}
	return station, nil
}

// RecalculateAll refreshes every station, used after a backup restore.
func (s *StationService) RecalculateAll(ctx context.Context) error {
	stations, err := s.List(ctx)
	if err != nil {
		return err
	}
	for _, st := range stations {
		if _, err := s.Recalculate(ctx, st.ID); err != nil {
			return fmt.Errorf("recalculate station %s: %w", st.Code, err)
		}
	}
	return nil
}

func (s *StationService) notifyNegativeEnergy(ctx context.Context, station *models.Station) {
	exists, err := s.db.NewSelect().
		Model((*models.Notification)(nil)).
		Where("station_id = ?", station.ID).
		Where("type = ?", models.NotifNegativeEnergy).
		Where("is_dismissed = false").
		Exists(ctx)
	if err != nil && err != sql.ErrNoRows {
		s.logr.Error("failed to check negative energy notifications", zap.Error(err))
		return
	}
	if exists {
		return
	}
	n := &models.Notification{
		StationID: &station.ID,
		Type:      models.NotifNegativeEnergy,
		Message: fmt.Sprintf(
			"La estacion %s (%s) supero la capacidad del transformador: %.2f kW disponibles.",
			station.Name, station.Code, station.AvailablePowerKW,
		),
	}
	if _, err := s.db.NewInsert().Model(n).Exec(ctx); err != nil {
		s.logr.Error("failed to create negative energy notification", zap.Error(err), zap.Int64("station_id", station.ID))
	}
}
