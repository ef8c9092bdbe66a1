package services

import (
	"context"
	"time"

	"linea1-bknd/internal/models"

	"github.com/uptrace/bun"
)

// ReportService aggregates the stored power figures and request history into
// the dashboard's report rows.
type ReportService struct {
	db *bun.DB
}

func NewReportService(db *bun.DB) *ReportService {
	return &ReportService{db: db}
}

// DemandEvolution returns every station's power balance in track order.
func (s *ReportService) DemandEvolution(ctx context.Context) ([]models.DemandEvolutionRow, error) {
	var stations []models.Station
	err := s.db.NewSelect().
		Model(&stations).
		Order("order_index ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]models.DemandEvolutionRow, 0, len(stations))
	for _, st := range stations {
		rows = append(rows, models.DemandEvolutionRow{
			StationID:             st.ID,
			StationName:           st.Name,
			StationCode:           st.Code,
			TransformerCapacityKW: st.TransformerCapacityKW,
			MaxDemandKW:           st.MaxDemandKW,
			AvailablePowerKW:      st.AvailablePowerKW,
			Status:                st.Status,
		})
	}
	return rows, nil
}

// requestStatusCount is one (station, status) bucket from the grouped query.
type requestStatusCount struct {
	StationID   int64  `bun:"station_id"`
	StationName string `bun:"station_name"`
	Status      string `bun:"status"`
	Count       int    `bun:"count"`
}

// RequestsPerStation counts load requests per station broken down by outcome,
// optionally bounded by submission date.
func (s *ReportService) RequestsPerStation(ctx context.Context, startDate, endDate *time.Time) ([]models.RequestsPerStationRow, error) {
	var counts []requestStatusCount
	q := s.db.NewSelect().
		Model((*models.LoadRequest)(nil)).
		ColumnExpr("req.station_id AS station_id").
		ColumnExpr("st.name AS station_name").
		ColumnExpr("req.status AS status").
		ColumnExpr("count(req.id) AS count").
		Join("JOIN stations AS st ON st.id = req.station_id").
		GroupExpr("req.station_id, st.name, req.status").
		OrderExpr("min(st.order_index) ASC")
	if startDate != nil {
		q = q.Where("req.created_at >= ?", *startDate)
	}
	if endDate != nil {
		q = q.Where("req.created_at <= ?", *endDate)
	}
	if err := q.Scan(ctx, &counts); err != nil {
		return nil, err
	}
	return foldRequestCounts(counts), nil
}

// foldRequestCounts collapses (station, status) buckets into one row per
// station, preserving the order the buckets arrived in.
func foldRequestCounts(counts []requestStatusCount) []models.RequestsPerStationRow {
	rows := make([]models.RequestsPerStationRow, 0)
	index := make(map[int64]int)
	for _, c := range counts {
		i, ok := index[c.StationID]
		if !ok {
			i = len(rows)
			index[c.StationID] = i
			rows = append(rows, models.RequestsPerStationRow{
				StationID:   c.StationID,
				StationName: c.StationName,
			})
		}
		switch c.Status {
		case models.RequestPending:
			rows[i].Pending += c.Count
		case models.RequestApproved:
			rows[i].Approved += c.Count
		case models.RequestRejected:
			rows[i].Rejected += c.Count
		}
	}
	return rows
}
