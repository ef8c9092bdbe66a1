package services

import (
	"testing"

	"linea1-bknd/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestFoldRequestCounts(t *testing.T) {
	t.Run("buckets collapse to one row per station", func(t *testing.T) {
		counts := []requestStatusCount{
			{StationID: 1, StationName: "Villa El Salvador", Status: models.RequestPending, Count: 2},
			{StationID: 1, StationName: "Villa El Salvador", Status: models.RequestApproved, Count: 5},
			{StationID: 1, StationName: "Villa El Salvador", Status: models.RequestRejected, Count: 1},
			{StationID: 2, StationName: "Parque Industrial", Status: models.RequestApproved, Count: 3},
		}

		rows := foldRequestCounts(counts)
		assert.Equal(t, []models.RequestsPerStationRow{
			{StationID: 1, StationName: "Villa El Salvador", Pending: 2, Approved: 5, Rejected: 1},
			{StationID: 2, StationName: "Parque Industrial", Approved: 3},
		}, rows)
	})

	t.Run("arrival order is preserved", func(t *testing.T) {
		counts := []requestStatusCount{
			{StationID: 9, StationName: "Gamarra", Status: models.RequestPending, Count: 1},
			{StationID: 3, StationName: "Pumacahua", Status: models.RequestPending, Count: 1},
			{StationID: 9, StationName: "Gamarra", Status: models.RequestRejected, Count: 4},
		}

		rows := foldRequestCounts(counts)
		assert.Len(t, rows, 2)
		assert.Equal(t, int64(9), rows[0].StationID)
		assert.Equal(t, int64(3), rows[1].StationID)
		assert.Equal(t, 4, rows[0].Rejected)
	})

	t.Run("station with no requests yields no row", func(t *testing.T) {
		assert.Empty(t, foldRequestCounts(nil))
	})

	t.Run("unknown status buckets are ignored", func(t *testing.T) {
		counts := []requestStatusCount{
			{StationID: 1, StationName: "Villa El Salvador", Status: "draft", Count: 7},
		}
		rows := foldRequestCounts(counts)
		assert.Equal(t, []models.RequestsPerStationRow{
			{StationID: 1, StationName: "Villa El Salvador"},
		}, rows)
	})
}
