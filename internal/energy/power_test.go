package energy

import (
	"math/rand"
	"testing"

	"linea1-bknd/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeMD(t *testing.T) {
	t.Run("multiplies and rounds to two decimals", func(t *testing.T) {
		md, err := ComputeMD(10, 0.8)
		require.NoError(t, err)
		assert.Equal(t, 8.0, md)

		md, err = ComputeMD(3.335, 1)
		require.NoError(t, err)
		assert.Equal(t, 3.34, md)

		md, err = ComputeMD(7.77, 0.33)
		require.NoError(t, err)
		assert.Equal(t, 2.56, md)
	})

	t.Run("zero installed power yields zero demand", func(t *testing.T) {
		md, err := ComputeMD(0, 1)
		require.NoError(t, err)
		assert.Equal(t, 0.0, md)
	})

	t.Run("rejects negative installed power", func(t *testing.T) {
		_, err := ComputeMD(-1, 1)
		require.Error(t, err)
		var inputErr *InvalidInputError
		require.ErrorAs(t, err, &inputErr)
		assert.Equal(t, "pi_kw", inputErr.Field)
	})

	t.Run("rejects non-positive demand factor", func(t *testing.T) {
		for _, fd := range []float64{0, -0.5} {
			_, err := ComputeMD(10, fd)
			var inputErr *InvalidInputError
			require.ErrorAs(t, err, &inputErr)
			assert.Equal(t, "fd", inputErr.Field)
		}
	})
}

func TestAggregateBarPower(t *testing.T) {
	bar := &models.Bar{ID: 1, CapacityKW: 200, CapacityA: 300}

	t.Run("reserve counts installed power but not demand", func(t *testing.T) {
		circuits := []*models.Circuit{
			{PIKw: 40, MDKw: 32, Status: models.CircuitOperativeNormal},
			{PIKw: 25, MDKw: 25, Status: models.CircuitReserveR},
			{PIKw: 15, MDKw: 15, Status: models.CircuitReserveEquippedRE},
		}
		s := AggregateBarPower(bar, circuits)
		assert.Equal(t, 80.0, s.TotalInstalledPowerKW)
		assert.Equal(t, 32.0, s.TotalMaxDemandKW)
		assert.Equal(t, 168.0, s.AvailablePowerKW)
	})

	t.Run("inactive circuits are invisible", func(t *testing.T) {
		circuits := []*models.Circuit{
			{PIKw: 40, MDKw: 32, Status: models.CircuitOperativeNormal},
			{PIKw: 999, MDKw: 999, Status: models.CircuitInactive},
		}
		s := AggregateBarPower(bar, circuits)
		assert.Equal(t, 40.0, s.TotalInstalledPowerKW)
		assert.Equal(t, 32.0, s.TotalMaxDemandKW)
	})

	t.Run("empty bar reports full capacity available", func(t *testing.T) {
		s := AggregateBarPower(bar, nil)
		assert.Equal(t, 0.0, s.TotalInstalledPowerKW)
		assert.Equal(t, 0.0, s.TotalMaxDemandKW)
		assert.Equal(t, bar.CapacityKW, s.AvailablePowerKW)
	})

	t.Run("order independent", func(t *testing.T) {
		circuits := []*models.Circuit{
			{PIKw: 12.34, MDKw: 9.87, Status: models.CircuitOperativeNormal},
			{PIKw: 5.55, MDKw: 5.55, Status: models.CircuitOperativeNormal},
			{PIKw: 30.01, MDKw: 30.01, Status: models.CircuitReserveR},
			{PIKw: 8.4, MDKw: 6.72, Status: models.CircuitOperativeNormal},
		}
		want := AggregateBarPower(bar, circuits)
		for i := 0; i < 10; i++ {
			shuffled := append([]*models.Circuit(nil), circuits...)
			rand.Shuffle(len(shuffled), func(a, b int) {
				shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
			})
			assert.Equal(t, want, AggregateBarPower(bar, shuffled))
		}
	})
}

func TestAggregateStationPower(t *testing.T) {
	station := &models.Station{ID: 7, Name: "San Borja Sur", TransformerCapacityKW: 500}
	bars := []*models.Bar{
		{ID: 1, StationID: 7, CapacityKW: 200},
		{ID: 2, StationID: 7, CapacityKW: 200},
		{ID: 3, StationID: 7, CapacityKW: 200},
	}

	t.Run("sums demand across bars", func(t *testing.T) {
		byBar := map[int64][]*models.Circuit{
			1: {{PIKw: 100, MDKw: 80, Status: models.CircuitOperativeNormal}},
			2: {{PIKw: 50, MDKw: 50, Status: models.CircuitOperativeNormal}},
			3: {{PIKw: 70, MDKw: 70, Status: models.CircuitReserveR}},
		}
		s := AggregateStationPower(station, byBar, bars)
		assert.Equal(t, 130.0, s.MaxDemandKW)
		assert.Equal(t, 370.0, s.AvailablePowerKW)
		assert.Equal(t, models.StationGreen, s.Status)
	})

	t.Run("overload turns the station red", func(t *testing.T) {
		byBar := map[int64][]*models.Circuit{
			1: {{PIKw: 600, MDKw: 600, Status: models.CircuitOperativeNormal}},
		}
		s := AggregateStationPower(station, byBar, bars)
		assert.Equal(t, -100.0, s.AvailablePowerKW)
		assert.Equal(t, models.StationRed, s.Status)
	})

	t.Run("bar with no circuits contributes nothing", func(t *testing.T) {
		s := AggregateStationPower(station, map[int64][]*models.Circuit{}, bars)
		assert.Equal(t, 0.0, s.MaxDemandKW)
		assert.Equal(t, 500.0, s.AvailablePowerKW)
	})
}
