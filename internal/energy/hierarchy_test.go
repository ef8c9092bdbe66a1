package energy

import (
	"testing"
	"time"

	"linea1-bknd/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCreateCircuit(t *testing.T) {
	bar := &models.Bar{ID: 3, CapacityKW: 50}
	existing := []*models.Circuit{
		{PIKw: 45, MDKw: 45, Status: models.CircuitOperativeNormal},
	}

	t.Run("fits within capacity", func(t *testing.T) {
		assert.NoError(t, ValidateCreateCircuit(bar, existing, 5, false))
	})

	t.Run("overflow is rejected with the numbers attached", func(t *testing.T) {
		err := ValidateCreateCircuit(bar, existing, 10, false)
		require.Error(t, err)
		var capErr *CapacityExceededError
		require.ErrorAs(t, err, &capErr)
		assert.Equal(t, int64(3), capErr.BarID)
		assert.Equal(t, 50.0, capErr.CapacityKW)
		assert.Equal(t, 5.0, capErr.AvailableBefore)
		assert.Equal(t, -5.0, capErr.AvailableAfter)
		assert.True(t, capErr.RequiresForce)
	})

	t.Run("sub-cent overflow is still an overflow", func(t *testing.T) {
		// 45 + 5.004 exceeds 50 by less than half a hundredth; rounding
		// the difference first would report 0.00 and let it through.
		err := ValidateCreateCircuit(bar, existing, 5.004, false)
		var capErr *CapacityExceededError
		require.ErrorAs(t, err, &capErr)
		assert.Equal(t, 0.0, capErr.AvailableAfter)
	})

	t.Run("exact fit passes", func(t *testing.T) {
		assert.NoError(t, ValidateCreateCircuit(bar, existing, 5, false))
	})

	t.Run("force bypasses the check", func(t *testing.T) {
		assert.NoError(t, ValidateCreateCircuit(bar, existing, 10, true))
	})

	t.Run("reserve demand does not block new circuits", func(t *testing.T) {
		reserves := []*models.Circuit{
			{PIKw: 45, MDKw: 45, Status: models.CircuitReserveR},
		}
		assert.NoError(t, ValidateCreateCircuit(bar, reserves, 50, false))
	})
}

func TestValidateUpsLinkage(t *testing.T) {
	id := func(v int64) *int64 { return &v }

	t.Run("valid dual link", func(t *testing.T) {
		assert.NoError(t, ValidateUpsLinkage(1, id(2), id(3)))
	})

	t.Run("missing links", func(t *testing.T) {
		assert.Error(t, ValidateUpsLinkage(1, nil, nil))
		assert.Error(t, ValidateUpsLinkage(1, id(2), nil))
		assert.Error(t, ValidateUpsLinkage(1, nil, id(3)))
	})

	t.Run("link equal to primary", func(t *testing.T) {
		assert.Error(t, ValidateUpsLinkage(1, id(1), id(2)))
		assert.Error(t, ValidateUpsLinkage(1, id(2), id(1)))
	})

	t.Run("secondary equal to tertiary", func(t *testing.T) {
		err := ValidateUpsLinkage(1, id(2), id(2))
		var upsErr *InvalidUpsLinkError
		require.ErrorAs(t, err, &upsErr)
	})
}

func TestValidateCreateSubCircuit(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateCreateSubCircuit(models.SubCircuitCreateRequest{Name: "Tienda 12", PIKw: 3.5}))
	})
	t.Run("blank name", func(t *testing.T) {
		assert.Error(t, ValidateCreateSubCircuit(models.SubCircuitCreateRequest{Name: "   ", PIKw: 3.5}))
	})
	t.Run("non-positive power", func(t *testing.T) {
		assert.Error(t, ValidateCreateSubCircuit(models.SubCircuitCreateRequest{Name: "Tienda 12", PIKw: 0}))
	})
}

func TestPlanCascadeDelete(t *testing.T) {
	circuit := &models.Circuit{ID: 9, Name: "Alumbrado Anden"}
	subs := []*models.SubCircuit{{ID: 21}, {ID: 22}, {ID: 23}}

	plan := PlanCascadeDelete(circuit, subs)
	assert.Equal(t, int64(9), plan.CircuitID)
	assert.Equal(t, "Alumbrado Anden", plan.CircuitName)
	assert.Equal(t, []int64{21, 22, 23}, plan.SubCircuitIDs)
	assert.Equal(t, 3, plan.SubCircuitsNum)

	empty := PlanCascadeDelete(circuit, nil)
	assert.Empty(t, empty.SubCircuitIDs)
	assert.Zero(t, empty.SubCircuitsNum)
}

func TestTransition(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	earlier := now.Add(-45 * 24 * time.Hour)

	t.Run("entering reserve stamps now", func(t *testing.T) {
		tr, err := Transition(models.CircuitOperativeNormal, nil, models.CircuitReserveR, now)
		require.NoError(t, err)
		require.NotNil(t, tr.ReserveSince)
		assert.Equal(t, now, *tr.ReserveSince)
	})

	t.Run("moving between reserve states keeps the stamp", func(t *testing.T) {
		tr, err := Transition(models.CircuitReserveR, &earlier, models.CircuitReserveEquippedRE, now)
		require.NoError(t, err)
		require.NotNil(t, tr.ReserveSince)
		assert.Equal(t, earlier, *tr.ReserveSince)
	})

	t.Run("leaving reserve clears the stamp", func(t *testing.T) {
		tr, err := Transition(models.CircuitReserveR, &earlier, models.CircuitOperativeNormal, now)
		require.NoError(t, err)
		assert.Nil(t, tr.ReserveSince)
	})

	t.Run("unknown target is rejected", func(t *testing.T) {
		_, err := Transition(models.CircuitOperativeNormal, nil, models.CircuitStatus("retired"), now)
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
	})
}
