package energy

import (
	"testing"
	"time"

	"linea1-bknd/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestValidateSubmit(t *testing.T) {
	valid := models.LoadRequestCreate{
		StationID:       5,
		BarType:         models.BarTypeNormal,
		RequestedLoadKW: 12,
		FD:              0.9,
	}

	t.Run("new circuit request", func(t *testing.T) {
		assert.NoError(t, ValidateSubmit(valid))
	})

	t.Run("sub-circuit request needs a name", func(t *testing.T) {
		input := valid
		circuitID := int64(4)
		input.CircuitID = &circuitID
		assert.Error(t, ValidateSubmit(input))

		input.SubCircuitName = strPtr("Local Comercial 3")
		assert.NoError(t, ValidateSubmit(input))
	})

	t.Run("field validation", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*models.LoadRequestCreate)
		}{
			{"missing station", func(r *models.LoadRequestCreate) { r.StationID = 0 }},
			{"unknown bar type", func(r *models.LoadRequestCreate) { r.BarType = "auxiliary" }},
			{"zero load", func(r *models.LoadRequestCreate) { r.RequestedLoadKW = 0 }},
			{"negative fd", func(r *models.LoadRequestCreate) { r.FD = -1 }},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				input := valid
				tc.mutate(&input)
				var valErr *ValidationError
				require.ErrorAs(t, ValidateSubmit(input), &valErr)
			})
		}
	})
}

func TestApprove(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	reviewer := &models.User{ID: 1, Role: models.RoleAdmin, FullName: "Administrador del Sistema"}
	bar := &models.Bar{ID: 2, CapacityKW: 100}

	t.Run("creates a circuit when no parent is named", func(t *testing.T) {
		req := &models.LoadRequest{
			ID:              31,
			StationID:       5,
			BarType:         models.BarTypeNormal,
			RequestedLoadKW: 20,
			FD:              0.8,
			Justification:   strPtr("Nueva tienda en mezanine"),
			Status:          models.RequestPending,
		}
		result, err := Approve(req, bar, nil, reviewer, now)
		require.NoError(t, err)
		require.NotNil(t, result.NewCircuit)
		assert.Nil(t, result.NewSubCircuit)

		assert.Equal(t, bar.ID, result.NewCircuit.BarID)
		assert.Equal(t, "AMP-31", result.NewCircuit.Denomination)
		assert.Equal(t, 20.0, result.NewCircuit.PIKw)
		assert.Equal(t, 16.0, result.NewCircuit.MDKw)
		assert.Equal(t, models.CircuitOperativeNormal, result.NewCircuit.Status)

		assert.Equal(t, models.RequestApproved, req.Status)
		require.NotNil(t, req.ReviewedBy)
		assert.Equal(t, reviewer.ID, *req.ReviewedBy)
		require.NotNil(t, req.ReviewedAt)
		assert.Equal(t, now, *req.ReviewedAt)
	})

	t.Run("creates a sub-circuit when a parent is named", func(t *testing.T) {
		circuitID := int64(8)
		req := &models.LoadRequest{
			ID:              32,
			CircuitID:       &circuitID,
			RequestedLoadKW: 6,
			FD:              1,
			SubCircuitName:  strPtr("Modulo ATM"),
			Justification:   strPtr("Cajero automatico"),
			Status:          models.RequestPending,
		}
		result, err := Approve(req, bar, nil, reviewer, now)
		require.NoError(t, err)
		require.NotNil(t, result.NewSubCircuit)
		assert.Nil(t, result.NewCircuit)

		assert.Equal(t, circuitID, result.NewSubCircuit.CircuitID)
		assert.Equal(t, "Modulo ATM", result.NewSubCircuit.Name)
		assert.Equal(t, 6.0, result.NewSubCircuit.MDKw)
		// Description falls back to the justification.
		require.NotNil(t, result.NewSubCircuit.Description)
		assert.Equal(t, "Cajero automatico", *result.NewSubCircuit.Description)
	})

	t.Run("approval re-runs the capacity check", func(t *testing.T) {
		existing := []*models.Circuit{
			{PIKw: 95, MDKw: 95, Status: models.CircuitOperativeNormal},
		}
		req := &models.LoadRequest{
			ID:              33,
			RequestedLoadKW: 10,
			FD:              1,
			Status:          models.RequestPending,
		}
		_, err := Approve(req, bar, existing, reviewer, now)
		var capErr *CapacityExceededError
		require.ErrorAs(t, err, &capErr)
		// A failed approval leaves the request untouched.
		assert.Equal(t, models.RequestPending, req.Status)
		assert.Nil(t, req.ReviewedBy)
	})

	t.Run("only pending requests can be approved", func(t *testing.T) {
		req := &models.LoadRequest{ID: 34, RequestedLoadKW: 5, FD: 1, Status: models.RequestRejected}
		_, err := Approve(req, bar, nil, reviewer, now)
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
	})
}

func TestReject(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	reviewer := &models.User{ID: 1, Role: models.RoleAdmin}

	t.Run("records reason and reviewer", func(t *testing.T) {
		req := &models.LoadRequest{ID: 40, Status: models.RequestPending}
		require.NoError(t, Reject(req, "Sin capacidad disponible en barra", reviewer, now))
		assert.Equal(t, models.RequestRejected, req.Status)
		require.NotNil(t, req.RejectionReason)
		assert.Equal(t, "Sin capacidad disponible en barra", *req.RejectionReason)
		require.NotNil(t, req.ReviewedAt)
		assert.Equal(t, now, *req.ReviewedAt)
	})

	t.Run("reason is mandatory", func(t *testing.T) {
		req := &models.LoadRequest{ID: 41, Status: models.RequestPending}
		assert.Error(t, Reject(req, "   ", reviewer, now))
		assert.Equal(t, models.RequestPending, req.Status)
	})

	t.Run("terminal requests stay terminal", func(t *testing.T) {
		req := &models.LoadRequest{ID: 42, Status: models.RequestPending}
		require.NoError(t, Reject(req, "Duplicado", reviewer, now))
		assert.Error(t, Reject(req, "Otra vez", reviewer, now))
		assert.Equal(t, "Duplicado", *req.RejectionReason)
	})
}
