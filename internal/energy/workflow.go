package energy

import (
	"fmt"
	"strings"
	"time"

	"linea1-bknd/internal/models"
)

// ValidateSubmit checks a load-request submission. A request against an
// existing circuit (CircuitID set) asks for a new sub-circuit and must name
// it; a request without one implies a brand-new circuit on the matching bar.
func ValidateSubmit(input models.LoadRequestCreate) error {
	if input.StationID == 0 {
		return &ValidationError{Field: "station_id", Message: "is required"}
	}
	if !models.ValidBarType(input.BarType) {
		return &ValidationError{Field: "bar_type", Message: "must be normal, emergency or continuity"}
	}
	if input.RequestedLoadKW <= 0 {
		return &ValidationError{Field: "requested_load_kw", Message: "must be > 0"}
	}
	if input.FD <= 0 {
		return &ValidationError{Field: "fd", Message: "must be > 0"}
	}
	if input.CircuitID != nil {
		if input.SubCircuitName == nil || strings.TrimSpace(*input.SubCircuitName) == "" {
			return &ValidationError{Field: "sub_circuit_name", Message: "is required when requesting against an existing circuit"}
		}
	}
	return nil
}

// ApprovalResult is the entity an approval creates: exactly one of NewCircuit
// or NewSubCircuit is set. The caller persists both the request decision and
// the created entity inside one transaction.
type ApprovalResult struct {
	NewCircuit    *models.Circuit
	NewSubCircuit *models.SubCircuit
}

// Approve moves a pending request to approved and builds the implied entity.
// The hierarchy validation runs again here, capacity check included: an
// approval can itself fail with CapacityExceededError, which is surfaced to
// the reviewer rather than silently forced. The request is mutated in place
// (status, reviewer identity, timestamp).
func Approve(req *models.LoadRequest, bar *models.Bar, existing []*models.Circuit, reviewer *models.User, now time.Time) (*ApprovalResult, error) {
	if req.Status != models.RequestPending {
		return nil, &ValidationError{Field: "status", Message: "only pending requests can be approved"}
	}

	md, err := ComputeMD(req.RequestedLoadKW, req.FD)
	if err != nil {
		return nil, err
	}

	result := &ApprovalResult{}
	if req.CircuitID != nil {
		name := fmt.Sprintf("Ampliacion Solicitud #%d", req.ID)
		if req.SubCircuitName != nil && *req.SubCircuitName != "" {
			name = *req.SubCircuitName
		}
		desc := req.SubCircuitDescription
		if desc == nil {
			desc = req.Justification
		}
		proposal := models.SubCircuitCreateRequest{Name: name, PIKw: req.RequestedLoadKW, FD: req.FD}
		if err := ValidateCreateSubCircuit(proposal); err != nil {
			return nil, err
		}
		result.NewSubCircuit = &models.SubCircuit{
			CircuitID:   *req.CircuitID,
			Name:        name,
			Description: desc,
			ITM:         req.SubCircuitITM,
			MM2:         req.SubCircuitMM2,
			PIKw:        req.RequestedLoadKW,
			FD:          req.FD,
			MDKw:        md,
			Status:      models.CircuitOperativeNormal,
		}
	} else {
		if err := ValidateCreateCircuit(bar, existing, md, false); err != nil {
			return nil, err
		}
		result.NewCircuit = &models.Circuit{
			BarID:        bar.ID,
			Denomination: fmt.Sprintf("AMP-%d", req.ID),
			Name:         fmt.Sprintf("Ampliacion Solicitud #%d", req.ID),
			Description:  req.Justification,
			LocalItem:    req.LocalItem,
			PIKw:         req.RequestedLoadKW,
			FD:           req.FD,
			MDKw:         md,
			Status:       models.CircuitOperativeNormal,
		}
	}

	req.Status = models.RequestApproved
	req.ReviewedBy = &reviewer.ID
	req.ReviewedAt = &now
	return result, nil
}

// Reject moves a pending request to rejected. The reason is mandatory; a
// terminal request cannot be rejected again.
func Reject(req *models.LoadRequest, reason string, reviewer *models.User, now time.Time) error {
	if req.Status != models.RequestPending {
		return &ValidationError{Field: "status", Message: "only pending requests can be rejected"}
	}
	if strings.TrimSpace(reason) == "" {
		return &ValidationError{Field: "rejection_reason", Message: "is required"}
	}
	req.Status = models.RequestRejected
	req.RejectionReason = &reason
	req.ReviewedBy = &reviewer.ID
	req.ReviewedAt = &now
	return nil
}
