package energy

import (
	"strings"
	"time"

	"linea1-bknd/internal/models"
)

// ValidateCreateCircuit checks a proposed circuit's demand against the bar's
// own capacity: current operative demand plus the proposal must fit within
// bar.CapacityKW. With force=true the creation proceeds regardless; the
// caller must record the override in the audit log.
func ValidateCreateCircuit(bar *models.Bar, existing []*models.Circuit, proposedMD float64, force bool) error {
	if force {
		return nil
	}
	summary := AggregateBarPower(bar, existing)
	// Sign test on the raw difference; rounding first would wave through
	// overflows smaller than half a hundredth of a kW.
	after := summary.AvailablePowerKW - proposedMD
	if after < 0 {
		return &CapacityExceededError{
			BarID:           bar.ID,
			CapacityKW:      bar.CapacityKW,
			AvailableBefore: summary.AvailablePowerKW,
			AvailableAfter:  Round2(after),
			RequiresForce:   true,
		}
	}
	return nil
}

// ValidateUpsLinkage enforces the dual-bar redundancy rule: a UPS circuit
// must name both a secondary and a tertiary bar, distinct from the primary
// and from each other.
func ValidateUpsLinkage(primaryBarID int64, secondaryBarID, tertiaryBarID *int64) error {
	if secondaryBarID == nil || tertiaryBarID == nil {
		return &InvalidUpsLinkError{Message: "ups circuits require both a secondary and a tertiary bar"}
	}
	if *secondaryBarID == primaryBarID || *tertiaryBarID == primaryBarID {
		return &InvalidUpsLinkError{Message: "linked bars must differ from the primary bar"}
	}
	if *secondaryBarID == *tertiaryBarID {
		return &InvalidUpsLinkError{Message: "secondary and tertiary bars must differ"}
	}
	return nil
}

// ValidateCreateSubCircuit checks field presence only. Sub-circuits subdivide
// the parent circuit's installed power rather than adding load, so no
// capacity ceiling applies.
func ValidateCreateSubCircuit(proposed models.SubCircuitCreateRequest) error {
	if strings.TrimSpace(proposed.Name) == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if proposed.PIKw <= 0 {
		return &ValidationError{Field: "pi_kw", Message: "must be > 0"}
	}
	return nil
}

// DeletionPlan enumerates everything a circuit delete removes. The caller
// presents it to the user before committing and applies it in a single
// transaction: the circuit and all its sub-circuits go together or not at all.
type DeletionPlan struct {
	CircuitID      int64   `json:"circuit_id"`
	CircuitName    string  `json:"circuit_name"`
	SubCircuitIDs  []int64 `json:"sub_circuit_ids"`
	SubCircuitsNum int     `json:"sub_circuits_num"`
}

// PlanCascadeDelete builds the deletion plan for a circuit and its children.
func PlanCascadeDelete(circuit *models.Circuit, subs []*models.SubCircuit) DeletionPlan {
	ids := make([]int64, 0, len(subs))
	for _, s := range subs {
		ids = append(ids, s.ID)
	}
	return DeletionPlan{
		CircuitID:      circuit.ID,
		CircuitName:    circuit.Name,
		SubCircuitIDs:  ids,
		SubCircuitsNum: len(ids),
	}
}

// StatusTransition is the outcome of moving a circuit or sub-circuit between
// states. Transitions among the four states are free by explicit admin
// action; the only side effect is the reserve timestamp.
type StatusTransition struct {
	Old          models.CircuitStatus
	New          models.CircuitStatus
	ReserveSince *time.Time
}

// Transition validates the target status and computes the reserve stamp:
// entering a reserve state sets ReserveSince to now, leaving both clears it,
// and moving between the two reserve states keeps the original stamp.
func Transition(current models.CircuitStatus, reserveSince *time.Time, target models.CircuitStatus, now time.Time) (StatusTransition, error) {
	if !target.Valid() {
		return StatusTransition{}, &ValidationError{Field: "status", Message: "unknown status " + string(target)}
	}
	t := StatusTransition{Old: current, New: target}
	switch {
	case target.IsReserve() && current.IsReserve():
		t.ReserveSince = reserveSince
	case target.IsReserve():
		t.ReserveSince = &now
	default:
		t.ReserveSince = nil
	}
	return t, nil
}
