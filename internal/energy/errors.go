// Package energy is the computation and validation core behind station,
// bar and circuit management: demand arithmetic (MD = PI x FD), the
// power-balance classifier, structural validation of the circuit hierarchy
// and the load-request lifecycle. Everything here is pure: callers pass in
// snapshots and persist the results themselves.
package energy

import "fmt"

// InvalidInputError reports malformed numeric input, e.g. fd <= 0.
type InvalidInputError struct {
	Field   string
	Message string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// CapacityExceededError reports that a bar's capacity would be exceeded.
// RequiresForce tells the caller the same call succeeds with force=true,
// which must then be audited as an overridden capacity check.
type CapacityExceededError struct {
	BarID           int64
	CapacityKW      float64
	AvailableBefore float64
	AvailableAfter  float64
	RequiresForce   bool
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf(
		"bar %d capacity exceeded by %.2f kW (capacity %.2f kW, available %.2f kW)",
		e.BarID, -e.AvailableAfter, e.CapacityKW, e.AvailableBefore,
	)
}

// InvalidUpsLinkError reports a broken UPS dual-bar linkage.
type InvalidUpsLinkError struct {
	Message string
}

func (e *InvalidUpsLinkError) Error() string {
	return "invalid ups linkage: " + e.Message
}

// ValidationError reports a missing or invalid field for the operation in play.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
