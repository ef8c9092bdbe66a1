package models

// User roles and account states.
const (
	RoleAdmin   = "admin"
	RoleOpersac = "opersac"

	UserActive   = "active"
	UserInactive = "inactive"
	UserReported = "reported"
)

// StationStatus is the traffic-light classification of a station's power balance.
type StationStatus string

const (
	StationRed    StationStatus = "red"
	StationYellow StationStatus = "yellow"
	StationGreen  StationStatus = "green"
)

// Bar types and states.
const (
	BarTypeNormal     = "normal"
	BarTypeEmergency  = "emergency"
	BarTypeContinuity = "continuity"

	BarOperative = "operative"
	BarInactive  = "inactive"
)

// CircuitStatus applies to circuits and sub-circuits alike.
type CircuitStatus string

const (
	CircuitOperativeNormal   CircuitStatus = "operative_normal"
	CircuitReserveR          CircuitStatus = "reserve_r"
	CircuitReserveEquippedRE CircuitStatus = "reserve_equipped_re"
	CircuitInactive          CircuitStatus = "inactive"
)

// IsReserve reports whether the status holds capacity without drawing demand.
func (s CircuitStatus) IsReserve() bool {
	return s == CircuitReserveR || s == CircuitReserveEquippedRE
}

// Valid reports whether s is one of the four known circuit states.
func (s CircuitStatus) Valid() bool {
	switch s {
	case CircuitOperativeNormal, CircuitReserveR, CircuitReserveEquippedRE, CircuitInactive:
		return true
	}
	return false
}

// Load-request lifecycle.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// Notification types.
const (
	NotifReserveNoContact = "reserve_no_contact"
	NotifNegativeEnergy   = "negative_energy"
	NotifRequestPending   = "request_pending"
	NotifSystem           = "system"
)

// Observation severities.
const (
	SeverityUrgent         = "urgent"
	SeverityWarning        = "warning"
	SeverityRecommendation = "recommendation"
)

// ValidBarType reports whether t names one of the three bar types.
func ValidBarType(t string) bool {
	return t == BarTypeNormal || t == BarTypeEmergency || t == BarTypeContinuity
}

// ValidSeverity reports whether s is a known observation severity.
func ValidSeverity(s string) bool {
	return s == SeverityUrgent || s == SeverityWarning || s == SeverityRecommendation
}

// PermissionFeatures are the per-user feature toggles an admin can grant.
var PermissionFeatures = []string{
	"view_stations",
	"view_circuits",
	"send_requests",
	"add_observations",
	"view_reports",
}
