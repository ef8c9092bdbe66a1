package models

import (
	"time"

	"github.com/uptrace/bun"
)

// LoadRequest is an ampliacion: an OPERSAC user asking for extra load on a
// station. With CircuitID set it becomes a new sub-circuit under that circuit
// on approval; without it, a brand-new circuit on the matching bar.
type LoadRequest struct {
	bun.BaseModel `bun:"table:requests,alias:req"`

	ID                    int64      `bun:"id,pk,autoincrement" json:"id"`
	OpersacUserID         int64      `bun:"opersac_user_id,notnull" json:"opersac_user_id"`
	StationID             int64      `bun:"station_id,notnull" json:"station_id"`
	BarType               string     `bun:"bar_type,notnull" json:"bar_type"`
	CircuitID             *int64     `bun:"circuit_id" json:"circuit_id,omitempty"`
	LocalItem             *string    `bun:"local_item" json:"local_item,omitempty"`
	RequestedLoadKW       float64    `bun:"requested_load_kw,notnull" json:"requested_load_kw"`
	FD                    float64    `bun:"fd,notnull,default:1.0" json:"fd"`
	SubCircuitName        *string    `bun:"sub_circuit_name" json:"sub_circuit_name,omitempty"`
	SubCircuitDescription *string    `bun:"sub_circuit_description" json:"sub_circuit_description,omitempty"`
	SubCircuitITM         *string    `bun:"sub_circuit_itm" json:"sub_circuit_itm,omitempty"`
	SubCircuitMM2         *string    `bun:"sub_circuit_mm2" json:"sub_circuit_mm2,omitempty"`
	Justification         *string    `bun:"justification" json:"justification,omitempty"`
	Status                string     `bun:"status,notnull,default:'pending'" json:"status"`
	RejectionReason       *string    `bun:"rejection_reason" json:"rejection_reason,omitempty"`
	ReviewedBy            *int64     `bun:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt            *time.Time `bun:"reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt             time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt             time.Time  `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// LoadRequestResponse enriches a request with the display names the dashboard
// joins in.
type LoadRequestResponse struct {
	LoadRequest
	OpersacName *string `json:"opersac_name,omitempty"`
	StationName *string `json:"station_name,omitempty"`
	CircuitName *string `json:"circuit_name,omitempty"`
}

// LoadRequestCreate is the submission payload.
type LoadRequestCreate struct {
	StationID             int64   `json:"station_id"`
	BarType               string  `json:"bar_type"`
	CircuitID             *int64  `json:"circuit_id"`
	LocalItem             *string `json:"local_item"`
	RequestedLoadKW       float64 `json:"requested_load_kw"`
	FD                    float64 `json:"fd"`
	SubCircuitName        *string `json:"sub_circuit_name"`
	SubCircuitDescription *string `json:"sub_circuit_description"`
	SubCircuitITM         *string `json:"sub_circuit_itm"`
	SubCircuitMM2         *string `json:"sub_circuit_mm2"`
	Justification         *string `json:"justification"`
}

// LoadRequestReject carries the mandatory rejection reason.
type LoadRequestReject struct {
	RejectionReason string `json:"rejection_reason"`
}
