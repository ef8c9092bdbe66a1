package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Circuit is a load hanging off a bar. A UPS circuit draws from two extra bars
// for redundancy; IsUPS is true exactly when both SecondaryBarID and
// TertiaryBarID are set. MDKw is always derived as round(PIKw*FD, 2) on the
// server and never trusted from input.
type Circuit struct {
	bun.BaseModel `bun:"table:circuits,alias:c"`

	ID                int64         `bun:"id,pk,autoincrement" json:"id"`
	BarID             int64         `bun:"bar_id,notnull" json:"bar_id"`
	SecondaryBarID    *int64        `bun:"secondary_bar_id" json:"secondary_bar_id,omitempty"`
	TertiaryBarID     *int64        `bun:"tertiary_bar_id" json:"tertiary_bar_id,omitempty"`
	Denomination      string        `bun:"denomination,notnull" json:"denomination"`
	Name              string        `bun:"name,notnull" json:"name"`
	Description       *string       `bun:"description" json:"description,omitempty"`
	LocalItem         *string       `bun:"local_item" json:"local_item,omitempty"`
	PIKw              float64       `bun:"pi_kw,notnull,default:0" json:"pi_kw"`
	FD                float64       `bun:"fd,notnull,default:1.0" json:"fd"`
	MDKw              float64       `bun:"md_kw,notnull,default:0" json:"md_kw"`
	Status            CircuitStatus `bun:"status,notnull,default:'operative_normal'" json:"status"`
	IsUPS             bool          `bun:"is_ups,notnull,default:false" json:"is_ups"`
	ReserveSince      *time.Time    `bun:"reserve_since" json:"reserve_since,omitempty"`
	ClientLastContact *time.Time    `bun:"client_last_contact" json:"client_last_contact,omitempty"`
	CreatedAt         time.Time     `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt         time.Time     `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`

	SubCircuits []*SubCircuit `bun:"rel:has-many,join:id=circuit_id" json:"sub_circuits,omitempty"`
}

// CircuitCreateRequest is the payload for creating a circuit on a bar.
// MD is never accepted from the client. Force re-submits past a failed
// capacity check.
type CircuitCreateRequest struct {
	Denomination   string  `json:"denomination"`
	Name           string  `json:"name"`
	Description    *string `json:"description"`
	LocalItem      *string `json:"local_item"`
	PIKw           float64 `json:"pi_kw"`
	FD             float64 `json:"fd"`
	Status         string  `json:"status"`
	IsUPS          bool    `json:"is_ups"`
	SecondaryBarID *int64  `json:"secondary_bar_id"`
	TertiaryBarID  *int64  `json:"tertiary_bar_id"`
	Force          bool    `json:"force"`
}

// CircuitUpdateRequest carries optional field updates; MD is recomputed when
// PI or FD changes.
type CircuitUpdateRequest struct {
	Denomination      *string  `json:"denomination"`
	Name              *string  `json:"name"`
	Description       *string  `json:"description"`
	LocalItem         *string  `json:"local_item"`
	PIKw              *float64 `json:"pi_kw"`
	FD                *float64 `json:"fd"`
	ClientLastContact *string  `json:"client_last_contact"`
}

// StatusChangeRequest moves a circuit or sub-circuit between states.
type StatusChangeRequest struct {
	Status string `json:"status"`
}
