package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Observation is a free-text note pinned to a bar, circuit or sub-circuit.
// The author identity is retained for audit.
type Observation struct {
	bun.BaseModel `bun:"table:observations,alias:o"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	CircuitID    *int64    `bun:"circuit_id" json:"circuit_id,omitempty"`
	SubCircuitID *int64    `bun:"sub_circuit_id" json:"sub_circuit_id,omitempty"`
	BarID        *int64    `bun:"bar_id" json:"bar_id,omitempty"`
	UserID       int64     `bun:"user_id,notnull" json:"user_id"`
	Severity     string    `bun:"severity,notnull" json:"severity"`
	Content      string    `bun:"content,notnull" json:"content"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// ObservationResponse adds the author's display fields.
type ObservationResponse struct {
	Observation
	UserName *string `json:"user_name,omitempty"`
	UserRole *string `json:"user_role,omitempty"`
}

// ObservationCreate is the submission payload; exactly one target id should
// be set.
type ObservationCreate struct {
	CircuitID    *int64 `json:"circuit_id"`
	SubCircuitID *int64 `json:"sub_circuit_id"`
	BarID        *int64 `json:"bar_id"`
	Severity     string `json:"severity"`
	Content      string `json:"content"`
}
