package models

import (
	"time"

	"github.com/uptrace/bun"
)

// SubCircuit subdivides a circuit's installed power. Its MD never adds to bar
// or station totals; the parent circuit already carries the load.
type SubCircuit struct {
	bun.BaseModel `bun:"table:sub_circuits,alias:sc"`

	ID           int64         `bun:"id,pk,autoincrement" json:"id"`
	CircuitID    int64         `bun:"circuit_id,notnull" json:"circuit_id"`
	Name         string        `bun:"name,notnull" json:"name"`
	Description  *string       `bun:"description" json:"description,omitempty"`
	ITM          *string       `bun:"itm" json:"itm,omitempty"`
	MM2          *string       `bun:"mm2" json:"mm2,omitempty"`
	PIKw         float64       `bun:"pi_kw,notnull,default:0" json:"pi_kw"`
	FD           float64       `bun:"fd,notnull,default:1.0" json:"fd"`
	MDKw         float64       `bun:"md_kw,notnull,default:0" json:"md_kw"`
	Status       CircuitStatus `bun:"status,notnull,default:'operative_normal'" json:"status"`
	ReserveSince *time.Time    `bun:"reserve_since" json:"reserve_since,omitempty"`
	CreatedAt    time.Time     `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time     `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// SubCircuitCreateRequest is the payload for creating a sub-circuit under a
// circuit. No capacity ceiling applies; only field presence is validated.
type SubCircuitCreateRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ITM         *string `json:"itm"`
	MM2         *string `json:"mm2"`
	PIKw        float64 `json:"pi_kw"`
	FD          float64 `json:"fd"`
}
