package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Station is one stop along the line, fed by a single transformer.
// MaxDemandKW and AvailablePowerKW are derived columns, recomputed whenever
// any circuit load under the station changes.
type Station struct {
	bun.BaseModel `bun:"table:stations,alias:st"`

	ID                    int64         `bun:"id,pk,autoincrement" json:"id"`
	Code                  string        `bun:"code,notnull,unique" json:"code"`
	Name                  string        `bun:"name,notnull" json:"name"`
	OrderIndex            int           `bun:"order_index,notnull" json:"order_index"`
	TransformerCapacityKW float64       `bun:"transformer_capacity_kw,notnull,default:0" json:"transformer_capacity_kw"`
	MaxDemandKW           float64       `bun:"max_demand_kw,notnull,default:0" json:"max_demand_kw"`
	AvailablePowerKW      float64       `bun:"available_power_kw,notnull,default:0" json:"available_power_kw"`
	Status                StationStatus `bun:"status,notnull,default:'green'" json:"status"`
	CreatedAt             time.Time     `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt             time.Time     `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`

	Bars []*Bar `bun:"rel:has-many,join:id=station_id" json:"bars,omitempty"`
}

// PowerSummary is the station-level balance returned by the power-summary endpoint.
type PowerSummary struct {
	StationID             int64         `json:"station_id"`
	StationName           string        `json:"station_name"`
	TransformerCapacityKW float64       `json:"transformer_capacity_kw"`
	MaxDemandKW           float64       `json:"max_demand_kw"`
	AvailablePowerKW      float64       `json:"available_power_kw"`
	Status                StationStatus `json:"status"`
}

// StationUpdateRequest carries the only admin-editable station field.
type StationUpdateRequest struct {
	TransformerCapacityKW *float64 `json:"transformer_capacity_kw"`
}
