package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Bar is a distribution board within a station. Each station carries one bar
// per type: normal, emergency, continuity.
type Bar struct {
	bun.BaseModel `bun:"table:bars,alias:b"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	StationID  int64     `bun:"station_id,notnull" json:"station_id"`
	Name       string    `bun:"name,notnull" json:"name"`
	BarType    string    `bun:"bar_type,notnull" json:"bar_type"`
	Status     string    `bun:"status,notnull,default:'operative'" json:"status"`
	CapacityKW float64   `bun:"capacity_kw,notnull,default:0" json:"capacity_kw"`
	CapacityA  float64   `bun:"capacity_a,notnull,default:0" json:"capacity_a"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`

	Circuits []*Circuit `bun:"rel:has-many,join:id=bar_id" json:"circuits,omitempty"`
}

// BarPowerSummary is the per-bar balance: installed power and live demand of
// the circuits hanging off the bar, against the board's own capacity.
type BarPowerSummary struct {
	BarID                 int64   `json:"bar_id"`
	TotalInstalledPowerKW float64 `json:"total_installed_power_kw"`
	TotalMaxDemandKW      float64 `json:"total_max_demand_kw"`
	MaxBoardCapacityKW    float64 `json:"max_board_capacity_kw"`
	MaxBoardCapacityA     float64 `json:"max_board_capacity_a"`
	AvailablePowerKW      float64 `json:"available_power_kw"`
}
