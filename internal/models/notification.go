package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Notification is a system-generated alert. Extend applies only to
// reserve_no_contact notifications; dismiss removes it from every list.
type Notification struct {
	bun.BaseModel `bun:"table:notifications,alias:n"`

	ID            int64      `bun:"id,pk,autoincrement" json:"id"`
	StationID     *int64     `bun:"station_id" json:"station_id,omitempty"`
	CircuitID     *int64     `bun:"circuit_id" json:"circuit_id,omitempty"`
	Type          string     `bun:"type,notnull" json:"type"`
	Message       string     `bun:"message,notnull" json:"message"`
	IsRead        bool       `bun:"is_read,notnull,default:false" json:"is_read"`
	IsDismissed   bool       `bun:"is_dismissed,notnull,default:false" json:"is_dismissed"`
	ExtendedUntil *time.Time `bun:"extended_until" json:"extended_until,omitempty"`
	CreatedAt     time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// NotificationExtend sets a new deadline on a reserve_no_contact alert.
type NotificationExtend struct {
	ExtendedUntil time.Time `json:"extended_until"`
}
