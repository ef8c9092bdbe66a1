package models

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// AuditLog is an append-only record of a mutating action. Entries are never
// updated except for the flag pair: a flagged entry always carries a reason,
// unflagging clears it.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:al"`

	ID         int64           `bun:"id,pk,autoincrement" json:"id"`
	UserID     int64           `bun:"user_id,notnull" json:"user_id"`
	UserRole   string          `bun:"user_role,notnull" json:"user_role"`
	UserName   string          `bun:"user_name,notnull" json:"user_name"`
	ActionDate time.Time       `bun:"action_date,notnull,default:current_timestamp" json:"action_date"`
	Action     string          `bun:"action,notnull" json:"action"`
	EntityType string          `bun:"entity_type,notnull" json:"entity_type"`
	EntityID   *int64          `bun:"entity_id" json:"entity_id,omitempty"`
	Details    json.RawMessage `bun:"details,type:jsonb" json:"details,omitempty"`
	IsFlagged  bool            `bun:"is_flagged,notnull,default:false" json:"is_flagged"`
	FlagReason *string         `bun:"flag_reason" json:"flag_reason,omitempty"`
}

// AuditFlagUpdate toggles the flag on an entry.
type AuditFlagUpdate struct {
	IsFlagged  bool   `json:"is_flagged"`
	FlagReason string `json:"flag_reason"`
}

// AuditFilterParams narrows the audit listing.
type AuditFilterParams struct {
	EntityType string
	EntityID   *int64
	UserID     *int64
	IsFlagged  *bool
	Limit      int
	Offset     int
}
