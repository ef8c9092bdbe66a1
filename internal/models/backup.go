package models

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// Backup is a full JSON snapshot of the infrastructure tables, stored inline.
type Backup struct {
	bun.BaseModel `bun:"table:backups,alias:bk"`

	ID            int64           `bun:"id,pk,autoincrement" json:"id"`
	CreatedBy     int64           `bun:"created_by,notnull" json:"created_by"`
	FileName      string          `bun:"file_name,notnull" json:"file_name"`
	Description   *string         `bun:"description" json:"description,omitempty"`
	BackupData    json.RawMessage `bun:"backup_data,type:jsonb,notnull" json:"-"`
	IncludesAudit bool            `bun:"includes_audit,notnull,default:true" json:"includes_audit"`
	SizeBytes     int64           `bun:"size_bytes" json:"size_bytes"`
	CreatedAt     time.Time       `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// BackupSnapshot is the payload serialized into BackupData.
type BackupSnapshot struct {
	Stations     []Station     `json:"stations"`
	Bars         []Bar         `json:"bars"`
	Circuits     []Circuit     `json:"circuits"`
	SubCircuits  []SubCircuit  `json:"sub_circuits"`
	Observations []Observation `json:"observations"`
	AuditLogs    []AuditLog    `json:"audit_logs,omitempty"`
}

// BackupCreate is the creation payload.
type BackupCreate struct {
	Description   *string `json:"description"`
	IncludesAudit bool    `json:"includes_audit"`
}

// BackupResponse adds the creator's display name to the listing.
type BackupResponse struct {
	Backup
	CreatorName *string `json:"creator_name,omitempty"`
}
