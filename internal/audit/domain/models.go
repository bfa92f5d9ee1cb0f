package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Operation string

const (
	OperationCreate Operation = "create"
	OperationDelete Operation = "delete"
)

// AuditLog is an append-only fact about a state change. Rows are written in the
// same transaction as the change they document and are never updated or deleted.
type AuditLog struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	TableName string            `gorm:"not null;index" json:"table_name"`
	RecordID  string            `gorm:"not null;index" json:"record_id"`
	Operation Operation         `gorm:"not null" json:"operation"`
	OldData   datatypes.JSONMap `gorm:"type:jsonb" json:"old_data,omitempty"`
	NewData   datatypes.JSONMap `gorm:"type:jsonb" json:"new_data,omitempty"`
	ActorID   *string           `json:"actor_id,omitempty"`
	ActorRole *string           `json:"actor_role,omitempty"`
	Reason    string            `json:"reason"`
	RequestID *string           `json:"request_id,omitempty"`
	IPAddress *string           `json:"ip_address,omitempty"`
	CreatedAt time.Time         `gorm:"not null;index" json:"created_at"`
}

type AuditCursor struct {
	ID        snowflake.ID
	CreatedAt time.Time
}

type ListFilter struct {
	TableName string
	RecordID  string
	Operation string
	ActorID   string
	StartAt   *time.Time
	EndAt     *time.Time
	Cursor    *AuditCursor
	Limit     int
}
