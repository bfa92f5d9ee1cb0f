package domain

import (
	"context"
	"errors"
	"time"

	"github.com/orchardworks/presshouse/pkg/db/pagination"
	"gorm.io/gorm"
)

// Entry is a single change record. OldData carries the before-state for
// deletes, NewData the after-state for creates.
type Entry struct {
	TableName string
	RecordID  string
	Operation Operation
	OldData   map[string]any
	NewData   map[string]any
	Reason    string
}

type ListAuditLogRequest struct {
	pagination.Pagination
	TableName string
	RecordID  string
	Operation string
	ActorID   string
	StartAt   *time.Time
	EndAt     *time.Time
}

type ListAuditLogResponse struct {
	pagination.PageInfo
	AuditLogs []AuditLog `json:"audit_logs"`
}

// Service appends audit records. Record takes the caller's transaction handle
// so the audit row commits or rolls back together with the change it documents.
type Service interface {
	Record(ctx context.Context, tx *gorm.DB, entry Entry) error
	List(ctx context.Context, req ListAuditLogRequest) (ListAuditLogResponse, error)
}

var (
	ErrInvalidTableName = errors.New("invalid_table_name")
	ErrInvalidOperation = errors.New("invalid_operation")
	ErrInvalidPageToken = errors.New("invalid_page_token")
	ErrInvalidTimeRange = errors.New("invalid_time_range")
)
