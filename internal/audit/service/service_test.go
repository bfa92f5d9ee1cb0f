package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/orchardworks/presshouse/internal/actorcontext"
	"github.com/orchardworks/presshouse/internal/audit/domain"
	"github.com/orchardworks/presshouse/internal/audit/repository"
	"github.com/orchardworks/presshouse/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE audit_logs (
		id INTEGER PRIMARY KEY,
		table_name TEXT NOT NULL,
		record_id TEXT NOT NULL,
		operation TEXT NOT NULL,
		old_data TEXT,
		new_data TEXT,
		actor_id TEXT,
		actor_role TEXT,
		reason TEXT,
		request_id TEXT,
		ip_address TEXT,
		created_at DATETIME NOT NULL
	)`).Error)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, db
}

func testTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func TestRecordCapturesActorContext(t *testing.T) {
	svc, db := newTestService(t)

	ctx := actorcontext.WithActor(context.Background(), actorcontext.Actor{ID: "u-17", Role: "operator"})
	ctx = actorcontext.WithRequestID(ctx, "req-42")
	ctx = actorcontext.WithIPAddress(ctx, "10.1.2.3")

	err := svc.Record(ctx, nil, domain.Entry{
		TableName: "vendors",
		RecordID:  "v-1",
		Operation: domain.OperationCreate,
		NewData:   map[string]any{"name": "Hillside Orchard"},
		Reason:    "vendor created via API",
	})
	require.NoError(t, err)

	var row domain.AuditLog
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, "vendors", row.TableName)
	assert.Equal(t, domain.OperationCreate, row.Operation)
	assert.Equal(t, "vendor created via API", row.Reason)
	require.NotNil(t, row.ActorID)
	assert.Equal(t, "u-17", *row.ActorID)
	require.NotNil(t, row.ActorRole)
	assert.Equal(t, "operator", *row.ActorRole)
	require.NotNil(t, row.RequestID)
	assert.Equal(t, "req-42", *row.RequestID)
	require.NotNil(t, row.IPAddress)
	assert.Equal(t, "10.1.2.3", *row.IPAddress)
}

func TestRecordWithoutActorLeavesAttributionEmpty(t *testing.T) {
	svc, db := newTestService(t)

	err := svc.Record(context.Background(), nil, domain.Entry{
		TableName: "vendors",
		RecordID:  "v-1",
		Operation: domain.OperationDelete,
		OldData:   map[string]any{"name": "Hillside Orchard"},
	})
	require.NoError(t, err)

	var row domain.AuditLog
	require.NoError(t, db.First(&row).Error)
	assert.Nil(t, row.ActorID)
	assert.Nil(t, row.RequestID)
}

func TestRecordValidation(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Record(context.Background(), nil, domain.Entry{
		RecordID:  "v-1",
		Operation: domain.OperationCreate,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTableName)

	err = svc.Record(context.Background(), nil, domain.Entry{
		TableName: "vendors",
		RecordID:  "v-1",
		Operation: domain.Operation("update"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestListFiltersAndPaginates(t *testing.T) {
	svc, _ := newTestService(t)

	for i := 0; i < 5; i++ {
		tableName := "vendors"
		if i%2 == 1 {
			tableName = "purchases"
		}
		err := svc.Record(context.Background(), nil, domain.Entry{
			TableName: tableName,
			RecordID:  fmt.Sprintf("r-%d", i),
			Operation: domain.OperationCreate,
		})
		require.NoError(t, err)
	}

	resp, err := svc.List(context.Background(), domain.ListAuditLogRequest{TableName: "vendors"})
	require.NoError(t, err)
	assert.Len(t, resp.AuditLogs, 3)

	paged, err := svc.List(context.Background(), domain.ListAuditLogRequest{
		Pagination: pagination.Pagination{PageSize: 2},
	})
	require.NoError(t, err)
	assert.Len(t, paged.AuditLogs, 2)
	assert.True(t, paged.HasMore)
	require.NotEmpty(t, paged.NextPageToken)

	rest, err := svc.List(context.Background(), domain.ListAuditLogRequest{
		Pagination: pagination.Pagination{PageSize: 10, PageToken: paged.NextPageToken},
	})
	require.NoError(t, err)
	assert.Len(t, rest.AuditLogs, 3)
	assert.False(t, rest.HasMore)

	_, err = svc.List(context.Background(), domain.ListAuditLogRequest{
		Pagination: pagination.Pagination{PageToken: "%%%"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPageToken)
}

func TestListRejectsInvertedTimeRange(t *testing.T) {
	svc, _ := newTestService(t)

	start := testTime(t, "2026-08-02T00:00:00Z")
	end := testTime(t, "2026-08-01T00:00:00Z")
	_, err := svc.List(context.Background(), domain.ListAuditLogRequest{
		StartAt: &start,
		EndAt:   &end,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTimeRange)
}
