package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	auditrepository "github.com/orchardworks/presshouse/internal/audit/repository"
	auditservice "github.com/orchardworks/presshouse/internal/audit/service"
	"github.com/orchardworks/presshouse/internal/production/domain"
	"github.com/orchardworks/presshouse/internal/production/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	for _, stmt := range []string{
		`CREATE TABLE production_reports (
			id TEXT PRIMARY KEY,
			batch_code TEXT NOT NULL,
			tank TEXT NOT NULL,
			juice_variety_id TEXT,
			volume NUMERIC NOT NULL,
			starting_gravity NUMERIC,
			final_gravity NUMERIC,
			status TEXT NOT NULL,
			started_at DATETIME NOT NULL,
			completed_at DATETIME,
			notes TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			deleted_at DATETIME
		)`,
		`CREATE TABLE audit_logs (
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
		)`,
	} {
		require.NoError(t, db.Exec(stmt).Error)
	}

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	auditSvc := auditservice.NewService(auditservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  auditrepository.Provide(),
	})

	return New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		Repo:     repository.Provide(),
		AuditSvc: auditSvc,
	})
}

func TestCreateStartsFermenting(t *testing.T) {
	svc := newTestService(t)

	report, err := svc.Create(context.Background(), domain.CreateReportRequest{
		BatchCode:       "26-014",
		Tank:            "FV3",
		Volume:          "2500",
		StartingGravity: "1.052",
		StartedAt:       "2026-08-10",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusFermenting, report.Status)
	assert.Equal(t, "26-014", report.BatchCode)
	require.NotNil(t, report.StartingGravity)
	assert.Equal(t, "1.052", report.StartingGravity.String())
	assert.Nil(t, report.CompletedAt)
}

func TestCreateRejectsDuplicateLiveBatchCode(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateReportRequest{
		BatchCode: "B-26-014",
		Tank:      "FV3",
		Volume:    "2500",
	})
	require.NoError(t, err)

	// Batch codes match case-insensitively among live reports.
	_, err = svc.Create(context.Background(), domain.CreateReportRequest{
		BatchCode: "b-26-014",
		Tank:      "FV4",
		Volume:    "1000",
	})
	assert.ErrorIs(t, err, domain.ErrBatchCodeExists)
}

func TestCompleteLifecycle(t *testing.T) {
	svc := newTestService(t)

	report, err := svc.Create(context.Background(), domain.CreateReportRequest{
		BatchCode: "26-015",
		Tank:      "FV1",
		Volume:    "1800",
	})
	require.NoError(t, err)

	// Only terminal statuses are accepted.
	_, err = svc.Complete(context.Background(), domain.CompleteReportRequest{
		ID:     report.ID.String(),
		Status: "conditioning",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	completed, err := svc.Complete(context.Background(), domain.CompleteReportRequest{
		ID:           report.ID.String(),
		Status:       "packaged",
		FinalGravity: "1.002",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPackaged, completed.Status)
	require.NotNil(t, completed.CompletedAt)
	require.NotNil(t, completed.FinalGravity)
	assert.Equal(t, "1.002", completed.FinalGravity.String())

	_, err = svc.Complete(context.Background(), domain.CompleteReportRequest{
		ID:     report.ID.String(),
		Status: "dumped",
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyComplete)

	_, err = svc.Complete(context.Background(), domain.CompleteReportRequest{
		ID:     uuid.NewString(),
		Status: "packaged",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListFilters(t *testing.T) {
	svc := newTestService(t)

	for i, tank := range []string{"FV1", "FV1", "FV2"} {
		_, err := svc.Create(context.Background(), domain.CreateReportRequest{
			BatchCode: fmt.Sprintf("26-%03d", i),
			Tank:      tank,
			Volume:    "1000",
		})
		require.NoError(t, err)
	}

	resp, err := svc.List(context.Background(), domain.ListReportRequest{Tank: "FV1"})
	require.NoError(t, err)
	assert.Len(t, resp.Reports, 2)

	resp, err = svc.List(context.Background(), domain.ListReportRequest{Status: "fermenting"})
	require.NoError(t, err)
	assert.Len(t, resp.Reports, 3)

	_, err = svc.List(context.Background(), domain.ListReportRequest{Status: "bottling"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestSummaryCountsAndVolume(t *testing.T) {
	svc := newTestService(t)

	first, err := svc.Create(context.Background(), domain.CreateReportRequest{
		BatchCode: "26-020",
		Tank:      "FV1",
		Volume:    "1500",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), domain.CreateReportRequest{
		BatchCode: "26-021",
		Tank:      "FV2",
		Volume:    "900",
	})
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), domain.CompleteReportRequest{
		ID:     first.ID.String(),
		Status: "packaged",
	})
	require.NoError(t, err)

	resp, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "900", resp.FermentingVolume.String())

	counts := map[domain.Status]int64{}
	for _, row := range resp.StatusCounts {
		counts[row.Status] = row.Count
	}
	assert.EqualValues(t, 1, counts[domain.StatusFermenting])
	assert.EqualValues(t, 1, counts[domain.StatusPackaged])
}
