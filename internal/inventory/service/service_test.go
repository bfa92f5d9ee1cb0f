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
	"github.com/orchardworks/presshouse/internal/config"
	"github.com/orchardworks/presshouse/internal/inventory/domain"
	"github.com/orchardworks/presshouse/internal/inventory/repository"
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
		`CREATE TABLE inventory_items (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			item_type TEXT NOT NULL,
			variety_id TEXT,
			lot_code TEXT,
			total_quantity NUMERIC NOT NULL DEFAULT 0,
			allocated_quantity NUMERIC NOT NULL DEFAULT 0,
			unit TEXT NOT NULL,
			location TEXT,
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

	stock := config.NewStaticStockConfigHolder(config.StockConfig{
		Thresholds: []config.StockThreshold{
			{Unit: "l", Quantity: 500},
			{Unit: "kg", Quantity: 100},
		},
	})

	return New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		Repo:     repository.Provide(),
		Stock:    stock,
		AuditSvc: auditSvc,
	})
}

func TestCreateAndAvailability(t *testing.T) {
	svc := newTestService(t)

	item, err := svc.Create(context.Background(), domain.CreateItemRequest{
		Name:          "Dabinett juice",
		ItemType:      "juice",
		TotalQuantity: "1200",
		Unit:          "l",
	})
	require.NoError(t, err)

	assert.Equal(t, "1200", item.TotalQuantity.String())
	assert.Equal(t, "0", item.AllocatedQuantity.String())
	assert.Equal(t, "1200", item.Available.String())
	assert.False(t, item.BelowThreshold)
}

func TestAdjustMovesAllocationWithinBounds(t *testing.T) {
	svc := newTestService(t)

	item, err := svc.Create(context.Background(), domain.CreateItemRequest{
		Name:          "Dabinett juice",
		ItemType:      "juice",
		TotalQuantity: "1000",
		Unit:          "l",
	})
	require.NoError(t, err)

	adjusted, err := svc.Adjust(context.Background(), domain.AdjustRequest{
		ID:     item.ID.String(),
		Delta:  "700",
		Reason: "reserved for batch 26-014",
	})
	require.NoError(t, err)
	assert.Equal(t, "700", adjusted.AllocatedQuantity.String())
	assert.Equal(t, "300", adjusted.Available.String())
	// 300 l available is at or below the 500 l threshold.
	assert.True(t, adjusted.BelowThreshold)

	released, err := svc.Adjust(context.Background(), domain.AdjustRequest{
		ID:    item.ID.String(),
		Delta: "-200",
	})
	require.NoError(t, err)
	assert.Equal(t, "500", released.AllocatedQuantity.String())

	// Over-allocating or releasing below zero is rejected.
	_, err = svc.Adjust(context.Background(), domain.AdjustRequest{ID: item.ID.String(), Delta: "600"})
	assert.ErrorIs(t, err, domain.ErrAllocationRange)

	_, err = svc.Adjust(context.Background(), domain.AdjustRequest{ID: item.ID.String(), Delta: "-501"})
	assert.ErrorIs(t, err, domain.ErrAllocationRange)

	_, err = svc.Adjust(context.Background(), domain.AdjustRequest{ID: item.ID.String(), Delta: "0"})
	assert.ErrorIs(t, err, domain.ErrInvalidDelta)

	_, err = svc.Adjust(context.Background(), domain.AdjustRequest{ID: uuid.NewString(), Delta: "10"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBelowThresholdOnlyForConfiguredUnits(t *testing.T) {
	svc := newTestService(t)

	item, err := svc.Create(context.Background(), domain.CreateItemRequest{
		Name:          "Crown caps",
		ItemType:      "packaging",
		TotalQuantity: "50",
		Unit:          "case",
	})
	require.NoError(t, err)

	// No threshold configured for "case", so the flag stays off even at low stock.
	assert.False(t, item.BelowThreshold)
}

func TestSummaryTotalsPerUnit(t *testing.T) {
	svc := newTestService(t)

	for _, req := range []domain.CreateItemRequest{
		{Name: "Dabinett juice", ItemType: "juice", TotalQuantity: "1000", Unit: "l"},
		{Name: "Perry pear juice", ItemType: "juice", TotalQuantity: "400", Unit: "l"},
		{Name: "Fresh apples", ItemType: "fruit", TotalQuantity: "250", Unit: "kg"},
	} {
		_, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
	}

	resp, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Rows, 2)

	byUnit := map[string]domain.UnitSummaryRow{}
	for _, row := range resp.Rows {
		byUnit[row.Unit] = row
	}
	assert.EqualValues(t, 2, byUnit["l"].Count)
	assert.Equal(t, "1400", byUnit["l"].TotalQuantity.String())
	assert.Equal(t, "250", byUnit["kg"].TotalQuantity.String())
}
