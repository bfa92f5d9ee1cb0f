package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, item *InventoryItem) error
	// FindByID returns the live item, or nil when absent.
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*InventoryItem, error)
	List(ctx context.Context, db *gorm.DB, filter ListInventoryFilter) ([]*InventoryItem, error)
	SetAllocated(ctx context.Context, db *gorm.DB, id uuid.UUID, allocated decimal.Decimal) error
	// Summarize totals live stock grouped by unit.
	Summarize(ctx context.Context, db *gorm.DB) ([]UnitSummaryRow, error)
}
