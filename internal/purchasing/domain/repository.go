package domain

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, purchase *Purchase) error
	// FindByID returns the live purchase, or nil when absent.
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*Purchase, error)
	List(ctx context.Context, db *gorm.DB, filter ListPurchaseFilter, limit int) ([]*Purchase, error)
	// Summarize aggregates live purchases grouped by purchase_type.
	Summarize(ctx context.Context, db *gorm.DB) ([]SummaryRow, error)
}
