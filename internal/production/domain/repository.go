package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, report *ProductionReport) error
	// FindByID returns the live report, or nil when absent.
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*ProductionReport, error)
	// FindByBatchCode matches live reports case-insensitively.
	FindByBatchCode(ctx context.Context, db *gorm.DB, batchCode string) (*ProductionReport, error)
	List(ctx context.Context, db *gorm.DB, filter ListReportFilter, limit int) ([]*ProductionReport, error)
	Complete(ctx context.Context, db *gorm.DB, report *ProductionReport) error
	// FermentingVolume sums the volume of live fermenting batches.
	FermentingVolume(ctx context.Context, db *gorm.DB) (decimal.Decimal, error)
	CountByStatus(ctx context.Context, db *gorm.DB) ([]StatusCountRow, error)
}
