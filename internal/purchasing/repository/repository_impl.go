package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/orchardworks/presshouse/internal/purchasing/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, purchase *domain.Purchase) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO purchases (id, vendor_id, purchase_type, variety_id, quantity, unit,
			unit_cost, total_cost, purchased_at, invoice_no, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		purchase.ID,
		purchase.VendorID,
		purchase.PurchaseType,
		purchase.VarietyID,
		purchase.Quantity,
		purchase.Unit,
		purchase.UnitCost,
		purchase.TotalCost,
		purchase.PurchasedAt,
		purchase.InvoiceNo,
		purchase.Notes,
		purchase.CreatedAt,
		purchase.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*domain.Purchase, error) {
	var purchase domain.Purchase
	err := db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		Limit(1).
		Find(&purchase).Error
	if err != nil {
		return nil, err
	}
	if purchase.ID == uuid.Nil {
		return nil, nil
	}
	return &purchase, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListPurchaseFilter, limit int) ([]*domain.Purchase, error) {
	var purchases []*domain.Purchase
	stmt := db.WithContext(ctx).
		Model(&domain.Purchase{}).
		Where("deleted_at IS NULL")

	if filter.VendorID != nil {
		stmt = stmt.Where("vendor_id = ?", *filter.VendorID)
	}
	if filter.PurchaseType != "" {
		stmt = stmt.Where("purchase_type = ?", filter.PurchaseType)
	}
	if filter.From != nil {
		stmt = stmt.Where("purchased_at >= ?", *filter.From)
	}
	if filter.To != nil {
		stmt = stmt.Where("purchased_at <= ?", *filter.To)
	}
	if filter.Cursor != nil {
		stmt = stmt.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			filter.Cursor.CreatedAt,
			filter.Cursor.CreatedAt,
			filter.Cursor.ID,
		)
	}

	stmt = stmt.Order("created_at desc, id desc")
	if limit > 0 {
		stmt = stmt.Limit(limit + 1)
	}

	if err := stmt.Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

func (r *repo) Summarize(ctx context.Context, db *gorm.DB) ([]domain.SummaryRow, error) {
	var rows []domain.SummaryRow
	err := db.WithContext(ctx).Raw(
		`SELECT purchase_type, COUNT(*) AS count,
			COALESCE(SUM(quantity), 0) AS total_quantity,
			COALESCE(SUM(total_cost), 0) AS total_cost
		 FROM purchases
		 WHERE deleted_at IS NULL
		 GROUP BY purchase_type
		 ORDER BY purchase_type`,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
