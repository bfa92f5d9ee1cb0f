package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orchardworks/presshouse/internal/inventory/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, item *domain.InventoryItem) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO inventory_items (id, name, item_type, variety_id, lot_code,
			total_quantity, allocated_quantity, unit, location, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.Name,
		item.ItemType,
		item.VarietyID,
		item.LotCode,
		item.TotalQuantity,
		item.AllocatedQuantity,
		item.Unit,
		item.Location,
		item.CreatedAt,
		item.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		Limit(1).
		Find(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == uuid.Nil {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListInventoryFilter) ([]*domain.InventoryItem, error) {
	var items []*domain.InventoryItem
	stmt := db.WithContext(ctx).
		Model(&domain.InventoryItem{}).
		Where("deleted_at IS NULL")

	if itemType := strings.TrimSpace(filter.ItemType); itemType != "" {
		stmt = stmt.Where("item_type = ?", itemType)
	}
	if name := strings.TrimSpace(filter.Name); name != "" {
		stmt = stmt.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}

	if err := stmt.Order("name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) SetAllocated(ctx context.Context, db *gorm.DB, id uuid.UUID, allocated decimal.Decimal) error {
	return db.WithContext(ctx).Exec(
		`UPDATE inventory_items SET allocated_quantity = ?, updated_at = ?
		 WHERE id = ? AND deleted_at IS NULL`,
		allocated,
		time.Now().UTC(),
		id,
	).Error
}

func (r *repo) Summarize(ctx context.Context, db *gorm.DB) ([]domain.UnitSummaryRow, error) {
	var rows []domain.UnitSummaryRow
	err := db.WithContext(ctx).Raw(
		`SELECT unit, COUNT(*) AS count,
			COALESCE(SUM(total_quantity), 0) AS total_quantity,
			COALESCE(SUM(allocated_quantity), 0) AS total_allocated
		 FROM inventory_items
		 WHERE deleted_at IS NULL
		 GROUP BY unit
		 ORDER BY unit`,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
