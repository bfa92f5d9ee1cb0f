package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orchardworks/presshouse/internal/vendors/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, vendor *domain.Vendor) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO vendors (id, name, code, email, phone, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		vendor.ID,
		vendor.Name,
		vendor.Code,
		vendor.Email,
		vendor.Phone,
		vendor.IsActive,
		vendor.CreatedAt,
		vendor.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*domain.Vendor, error) {
	var vendor domain.Vendor
	err := db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		Limit(1).
		Find(&vendor).Error
	if err != nil {
		return nil, err
	}
	if vendor.ID == uuid.Nil {
		return nil, nil
	}
	return &vendor, nil
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Vendor, error) {
	var vendor domain.Vendor
	err := db.WithContext(ctx).
		Where("code = ? AND deleted_at IS NULL", code).
		Limit(1).
		Find(&vendor).Error
	if err != nil {
		return nil, err
	}
	if vendor.ID == uuid.Nil {
		return nil, nil
	}
	return &vendor, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListVendorFilter, limit int) ([]*domain.Vendor, error) {
	var vendors []*domain.Vendor
	stmt := db.WithContext(ctx).
		Model(&domain.Vendor{}).
		Where("deleted_at IS NULL")

	if name := strings.TrimSpace(filter.Name); name != "" {
		stmt = stmt.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if filter.ActiveOnly {
		stmt = stmt.Where("is_active = ?", true)
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

	if err := stmt.Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

func (r *repo) SetActive(ctx context.Context, db *gorm.DB, id uuid.UUID, active bool) error {
	return db.WithContext(ctx).Exec(
		`UPDATE vendors SET is_active = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		active,
		time.Now().UTC(),
		id,
	).Error
}
