package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	varietydomain "github.com/orchardworks/presshouse/internal/variety/domain"
	"github.com/orchardworks/presshouse/internal/vendorvariety/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

// Link and variety table names come from the fixed Kind enum, never from
// request input, so interpolating them is safe.
func (r *repo) Insert(ctx context.Context, db *gorm.DB, kind varietydomain.Kind, link *domain.VendorVarietyLink) error {
	return db.WithContext(ctx).Exec(
		fmt.Sprintf(`INSERT INTO %s (id, vendor_id, variety_id, notes, created_at)
		 VALUES (?, ?, ?, ?, ?)`, kind.LinkTableName()),
		link.ID,
		link.VendorID,
		link.VarietyID,
		link.Notes,
		link.CreatedAt,
	).Error
}

func (r *repo) FindLive(ctx context.Context, db *gorm.DB, kind varietydomain.Kind, vendorID, varietyID uuid.UUID) (*domain.VendorVarietyLink, error) {
	var link domain.VendorVarietyLink
	err := db.WithContext(ctx).
		Table(kind.LinkTableName()).
		Where("vendor_id = ? AND variety_id = ? AND deleted_at IS NULL", vendorID, varietyID).
		Limit(1).
		Find(&link).Error
	if err != nil {
		return nil, err
	}
	if link.ID == uuid.Nil {
		return nil, nil
	}
	return &link, nil
}

func (r *repo) FindLiveDetail(ctx context.Context, db *gorm.DB, kind varietydomain.Kind, vendorID, varietyID uuid.UUID) (*domain.LinkDetail, error) {
	var detail domain.LinkDetail
	err := db.WithContext(ctx).Raw(
		fmt.Sprintf(`SELECT l.id AS link_id, l.vendor_id, ven.name AS vendor_name,
			l.variety_id, var.name AS variety_name
		 FROM %s l
		 JOIN vendors ven ON ven.id = l.vendor_id
		 JOIN %s var ON var.id = l.variety_id
		 WHERE l.vendor_id = ? AND l.variety_id = ? AND l.deleted_at IS NULL
		 LIMIT 1`, kind.LinkTableName(), kind.TableName()),
		vendorID,
		varietyID,
	).Scan(&detail).Error
	if err != nil {
		return nil, err
	}
	if detail.LinkID == uuid.Nil {
		return nil, nil
	}
	return &detail, nil
}

func (r *repo) SoftDelete(ctx context.Context, db *gorm.DB, kind varietydomain.Kind, linkID uuid.UUID) error {
	return db.WithContext(ctx).Exec(
		fmt.Sprintf(`UPDATE %s SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, kind.LinkTableName()),
		time.Now().UTC(),
		linkID,
	).Error
}

func (r *repo) ListForVendor(ctx context.Context, db *gorm.DB, kind varietydomain.Kind, vendorID uuid.UUID) ([]*domain.LinkedVariety, error) {
	var items []*domain.LinkedVariety
	err := db.WithContext(ctx).Raw(
		fmt.Sprintf(`SELECT l.variety_id, var.name, var.category, var.is_active,
			l.notes, l.created_at AS linked_at
		 FROM %s l
		 JOIN %s var ON var.id = l.variety_id
		 WHERE l.vendor_id = ? AND l.deleted_at IS NULL`, kind.LinkTableName(), kind.TableName()),
		vendorID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		item.Kind = kind
	}
	return items, nil
}
