package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orchardworks/presshouse/internal/variety/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

// Table names come from the fixed Kind enum, never from request input, so
// interpolating them is safe.
func (r *repo) Insert(ctx context.Context, db *gorm.DB, kind domain.Kind, variety *domain.Variety) error {
	return db.WithContext(ctx).Exec(
		fmt.Sprintf(`INSERT INTO %s (id, name, category, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`, kind.TableName()),
		variety.ID,
		variety.Name,
		variety.Category,
		variety.IsActive,
		variety.CreatedAt,
		variety.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, kind domain.Kind, id uuid.UUID) (*domain.Variety, error) {
	var variety domain.Variety
	err := db.WithContext(ctx).
		Table(kind.TableName()).
		Where("id = ? AND deleted_at IS NULL", id).
		Limit(1).
		Find(&variety).Error
	if err != nil {
		return nil, err
	}
	if variety.ID == uuid.Nil {
		return nil, nil
	}
	return &variety, nil
}

func (r *repo) FindByName(ctx context.Context, db *gorm.DB, kind domain.Kind, name string) (*domain.Variety, error) {
	var variety domain.Variety
	err := db.WithContext(ctx).
		Table(kind.TableName()).
		Where("LOWER(name) = ? AND deleted_at IS NULL", strings.ToLower(strings.TrimSpace(name))).
		Limit(1).
		Find(&variety).Error
	if err != nil {
		return nil, err
	}
	if variety.ID == uuid.Nil {
		return nil, nil
	}
	return &variety, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, kind domain.Kind, filter domain.ListVarietyFilter, limit int) ([]*domain.Variety, error) {
	var varieties []*domain.Variety
	stmt := db.WithContext(ctx).
		Table(kind.TableName()).
		Where("deleted_at IS NULL")

	if name := strings.TrimSpace(filter.Name); name != "" {
		stmt = stmt.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if filter.ActiveOnly {
		stmt = stmt.Where("is_active = ?", true)
	}

	stmt = stmt.Order("name asc")
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}

	if err := stmt.Find(&varieties).Error; err != nil {
		return nil, err
	}
	return varieties, nil
}

func (r *repo) Search(ctx context.Context, db *gorm.DB, kind domain.Kind, query string, limit int) ([]*domain.Variety, error) {
	var varieties []*domain.Variety
	stmt := db.WithContext(ctx).
		Table(kind.TableName()).
		Where("deleted_at IS NULL AND is_active = ?", true).
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(strings.TrimSpace(query))+"%").
		Order("name asc")
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}

	if err := stmt.Find(&varieties).Error; err != nil {
		return nil, err
	}
	return varieties, nil
}

func (r *repo) SoftDelete(ctx context.Context, db *gorm.DB, kind domain.Kind, id uuid.UUID) error {
	return db.WithContext(ctx).Exec(
		fmt.Sprintf(`UPDATE %s SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`, kind.TableName()),
		time.Now().UTC(),
		time.Now().UTC(),
		id,
	).Error
}
