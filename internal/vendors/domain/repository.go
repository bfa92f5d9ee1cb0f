package domain

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, vendor *Vendor) error
	// FindByID returns the live vendor with the given id, or nil when absent.
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*Vendor, error)
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Vendor, error)
	List(ctx context.Context, db *gorm.DB, filter ListVendorFilter, limit int) ([]*Vendor, error)
	SetActive(ctx context.Context, db *gorm.DB, id uuid.UUID, active bool) error
}
