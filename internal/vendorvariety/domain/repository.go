package domain

import (
	"context"

	"github.com/google/uuid"
	varietydomain "github.com/orchardworks/presshouse/internal/variety/domain"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, kind varietydomain.Kind, link *VendorVarietyLink) error
	// FindLive returns the live link for (vendor, variety), or nil when absent.
	FindLive(ctx context.Context, db *gorm.DB, kind varietydomain.Kind, vendorID, varietyID uuid.UUID) (*VendorVarietyLink, error)
	// FindLiveDetail resolves the live link together with vendor and variety
	// names, or nil when absent.
	FindLiveDetail(ctx context.Context, db *gorm.DB, kind varietydomain.Kind, vendorID, varietyID uuid.UUID) (*LinkDetail, error)
	SoftDelete(ctx context.Context, db *gorm.DB, kind varietydomain.Kind, linkID uuid.UUID) error
	// ListForVendor returns every live link of the kind for the vendor, joined
	// with the variety row.
	ListForVendor(ctx context.Context, db *gorm.DB, kind varietydomain.Kind, vendorID uuid.UUID) ([]*LinkedVariety, error)
}
