package domain

import (
	"time"

	"github.com/google/uuid"
	varietydomain "github.com/orchardworks/presshouse/internal/variety/domain"
)

// VendorVarietyLink is one row in one of the four per-kind link tables:
// "this vendor supplies this variety". At most one live link may exist for a
// (vendor, variety) pair; re-attaching after a detach creates a new row.
type VendorVarietyLink struct {
	ID        uuid.UUID  `gorm:"primaryKey;type:uuid" json:"id"`
	VendorID  uuid.UUID  `gorm:"not null;type:uuid" json:"vendor_id"`
	VarietyID uuid.UUID  `gorm:"not null;type:uuid" json:"variety_id"`
	Notes     *string    `json:"notes,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

func (l VendorVarietyLink) Live() bool { return l.DeletedAt == nil }

// LinkDetail joins a live link with the vendor and variety display names,
// used for detach audit snapshots.
type LinkDetail struct {
	LinkID      uuid.UUID `gorm:"column:link_id"`
	VendorID    uuid.UUID `gorm:"column:vendor_id"`
	VendorName  string    `gorm:"column:vendor_name"`
	VarietyID   uuid.UUID `gorm:"column:variety_id"`
	VarietyName string    `gorm:"column:variety_name"`
}

// LinkedVariety is one entry of a vendor's merged variety listing, annotated
// with the kind discriminator.
type LinkedVariety struct {
	Kind      varietydomain.Kind `gorm:"-" json:"kind"`
	VarietyID uuid.UUID          `gorm:"column:variety_id" json:"variety_id"`
	Name      string             `gorm:"column:name" json:"name"`
	Category  *string            `gorm:"column:category" json:"category,omitempty"`
	IsActive  bool               `gorm:"column:is_active" json:"is_active"`
	Notes     *string            `gorm:"column:notes" json:"notes,omitempty"`
	LinkedAt  time.Time          `gorm:"column:linked_at" json:"linked_at"`
}
