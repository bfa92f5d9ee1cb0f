package domain

import (
	"time"

	"github.com/google/uuid"
)

type Vendor struct {
	ID        uuid.UUID  `gorm:"primaryKey;type:uuid" json:"id"`
	Name      string     `gorm:"not null" json:"name"`
	Code      string     `gorm:"not null;uniqueIndex" json:"code"`
	Email     *string    `json:"email,omitempty"`
	Phone     *string    `json:"phone,omitempty"`
	IsActive  bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

func (Vendor) TableName() string { return "vendors" }

// Live reports whether the row is not soft-deleted. All read paths filter on
// this predicate at the query level; the method exists for in-memory checks.
func (v Vendor) Live() bool { return v.DeletedAt == nil }
