package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InventoryItem struct {
	ID                uuid.UUID       `gorm:"column:id" json:"id"`
	Name              string          `gorm:"column:name" json:"name"`
	ItemType          string          `gorm:"column:item_type" json:"item_type"`
	VarietyID         *uuid.UUID      `gorm:"column:variety_id" json:"variety_id,omitempty"`
	LotCode           *string         `gorm:"column:lot_code" json:"lot_code,omitempty"`
	TotalQuantity     decimal.Decimal `gorm:"column:total_quantity" json:"total_quantity"`
	AllocatedQuantity decimal.Decimal `gorm:"column:allocated_quantity" json:"allocated_quantity"`
	Unit              string          `gorm:"column:unit" json:"unit"`
	Location          *string         `gorm:"column:location" json:"location,omitempty"`
	CreatedAt         time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt         *time.Time      `gorm:"column:deleted_at" json:"-"`
}

func (InventoryItem) TableName() string { return "inventory_items" }

func (i InventoryItem) Live() bool { return i.DeletedAt == nil }

// Available is the unallocated remainder, never persisted.
func (i InventoryItem) Available() decimal.Decimal {
	return i.TotalQuantity.Sub(i.AllocatedQuantity)
}

// ItemView is an InventoryItem annotated with the derived fields returned to
// readers.
type ItemView struct {
	InventoryItem
	Available      decimal.Decimal `json:"available"`
	BelowThreshold bool            `json:"below_threshold"`
}

type ListInventoryFilter struct {
	ItemType string
	Name     string
}

// UnitSummaryRow totals live stock for one unit of measure.
type UnitSummaryRow struct {
	Unit           string          `gorm:"column:unit" json:"unit"`
	Count          int64           `gorm:"column:count" json:"count"`
	TotalQuantity  decimal.Decimal `gorm:"column:total_quantity" json:"total_quantity"`
	TotalAllocated decimal.Decimal `gorm:"column:total_allocated" json:"total_allocated"`
}
