package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PurchaseType string

const (
	PurchaseTypeBaseFruit PurchaseType = "base_fruit"
	PurchaseTypeJuice     PurchaseType = "juice"
	PurchaseTypePackaging PurchaseType = "packaging"
)

func (t PurchaseType) Valid() bool {
	switch t {
	case PurchaseTypeBaseFruit, PurchaseTypeJuice, PurchaseTypePackaging:
		return true
	}
	return false
}

type Purchase struct {
	ID           uuid.UUID       `gorm:"column:id" json:"id"`
	VendorID     uuid.UUID       `gorm:"column:vendor_id" json:"vendor_id"`
	PurchaseType PurchaseType    `gorm:"column:purchase_type" json:"purchase_type"`
	VarietyID    *uuid.UUID      `gorm:"column:variety_id" json:"variety_id,omitempty"`
	Quantity     decimal.Decimal `gorm:"column:quantity" json:"quantity"`
	Unit         string          `gorm:"column:unit" json:"unit"`
	UnitCost     decimal.Decimal `gorm:"column:unit_cost" json:"unit_cost"`
	TotalCost    decimal.Decimal `gorm:"column:total_cost" json:"total_cost"`
	PurchasedAt  time.Time       `gorm:"column:purchased_at" json:"purchased_at"`
	InvoiceNo    *string         `gorm:"column:invoice_no" json:"invoice_no,omitempty"`
	Notes        *string         `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt    time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt    *time.Time      `gorm:"column:deleted_at" json:"-"`
}

func (Purchase) TableName() string { return "purchases" }

func (p Purchase) Live() bool { return p.DeletedAt == nil }

type PurchaseCursor struct {
	ID        string
	CreatedAt time.Time
}

type ListPurchaseFilter struct {
	VendorID     *uuid.UUID
	PurchaseType PurchaseType
	From         *time.Time
	To           *time.Time
	Cursor       *PurchaseCursor
}

// SummaryRow aggregates the live purchases of one type.
type SummaryRow struct {
	PurchaseType  PurchaseType    `gorm:"column:purchase_type" json:"purchase_type"`
	Count         int64           `gorm:"column:count" json:"count"`
	TotalQuantity decimal.Decimal `gorm:"column:total_quantity" json:"total_quantity"`
	TotalCost     decimal.Decimal `gorm:"column:total_cost" json:"total_cost"`
}
