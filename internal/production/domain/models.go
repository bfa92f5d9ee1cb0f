package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusFermenting   Status = "fermenting"
	StatusConditioning Status = "conditioning"
	StatusPackaged     Status = "packaged"
	StatusDumped       Status = "dumped"
)

func (s Status) Valid() bool {
	switch s {
	case StatusFermenting, StatusConditioning, StatusPackaged, StatusDumped:
		return true
	}
	return false
}

// Terminal reports whether a batch in this status can no longer change.
func (s Status) Terminal() bool {
	return s == StatusPackaged || s == StatusDumped
}

type ProductionReport struct {
	ID              uuid.UUID        `gorm:"column:id" json:"id"`
	BatchCode       string           `gorm:"column:batch_code" json:"batch_code"`
	Tank            string           `gorm:"column:tank" json:"tank"`
	JuiceVarietyID  *uuid.UUID       `gorm:"column:juice_variety_id" json:"juice_variety_id,omitempty"`
	Volume          decimal.Decimal  `gorm:"column:volume" json:"volume"`
	StartingGravity *decimal.Decimal `gorm:"column:starting_gravity" json:"starting_gravity,omitempty"`
	FinalGravity    *decimal.Decimal `gorm:"column:final_gravity" json:"final_gravity,omitempty"`
	Status          Status           `gorm:"column:status" json:"status"`
	StartedAt       time.Time        `gorm:"column:started_at" json:"started_at"`
	CompletedAt     *time.Time       `gorm:"column:completed_at" json:"completed_at,omitempty"`
	Notes           *string          `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt       time.Time        `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt       *time.Time       `gorm:"column:deleted_at" json:"-"`
}

func (ProductionReport) TableName() string { return "production_reports" }

func (r ProductionReport) Live() bool { return r.DeletedAt == nil }

type ReportCursor struct {
	ID        string
	CreatedAt time.Time
}

type ListReportFilter struct {
	Status Status
	Tank   string
	Cursor *ReportCursor
}

type StatusCountRow struct {
	Status Status `gorm:"column:status" json:"status"`
	Count  int64  `gorm:"column:count" json:"count"`
}
