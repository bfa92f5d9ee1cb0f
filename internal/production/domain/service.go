package domain

import (
	"context"
	"errors"

	"github.com/orchardworks/presshouse/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

type CreateReportRequest struct {
	BatchCode       string `json:"batch_code"`
	Tank            string `json:"tank"`
	JuiceVarietyID  string `json:"juice_variety_id"`
	Volume          string `json:"volume"`
	StartingGravity string `json:"starting_gravity"`
	StartedAt       string `json:"started_at"`
	Notes           string `json:"notes"`
}

type GetReportRequest struct {
	ID string
}

type ListReportRequest struct {
	Status    string
	Tank      string
	PageSize  int
	PageToken string
}

type ListReportResponse struct {
	Reports  []ProductionReport  `json:"reports"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

// CompleteReportRequest closes out a batch. Status must be a terminal one
// (packaged or dumped).
type CompleteReportRequest struct {
	ID           string
	Status       string `json:"status"`
	FinalGravity string `json:"final_gravity"`
	Notes        string `json:"notes"`
}

type SummaryResponse struct {
	FermentingVolume decimal.Decimal  `json:"fermenting_volume"`
	StatusCounts     []StatusCountRow `json:"status_counts"`
}

type Service interface {
	Create(ctx context.Context, req CreateReportRequest) (ProductionReport, error)
	GetByID(ctx context.Context, req GetReportRequest) (ProductionReport, error)
	List(ctx context.Context, req ListReportRequest) (ListReportResponse, error)
	Complete(ctx context.Context, req CompleteReportRequest) (ProductionReport, error)
	Summary(ctx context.Context) (SummaryResponse, error)
}

var (
	ErrInvalidID        = errors.New("invalid_report_id")
	ErrInvalidBatchCode = errors.New("invalid_batch_code")
	ErrInvalidVolume    = errors.New("invalid_volume")
	ErrInvalidGravity   = errors.New("invalid_gravity")
	ErrInvalidStatus    = errors.New("invalid_status")
	ErrInvalidDate      = errors.New("invalid_date")
	ErrInvalidPageToken = errors.New("invalid_page_token")
	ErrBatchCodeExists  = errors.New("batch_code_exists")
	ErrAlreadyComplete  = errors.New("batch_already_complete")
	ErrNotFound         = errors.New("report_not_found")
)
