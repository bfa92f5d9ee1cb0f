package domain

import (
	"context"
	"errors"
)

type CreateItemRequest struct {
	Name          string `json:"name"`
	ItemType      string `json:"item_type"`
	VarietyID     string `json:"variety_id"`
	LotCode       string `json:"lot_code"`
	TotalQuantity string `json:"total_quantity"`
	Unit          string `json:"unit"`
	Location      string `json:"location"`
}

type GetItemRequest struct {
	ID string
}

type ListItemRequest struct {
	ItemType string
	Name     string
}

type ListItemResponse struct {
	Items []ItemView `json:"items"`
}

// AdjustRequest moves allocated quantity by Delta. A positive delta allocates
// stock, a negative one releases it.
type AdjustRequest struct {
	ID     string
	Delta  string `json:"delta"`
	Reason string `json:"reason"`
}

type SummaryResponse struct {
	Rows []UnitSummaryRow `json:"rows"`
}

type Service interface {
	Create(ctx context.Context, req CreateItemRequest) (ItemView, error)
	GetByID(ctx context.Context, req GetItemRequest) (ItemView, error)
	List(ctx context.Context, req ListItemRequest) (ListItemResponse, error)
	Adjust(ctx context.Context, req AdjustRequest) (ItemView, error)
	Summary(ctx context.Context) (SummaryResponse, error)
}

var (
	ErrInvalidID       = errors.New("invalid_inventory_id")
	ErrInvalidName     = errors.New("invalid_inventory_name")
	ErrInvalidQuantity = errors.New("invalid_quantity")
	ErrInvalidDelta    = errors.New("invalid_delta")
	ErrAllocationRange = errors.New("allocation_out_of_range")
	ErrNotFound        = errors.New("inventory_item_not_found")
)
