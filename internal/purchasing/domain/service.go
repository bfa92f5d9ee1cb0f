package domain

import (
	"context"
	"errors"

	"github.com/orchardworks/presshouse/pkg/db/pagination"
)

type CreatePurchaseRequest struct {
	VendorID     string `json:"vendor_id"`
	PurchaseType string `json:"purchase_type"`
	VarietyID    string `json:"variety_id"`
	Quantity     string `json:"quantity"`
	Unit         string `json:"unit"`
	UnitCost     string `json:"unit_cost"`
	PurchasedAt  string `json:"purchased_at"`
	InvoiceNo    string `json:"invoice_no"`
	Notes        string `json:"notes"`
}

type GetPurchaseRequest struct {
	ID string
}

type ListPurchaseRequest struct {
	VendorID     string
	PurchaseType string
	From         string
	To           string
	PageSize     int
	PageToken    string
}

type ListPurchaseResponse struct {
	Purchases []Purchase          `json:"purchases"`
	PageInfo  pagination.PageInfo `json:"page_info"`
}

type SummaryResponse struct {
	Rows []SummaryRow `json:"rows"`
}

type Service interface {
	Create(ctx context.Context, req CreatePurchaseRequest) (Purchase, error)
	GetByID(ctx context.Context, req GetPurchaseRequest) (Purchase, error)
	List(ctx context.Context, req ListPurchaseRequest) (ListPurchaseResponse, error)
	Summary(ctx context.Context) (SummaryResponse, error)
}

var (
	ErrInvalidID        = errors.New("invalid_purchase_id")
	ErrInvalidVendorID  = errors.New("invalid_vendor_id")
	ErrInvalidType      = errors.New("invalid_purchase_type")
	ErrInvalidQuantity  = errors.New("invalid_quantity")
	ErrInvalidUnitCost  = errors.New("invalid_unit_cost")
	ErrInvalidDate      = errors.New("invalid_purchase_date")
	ErrInvalidPageToken = errors.New("invalid_page_token")
	ErrVendorNotFound   = errors.New("vendor_not_found")
	ErrNotFound         = errors.New("purchase_not_found")
)
