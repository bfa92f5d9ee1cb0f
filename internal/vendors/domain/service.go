package domain

import (
	"context"
	"errors"
	"time"

	"github.com/orchardworks/presshouse/pkg/db/pagination"
)

type CreateVendorRequest struct {
	Name  string
	Email string
	Phone string
}

type GetVendorRequest struct {
	ID string
}

type ListVendorRequest struct {
	pagination.Pagination
	Name       string
	ActiveOnly bool
}

type ListVendorFilter struct {
	Name       string
	ActiveOnly bool
	Cursor     *VendorCursor
}

type VendorCursor struct {
	ID        string
	CreatedAt time.Time
}

type ListVendorResponse struct {
	pagination.PageInfo
	Vendors []Vendor `json:"vendors"`
}

type Service interface {
	Create(ctx context.Context, req CreateVendorRequest) (Vendor, error)
	GetByID(ctx context.Context, req GetVendorRequest) (Vendor, error)
	List(ctx context.Context, req ListVendorRequest) (ListVendorResponse, error)
	Deactivate(ctx context.Context, req GetVendorRequest) (Vendor, error)
}

var (
	ErrInvalidName = errors.New("invalid_name")
	ErrInvalidID   = errors.New("invalid_id")
	ErrCodeExists  = errors.New("vendor_code_exists")
	ErrNotFound    = errors.New("not_found")
)
