package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	varietydomain "github.com/orchardworks/presshouse/internal/variety/domain"
)

type AttachRequest struct {
	VendorID string
	Kind     varietydomain.Kind
	// NameOrID is either a variety id or a free-text variety name. A value
	// that parses as a UUID is always treated as an id lookup, never as a
	// name, even if a variety with that exact name exists.
	NameOrID string
	Notes    string
}

type AttachResponse struct {
	VendorID      uuid.UUID `json:"vendor_id"`
	VarietyID     uuid.UUID `json:"variety_id"`
	VarietyName   string    `json:"variety_name"`
	AlreadyExists bool      `json:"already_exists"`
	Created       bool      `json:"variety_created"`
	Message       string    `json:"message"`
}

type DetachRequest struct {
	VendorID  string
	Kind      varietydomain.Kind
	VarietyID string
}

type DetachResponse struct {
	Message string `json:"message"`
}

type ListForVendorRequest struct {
	VendorID string
}

type ListForVendorResponse struct {
	Varieties []LinkedVariety `json:"varieties"`
}

type SearchRequest struct {
	Query string
	Limit int
}

type SearchMatch struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type SearchResponse struct {
	Query     string        `json:"query"`
	Count     int           `json:"count"`
	Varieties []SearchMatch `json:"varieties"`
}

type Service interface {
	Attach(ctx context.Context, req AttachRequest) (AttachResponse, error)
	Detach(ctx context.Context, req DetachRequest) (DetachResponse, error)
	ListForVendor(ctx context.Context, req ListForVendorRequest) (ListForVendorResponse, error)
	Search(ctx context.Context, req SearchRequest) (SearchResponse, error)
}

var (
	ErrInvalidVendorID  = errors.New("invalid_vendor_id")
	ErrInvalidVarietyID = errors.New("invalid_variety_id")
	ErrInvalidName      = errors.New("invalid_variety_name")
	ErrInvalidQuery     = errors.New("invalid_query")
	ErrVendorNotFound   = errors.New("vendor_not_found")
	ErrVarietyNotFound  = errors.New("variety_not_found")
	ErrLinkNotFound     = errors.New("link_not_found")
)
