package domain

import (
	"context"
	"errors"
)

type CreateVarietyRequest struct {
	Kind     Kind
	Name     string
	Category string
}

type ListVarietyRequest struct {
	Kind       Kind
	Name       string
	ActiveOnly bool
	Limit      int
}

type ListVarietyResponse struct {
	Varieties []Variety `json:"varieties"`
}

type ArchiveVarietyRequest struct {
	Kind Kind
	ID   string
}

type Service interface {
	Create(ctx context.Context, req CreateVarietyRequest) (Variety, error)
	List(ctx context.Context, req ListVarietyRequest) (ListVarietyResponse, error)
	Archive(ctx context.Context, req ArchiveVarietyRequest) (Variety, error)
}

var (
	ErrInvalidKind        = errors.New("invalid_variety_kind")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidID          = errors.New("invalid_id")
	ErrCategoryNotAllowed = errors.New("category_not_allowed")
	ErrNameExists         = errors.New("variety_name_exists")
	ErrNotFound           = errors.New("not_found")
)
