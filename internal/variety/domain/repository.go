package domain

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListVarietyFilter struct {
	Name       string
	ActiveOnly bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, kind Kind, variety *Variety) error
	// FindByID returns the live variety with the given id, or nil when absent.
	FindByID(ctx context.Context, db *gorm.DB, kind Kind, id uuid.UUID) (*Variety, error)
	// FindByName matches live rows by exact name, case-insensitively.
	FindByName(ctx context.Context, db *gorm.DB, kind Kind, name string) (*Variety, error)
	List(ctx context.Context, db *gorm.DB, kind Kind, filter ListVarietyFilter, limit int) ([]*Variety, error)
	// Search matches live, active rows whose name contains the query
	// (case-insensitive), ordered by name ascending.
	Search(ctx context.Context, db *gorm.DB, kind Kind, query string, limit int) ([]*Variety, error)
	SoftDelete(ctx context.Context, db *gorm.DB, kind Kind, id uuid.UUID) error
}
