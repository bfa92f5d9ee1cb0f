package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	auditdomain "github.com/orchardworks/presshouse/internal/audit/domain"
	"github.com/orchardworks/presshouse/internal/variety/domain"
	"github.com/orchardworks/presshouse/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Repo     domain.Repository
	AuditSvc auditdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	repo     domain.Repository
	auditSvc auditdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("variety.service"),
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateVarietyRequest) (domain.Variety, error) {
	if !req.Kind.Valid() {
		return domain.Variety{}, domain.ErrInvalidKind
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Variety{}, domain.ErrInvalidName
	}
	category := strings.TrimSpace(req.Category)
	if category != "" && !req.Kind.HasCategory() {
		return domain.Variety{}, domain.ErrCategoryNotAllowed
	}

	now := time.Now().UTC()
	variety := domain.Variety{
		ID:        uuid.New(),
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if category != "" {
		variety.Category = &category
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByName(ctx, tx, req.Kind, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrNameExists
		}
		if err := s.repo.Insert(ctx, tx, req.Kind, &variety); err != nil {
			// A concurrent create for the same name trips the unique
			// LOWER(name) index that backs the precheck above.
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrNameExists
			}
			return err
		}
		return s.auditSvc.Record(ctx, tx, auditdomain.Entry{
			TableName: req.Kind.TableName(),
			RecordID:  variety.ID.String(),
			Operation: auditdomain.OperationCreate,
			NewData:   map[string]any{"name": variety.Name},
			Reason:    "variety created via API",
		})
	})
	if err != nil {
		return domain.Variety{}, err
	}
	return variety, nil
}

func (s *Service) List(ctx context.Context, req domain.ListVarietyRequest) (domain.ListVarietyResponse, error) {
	if !req.Kind.Valid() {
		return domain.ListVarietyResponse{}, domain.ErrInvalidKind
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 250 {
		limit = 250
	}

	items, err := s.repo.List(ctx, s.db, req.Kind, domain.ListVarietyFilter{
		Name:       strings.TrimSpace(req.Name),
		ActiveOnly: req.ActiveOnly,
	}, limit)
	if err != nil {
		return domain.ListVarietyResponse{}, err
	}

	varieties := make([]domain.Variety, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		varieties = append(varieties, *item)
	}
	return domain.ListVarietyResponse{Varieties: varieties}, nil
}

func (s *Service) Archive(ctx context.Context, req domain.ArchiveVarietyRequest) (domain.Variety, error) {
	if !req.Kind.Valid() {
		return domain.Variety{}, domain.ErrInvalidKind
	}
	id, err := uuid.Parse(strings.TrimSpace(req.ID))
	if err != nil || id == uuid.Nil {
		return domain.Variety{}, domain.ErrInvalidID
	}

	var archived domain.Variety
	err = s.db.Transaction(func(tx *gorm.DB) error {
		variety, err := s.repo.FindByID(ctx, tx, req.Kind, id)
		if err != nil {
			return err
		}
		if variety == nil {
			return domain.ErrNotFound
		}
		if err := s.repo.SoftDelete(ctx, tx, req.Kind, id); err != nil {
			return err
		}
		archived = *variety
		return s.auditSvc.Record(ctx, tx, auditdomain.Entry{
			TableName: req.Kind.TableName(),
			RecordID:  variety.ID.String(),
			Operation: auditdomain.OperationDelete,
			OldData:   map[string]any{"name": variety.Name, "is_active": variety.IsActive},
			Reason:    "variety archived via API",
		})
	})
	if err != nil {
		return domain.Variety{}, err
	}
	return archived, nil
}
