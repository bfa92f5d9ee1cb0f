package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	auditdomain "github.com/orchardworks/presshouse/internal/audit/domain"
	"github.com/orchardworks/presshouse/internal/vendors/domain"
	"github.com/orchardworks/presshouse/pkg/db/pagination"
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
		log:      p.Log.Named("vendor.service"),
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateVendorRequest) (domain.Vendor, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Vendor{}, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	vendor := domain.Vendor{
		ID:        uuid.New(),
		Name:      name,
		Code:      slug.Make(name),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		vendor.Email = &email
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		vendor.Phone = &phone
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByCode(ctx, tx, vendor.Code)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrCodeExists
		}
		if err := s.repo.Insert(ctx, tx, &vendor); err != nil {
			return err
		}
		return s.auditSvc.Record(ctx, tx, auditdomain.Entry{
			TableName: vendor.TableName(),
			RecordID:  vendor.ID.String(),
			Operation: auditdomain.OperationCreate,
			NewData:   map[string]any{"name": vendor.Name, "code": vendor.Code},
			Reason:    "vendor created via API",
		})
	})
	if err != nil {
		return domain.Vendor{}, err
	}

	return vendor, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetVendorRequest) (domain.Vendor, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Vendor{}, err
	}

	vendor, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Vendor{}, err
	}
	if vendor == nil {
		return domain.Vendor{}, domain.ErrNotFound
	}
	return *vendor, nil
}

func (s *Service) List(ctx context.Context, req domain.ListVendorRequest) (domain.ListVendorResponse, error) {
	var cursor *domain.VendorCursor
	if strings.TrimSpace(req.PageToken) != "" {
		decoded, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return domain.ListVendorResponse{}, domain.ErrInvalidID
		}
		createdAt, err := time.Parse(time.RFC3339Nano, decoded.CreatedAt)
		if err != nil {
			return domain.ListVendorResponse{}, domain.ErrInvalidID
		}
		cursor = &domain.VendorCursor{ID: decoded.ID, CreatedAt: createdAt}
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, domain.ListVendorFilter{
		Name:       strings.TrimSpace(req.Name),
		ActiveOnly: req.ActiveOnly,
		Cursor:     cursor,
	}, pageSize)
	if err != nil {
		return domain.ListVendorResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(vendor *domain.Vendor) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        vendor.ID.String(),
			CreatedAt: vendor.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	vendors := make([]domain.Vendor, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		vendors = append(vendors, *item)
	}

	resp := domain.ListVendorResponse{Vendors: vendors}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) Deactivate(ctx context.Context, req domain.GetVendorRequest) (domain.Vendor, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Vendor{}, err
	}

	var deactivated domain.Vendor
	err = s.db.Transaction(func(tx *gorm.DB) error {
		vendor, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if vendor == nil {
			return domain.ErrNotFound
		}
		if err := s.repo.SetActive(ctx, tx, id, false); err != nil {
			return err
		}
		vendor.IsActive = false
		deactivated = *vendor
		return s.auditSvc.Record(ctx, tx, auditdomain.Entry{
			TableName: vendor.TableName(),
			RecordID:  vendor.ID.String(),
			Operation: auditdomain.OperationDelete,
			OldData:   map[string]any{"name": vendor.Name, "code": vendor.Code, "is_active": true},
			Reason:    "vendor deactivated via API",
		})
	})
	if err != nil {
		return domain.Vendor{}, err
	}
	return deactivated, nil
}

func parseID(value string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, domain.ErrInvalidID
	}
	return id, nil
}
