package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	auditdomain "github.com/orchardworks/presshouse/internal/audit/domain"
	varietydomain "github.com/orchardworks/presshouse/internal/variety/domain"
	vendordomain "github.com/orchardworks/presshouse/internal/vendors/domain"
	"github.com/orchardworks/presshouse/internal/vendorvariety/domain"
	"github.com/orchardworks/presshouse/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	searchDefaultLimit = 10
	searchMaxLimit     = 50
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Repo        domain.Repository
	VendorRepo  vendordomain.Repository
	VarietyRepo varietydomain.Repository
	AuditSvc    auditdomain.Service
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	repo        domain.Repository
	vendorRepo  vendordomain.Repository
	varietyRepo varietydomain.Repository
	auditSvc    auditdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("vendorvariety.service"),
		repo:        p.Repo,
		vendorRepo:  p.VendorRepo,
		varietyRepo: p.VarietyRepo,
		auditSvc:    p.AuditSvc,
	}
}

// Attach associates one variety with one vendor, creating the variety when the
// caller supplied a name with no live match. Repeated calls for the same pair
// converge to a single live link and report AlreadyExists instead of erroring.
func (s *Service) Attach(ctx context.Context, req domain.AttachRequest) (domain.AttachResponse, error) {
	if !req.Kind.Valid() {
		return domain.AttachResponse{}, varietydomain.ErrInvalidKind
	}
	vendorID, err := uuid.Parse(strings.TrimSpace(req.VendorID))
	if err != nil || vendorID == uuid.Nil {
		return domain.AttachResponse{}, domain.ErrInvalidVendorID
	}
	nameOrID := strings.TrimSpace(req.NameOrID)
	if nameOrID == "" {
		return domain.AttachResponse{}, domain.ErrInvalidName
	}

	var resp domain.AttachResponse
	err = s.db.Transaction(func(tx *gorm.DB) error {
		vendor, err := s.vendorRepo.FindByID(ctx, tx, vendorID)
		if err != nil {
			return err
		}
		if vendor == nil || !vendor.IsActive {
			return domain.ErrVendorNotFound
		}

		variety, created, err := s.resolveVariety(ctx, tx, req.Kind, nameOrID, vendor.Name)
		if err != nil {
			return err
		}

		existing, err := s.repo.FindLive(ctx, tx, req.Kind, vendorID, variety.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			resp = domain.AttachResponse{
				VendorID:      vendorID,
				VarietyID:     variety.ID,
				VarietyName:   variety.Name,
				AlreadyExists: true,
				Created:       created,
				Message:       fmt.Sprintf("%q is already linked to vendor %q", variety.Name, vendor.Name),
			}
			return nil
		}

		link := domain.VendorVarietyLink{
			ID:        uuid.New(),
			VendorID:  vendorID,
			VarietyID: variety.ID,
			CreatedAt: time.Now().UTC(),
		}
		if notes := strings.TrimSpace(req.Notes); notes != "" {
			link.Notes = &notes
		}

		if err := s.repo.Insert(ctx, tx, req.Kind, &link); err != nil {
			// A concurrent attach that won the race trips the partial unique
			// index on (vendor_id, variety_id) WHERE deleted_at IS NULL; that
			// is the idempotent success branch, not a failure.
			if db.IsDuplicateKeyErr(err) {
				resp = domain.AttachResponse{
					VendorID:      vendorID,
					VarietyID:     variety.ID,
					VarietyName:   variety.Name,
					AlreadyExists: true,
					Created:       created,
					Message:       fmt.Sprintf("%q is already linked to vendor %q", variety.Name, vendor.Name),
				}
				return nil
			}
			return err
		}

		if err := s.auditSvc.Record(ctx, tx, auditdomain.Entry{
			TableName: req.Kind.LinkTableName(),
			RecordID:  link.ID.String(),
			Operation: auditdomain.OperationCreate,
			NewData: map[string]any{
				"vendor_id":    vendorID.String(),
				"vendor_name":  vendor.Name,
				"variety_id":   variety.ID.String(),
				"variety_name": variety.Name,
			},
			Reason: "link created via API",
		}); err != nil {
			return err
		}

		resp = domain.AttachResponse{
			VendorID:    vendorID,
			VarietyID:   variety.ID,
			VarietyName: variety.Name,
			Created:     created,
			Message:     fmt.Sprintf("%q linked to vendor %q", variety.Name, vendor.Name),
		}
		return nil
	})
	if err != nil {
		return domain.AttachResponse{}, err
	}
	return resp, nil
}

// resolveVariety interprets nameOrID. A UUID-shaped value is always an id
// lookup, even when a variety carries that exact text as its name; see the
// disambiguation note in DESIGN.md. A name with no live case-insensitive match
// is auto-created.
func (s *Service) resolveVariety(ctx context.Context, tx *gorm.DB, kind varietydomain.Kind, nameOrID, vendorName string) (*varietydomain.Variety, bool, error) {
	if id, err := uuid.Parse(nameOrID); err == nil && id != uuid.Nil {
		variety, err := s.varietyRepo.FindByID(ctx, tx, kind, id)
		if err != nil {
			return nil, false, err
		}
		if variety == nil {
			return nil, false, domain.ErrVarietyNotFound
		}
		return variety, false, nil
	}

	variety, err := s.varietyRepo.FindByName(ctx, tx, kind, nameOrID)
	if err != nil {
		return nil, false, err
	}
	if variety != nil {
		return variety, false, nil
	}

	now := time.Now().UTC()
	created := varietydomain.Variety{
		ID:        uuid.New(),
		Name:      nameOrID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.varietyRepo.Insert(ctx, tx, kind, &created); err != nil {
		// A concurrent auto-create for the same name trips the unique
		// LOWER(name) index; resolve to the row that won.
		if db.IsDuplicateKeyErr(err) {
			winner, findErr := s.varietyRepo.FindByName(ctx, tx, kind, nameOrID)
			if findErr != nil {
				return nil, false, findErr
			}
			if winner != nil {
				return winner, false, nil
			}
		}
		return nil, false, err
	}
	if err := s.auditSvc.Record(ctx, tx, auditdomain.Entry{
		TableName: kind.TableName(),
		RecordID:  created.ID.String(),
		Operation: auditdomain.OperationCreate,
		NewData:   map[string]any{"name": created.Name, "vendor_name": vendorName},
		Reason:    "auto-created when linking to vendor",
	}); err != nil {
		return nil, false, err
	}
	return &created, true, nil
}

// Detach soft-deletes the live link for (vendor, variety). The old row is
// never revived by a later attach.
func (s *Service) Detach(ctx context.Context, req domain.DetachRequest) (domain.DetachResponse, error) {
	if !req.Kind.Valid() {
		return domain.DetachResponse{}, varietydomain.ErrInvalidKind
	}
	vendorID, err := uuid.Parse(strings.TrimSpace(req.VendorID))
	if err != nil || vendorID == uuid.Nil {
		return domain.DetachResponse{}, domain.ErrInvalidVendorID
	}
	varietyID, err := uuid.Parse(strings.TrimSpace(req.VarietyID))
	if err != nil || varietyID == uuid.Nil {
		return domain.DetachResponse{}, domain.ErrInvalidVarietyID
	}

	var resp domain.DetachResponse
	err = s.db.Transaction(func(tx *gorm.DB) error {
		detail, err := s.repo.FindLiveDetail(ctx, tx, req.Kind, vendorID, varietyID)
		if err != nil {
			return err
		}
		if detail == nil {
			return domain.ErrLinkNotFound
		}

		if err := s.repo.SoftDelete(ctx, tx, req.Kind, detail.LinkID); err != nil {
			return err
		}

		if err := s.auditSvc.Record(ctx, tx, auditdomain.Entry{
			TableName: req.Kind.LinkTableName(),
			RecordID:  detail.LinkID.String(),
			Operation: auditdomain.OperationDelete,
			OldData: map[string]any{
				"vendor_id":    detail.VendorID.String(),
				"vendor_name":  detail.VendorName,
				"variety_id":   detail.VarietyID.String(),
				"variety_name": detail.VarietyName,
			},
			Reason: "link removed via API",
		}); err != nil {
			return err
		}

		resp = domain.DetachResponse{
			Message: fmt.Sprintf("%q unlinked from vendor %q", detail.VarietyName, detail.VendorName),
		}
		return nil
	})
	if err != nil {
		return domain.DetachResponse{}, err
	}
	return resp, nil
}

// ListForVendor merges the vendor's live links across all four kinds, sorted
// by variety name. The result is bounded by the vendor's catalog, so there is
// no pagination.
func (s *Service) ListForVendor(ctx context.Context, req domain.ListForVendorRequest) (domain.ListForVendorResponse, error) {
	vendorID, err := uuid.Parse(strings.TrimSpace(req.VendorID))
	if err != nil || vendorID == uuid.Nil {
		return domain.ListForVendorResponse{}, domain.ErrInvalidVendorID
	}

	vendor, err := s.vendorRepo.FindByID(ctx, s.db, vendorID)
	if err != nil {
		return domain.ListForVendorResponse{}, err
	}
	if vendor == nil {
		return domain.ListForVendorResponse{}, domain.ErrVendorNotFound
	}

	merged := make([]domain.LinkedVariety, 0)
	for _, kind := range varietydomain.Kinds() {
		items, err := s.repo.ListForVendor(ctx, s.db, kind, vendorID)
		if err != nil {
			return domain.ListForVendorResponse{}, err
		}
		for _, item := range items {
			if item == nil {
				continue
			}
			merged = append(merged, *item)
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		return strings.ToLower(merged[i].Name) < strings.ToLower(merged[j].Name)
	})

	return domain.ListForVendorResponse{Varieties: merged}, nil
}

// Search runs the autocomplete lookup over live, active base-fruit variety
// names.
func (s *Service) Search(ctx context.Context, req domain.SearchRequest) (domain.SearchResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return domain.SearchResponse{}, domain.ErrInvalidQuery
	}

	limit := req.Limit
	if limit <= 0 {
		limit = searchDefaultLimit
	}
	if limit > searchMaxLimit {
		limit = searchMaxLimit
	}

	items, err := s.varietyRepo.Search(ctx, s.db, varietydomain.KindBaseFruit, query, limit)
	if err != nil {
		return domain.SearchResponse{}, err
	}

	matches := make([]domain.SearchMatch, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		matches = append(matches, domain.SearchMatch{ID: item.ID, Name: item.Name})
	}

	return domain.SearchResponse{
		Query:     query,
		Count:     len(matches),
		Varieties: matches,
	}, nil
}
