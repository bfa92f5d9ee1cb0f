package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	auditdomain "github.com/orchardworks/presshouse/internal/audit/domain"
	"github.com/orchardworks/presshouse/internal/purchasing/domain"
	vendordomain "github.com/orchardworks/presshouse/internal/vendors/domain"
	"github.com/orchardworks/presshouse/pkg/db/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Repo       domain.Repository
	VendorRepo vendordomain.Repository
	AuditSvc   auditdomain.Service
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	repo       domain.Repository
	vendorRepo vendordomain.Repository
	auditSvc   auditdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("purchasing.service"),
		repo:       p.Repo,
		vendorRepo: p.VendorRepo,
		auditSvc:   p.AuditSvc,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePurchaseRequest) (domain.Purchase, error) {
	vendorID, err := uuid.Parse(strings.TrimSpace(req.VendorID))
	if err != nil || vendorID == uuid.Nil {
		return domain.Purchase{}, domain.ErrInvalidVendorID
	}

	purchaseType := domain.PurchaseType(strings.TrimSpace(req.PurchaseType))
	if !purchaseType.Valid() {
		return domain.Purchase{}, domain.ErrInvalidType
	}

	quantity, err := decimal.NewFromString(strings.TrimSpace(req.Quantity))
	if err != nil || !quantity.IsPositive() {
		return domain.Purchase{}, domain.ErrInvalidQuantity
	}
	unitCost, err := decimal.NewFromString(strings.TrimSpace(req.UnitCost))
	if err != nil || unitCost.IsNegative() {
		return domain.Purchase{}, domain.ErrInvalidUnitCost
	}

	purchasedAt := time.Now().UTC()
	if raw := strings.TrimSpace(req.PurchasedAt); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return domain.Purchase{}, domain.ErrInvalidDate
		}
		purchasedAt = parsed
	}

	now := time.Now().UTC()
	purchase := domain.Purchase{
		ID:           uuid.New(),
		VendorID:     vendorID,
		PurchaseType: purchaseType,
		Quantity:     quantity,
		Unit:         strings.TrimSpace(req.Unit),
		UnitCost:     unitCost,
		TotalCost:    quantity.Mul(unitCost),
		PurchasedAt:  purchasedAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if raw := strings.TrimSpace(req.VarietyID); raw != "" {
		varietyID, err := uuid.Parse(raw)
		if err != nil || varietyID == uuid.Nil {
			return domain.Purchase{}, domain.ErrInvalidID
		}
		purchase.VarietyID = &varietyID
	}
	if invoice := strings.TrimSpace(req.InvoiceNo); invoice != "" {
		purchase.InvoiceNo = &invoice
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		purchase.Notes = &notes
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		vendor, err := s.vendorRepo.FindByID(ctx, tx, vendorID)
		if err != nil {
			return err
		}
		if vendor == nil || !vendor.IsActive {
			return domain.ErrVendorNotFound
		}
		if err := s.repo.Insert(ctx, tx, &purchase); err != nil {
			return err
		}
		return s.auditSvc.Record(ctx, tx, auditdomain.Entry{
			TableName: purchase.TableName(),
			RecordID:  purchase.ID.String(),
			Operation: auditdomain.OperationCreate,
			NewData: map[string]any{
				"vendor_id":     vendorID.String(),
				"vendor_name":   vendor.Name,
				"purchase_type": string(purchaseType),
				"quantity":      purchase.Quantity.String(),
				"total_cost":    purchase.TotalCost.String(),
			},
			Reason: "purchase recorded via API",
		})
	})
	if err != nil {
		return domain.Purchase{}, err
	}
	return purchase, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetPurchaseRequest) (domain.Purchase, error) {
	id, err := uuid.Parse(strings.TrimSpace(req.ID))
	if err != nil || id == uuid.Nil {
		return domain.Purchase{}, domain.ErrInvalidID
	}

	purchase, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Purchase{}, err
	}
	if purchase == nil {
		return domain.Purchase{}, domain.ErrNotFound
	}
	return *purchase, nil
}

func (s *Service) List(ctx context.Context, req domain.ListPurchaseRequest) (domain.ListPurchaseResponse, error) {
	filter := domain.ListPurchaseFilter{}

	if raw := strings.TrimSpace(req.VendorID); raw != "" {
		vendorID, err := uuid.Parse(raw)
		if err != nil || vendorID == uuid.Nil {
			return domain.ListPurchaseResponse{}, domain.ErrInvalidVendorID
		}
		filter.VendorID = &vendorID
	}
	if raw := strings.TrimSpace(req.PurchaseType); raw != "" {
		purchaseType := domain.PurchaseType(raw)
		if !purchaseType.Valid() {
			return domain.ListPurchaseResponse{}, domain.ErrInvalidType
		}
		filter.PurchaseType = purchaseType
	}
	if raw := strings.TrimSpace(req.From); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return domain.ListPurchaseResponse{}, domain.ErrInvalidDate
		}
		filter.From = &from
	}
	if raw := strings.TrimSpace(req.To); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return domain.ListPurchaseResponse{}, domain.ErrInvalidDate
		}
		filter.To = &to
	}
	if raw := strings.TrimSpace(req.PageToken); raw != "" {
		decoded, err := pagination.DecodeCursor(raw)
		if err != nil {
			return domain.ListPurchaseResponse{}, domain.ErrInvalidPageToken
		}
		createdAt, err := time.Parse(time.RFC3339Nano, decoded.CreatedAt)
		if err != nil {
			return domain.ListPurchaseResponse{}, domain.ErrInvalidPageToken
		}
		filter.Cursor = &domain.PurchaseCursor{ID: decoded.ID, CreatedAt: createdAt}
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, filter, pageSize)
	if err != nil {
		return domain.ListPurchaseResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(purchase *domain.Purchase) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        purchase.ID.String(),
			CreatedAt: purchase.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	purchases := make([]domain.Purchase, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		purchases = append(purchases, *item)
	}

	resp := domain.ListPurchaseResponse{Purchases: purchases}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) Summary(ctx context.Context) (domain.SummaryResponse, error) {
	rows, err := s.repo.Summarize(ctx, s.db)
	if err != nil {
		return domain.SummaryResponse{}, err
	}
	return domain.SummaryResponse{Rows: rows}, nil
}
