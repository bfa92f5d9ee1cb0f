package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	auditdomain "github.com/orchardworks/presshouse/internal/audit/domain"
	"github.com/orchardworks/presshouse/internal/config"
	"github.com/orchardworks/presshouse/internal/inventory/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Repo     domain.Repository
	Stock    *config.StockConfigHolder
	AuditSvc auditdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	repo     domain.Repository
	stock    *config.StockConfigHolder
	auditSvc auditdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("inventory.service"),
		repo:     p.Repo,
		stock:    p.Stock,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateItemRequest) (domain.ItemView, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.ItemView{}, domain.ErrInvalidName
	}
	total, err := decimal.NewFromString(strings.TrimSpace(req.TotalQuantity))
	if err != nil || total.IsNegative() {
		return domain.ItemView{}, domain.ErrInvalidQuantity
	}

	now := time.Now().UTC()
	item := domain.InventoryItem{
		ID:                uuid.New(),
		Name:              name,
		ItemType:          strings.TrimSpace(req.ItemType),
		TotalQuantity:     total,
		AllocatedQuantity: decimal.Zero,
		Unit:              strings.TrimSpace(req.Unit),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if raw := strings.TrimSpace(req.VarietyID); raw != "" {
		varietyID, err := uuid.Parse(raw)
		if err != nil || varietyID == uuid.Nil {
			return domain.ItemView{}, domain.ErrInvalidID
		}
		item.VarietyID = &varietyID
	}
	if lot := strings.TrimSpace(req.LotCode); lot != "" {
		item.LotCode = &lot
	}
	if location := strings.TrimSpace(req.Location); location != "" {
		item.Location = &location
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &item); err != nil {
			return err
		}
		return s.auditSvc.Record(ctx, tx, auditdomain.Entry{
			TableName: item.TableName(),
			RecordID:  item.ID.String(),
			Operation: auditdomain.OperationCreate,
			NewData: map[string]any{
				"name":           item.Name,
				"item_type":      item.ItemType,
				"total_quantity": item.TotalQuantity.String(),
				"unit":           item.Unit,
			},
			Reason: "inventory item created via API",
		})
	})
	if err != nil {
		return domain.ItemView{}, err
	}
	return s.view(item), nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetItemRequest) (domain.ItemView, error) {
	id, err := uuid.Parse(strings.TrimSpace(req.ID))
	if err != nil || id == uuid.Nil {
		return domain.ItemView{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.ItemView{}, err
	}
	if item == nil {
		return domain.ItemView{}, domain.ErrNotFound
	}
	return s.view(*item), nil
}

func (s *Service) List(ctx context.Context, req domain.ListItemRequest) (domain.ListItemResponse, error) {
	items, err := s.repo.List(ctx, s.db, domain.ListInventoryFilter{
		ItemType: req.ItemType,
		Name:     req.Name,
	})
	if err != nil {
		return domain.ListItemResponse{}, err
	}

	views := make([]domain.ItemView, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		views = append(views, s.view(*item))
	}
	return domain.ListItemResponse{Items: views}, nil
}

// Adjust moves allocated quantity by the signed delta. The resulting
// allocation must stay within [0, total].
func (s *Service) Adjust(ctx context.Context, req domain.AdjustRequest) (domain.ItemView, error) {
	id, err := uuid.Parse(strings.TrimSpace(req.ID))
	if err != nil || id == uuid.Nil {
		return domain.ItemView{}, domain.ErrInvalidID
	}
	delta, err := decimal.NewFromString(strings.TrimSpace(req.Delta))
	if err != nil || delta.IsZero() {
		return domain.ItemView{}, domain.ErrInvalidDelta
	}

	var adjusted domain.InventoryItem
	err = s.db.Transaction(func(tx *gorm.DB) error {
		item, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}

		allocated := item.AllocatedQuantity.Add(delta)
		if allocated.IsNegative() || allocated.GreaterThan(item.TotalQuantity) {
			return domain.ErrAllocationRange
		}

		if err := s.repo.SetAllocated(ctx, tx, id, allocated); err != nil {
			return err
		}

		before := item.AllocatedQuantity
		item.AllocatedQuantity = allocated
		adjusted = *item

		reason := strings.TrimSpace(req.Reason)
		if reason == "" {
			reason = "inventory adjusted via API"
		}
		return s.auditSvc.Record(ctx, tx, auditdomain.Entry{
			TableName: item.TableName(),
			RecordID:  item.ID.String(),
			Operation: auditdomain.OperationCreate,
			OldData:   map[string]any{"allocated_quantity": before.String()},
			NewData:   map[string]any{"allocated_quantity": allocated.String(), "delta": delta.String()},
			Reason:    reason,
		})
	})
	if err != nil {
		return domain.ItemView{}, err
	}
	return s.view(adjusted), nil
}

func (s *Service) Summary(ctx context.Context) (domain.SummaryResponse, error) {
	rows, err := s.repo.Summarize(ctx, s.db)
	if err != nil {
		return domain.SummaryResponse{}, err
	}
	return domain.SummaryResponse{Rows: rows}, nil
}

func (s *Service) view(item domain.InventoryItem) domain.ItemView {
	available := item.Available()
	threshold := decimal.NewFromFloat(s.stock.Get().ThresholdFor(item.Unit))
	return domain.ItemView{
		InventoryItem:  item,
		Available:      available,
		BelowThreshold: threshold.IsPositive() && available.LessThanOrEqual(threshold),
	}
}
