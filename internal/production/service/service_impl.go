package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	auditdomain "github.com/orchardworks/presshouse/internal/audit/domain"
	"github.com/orchardworks/presshouse/internal/production/domain"
	"github.com/orchardworks/presshouse/pkg/db/pagination"
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
		log:      p.Log.Named("production.service"),
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateReportRequest) (domain.ProductionReport, error) {
	batchCode := strings.TrimSpace(req.BatchCode)
	if batchCode == "" {
		return domain.ProductionReport{}, domain.ErrInvalidBatchCode
	}
	volume, err := decimal.NewFromString(strings.TrimSpace(req.Volume))
	if err != nil || !volume.IsPositive() {
		return domain.ProductionReport{}, domain.ErrInvalidVolume
	}

	startedAt := time.Now().UTC()
	if raw := strings.TrimSpace(req.StartedAt); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return domain.ProductionReport{}, domain.ErrInvalidDate
		}
		startedAt = parsed
	}

	now := time.Now().UTC()
	report := domain.ProductionReport{
		ID:        uuid.New(),
		BatchCode: batchCode,
		Tank:      strings.TrimSpace(req.Tank),
		Volume:    volume,
		Status:    domain.StatusFermenting,
		StartedAt: startedAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if raw := strings.TrimSpace(req.JuiceVarietyID); raw != "" {
		varietyID, err := uuid.Parse(raw)
		if err != nil || varietyID == uuid.Nil {
			return domain.ProductionReport{}, domain.ErrInvalidID
		}
		report.JuiceVarietyID = &varietyID
	}
	if raw := strings.TrimSpace(req.StartingGravity); raw != "" {
		gravity, err := decimal.NewFromString(raw)
		if err != nil || !gravity.IsPositive() {
			return domain.ProductionReport{}, domain.ErrInvalidGravity
		}
		report.StartingGravity = &gravity
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		report.Notes = &notes
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByBatchCode(ctx, tx, batchCode)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrBatchCodeExists
		}
		if err := s.repo.Insert(ctx, tx, &report); err != nil {
			return err
		}
		return s.auditSvc.Record(ctx, tx, auditdomain.Entry{
			TableName: report.TableName(),
			RecordID:  report.ID.String(),
			Operation: auditdomain.OperationCreate,
			NewData: map[string]any{
				"batch_code": report.BatchCode,
				"tank":       report.Tank,
				"volume":     report.Volume.String(),
				"status":     string(report.Status),
			},
			Reason: "production batch started via API",
		})
	})
	if err != nil {
		return domain.ProductionReport{}, err
	}
	return report, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetReportRequest) (domain.ProductionReport, error) {
	id, err := uuid.Parse(strings.TrimSpace(req.ID))
	if err != nil || id == uuid.Nil {
		return domain.ProductionReport{}, domain.ErrInvalidID
	}

	report, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.ProductionReport{}, err
	}
	if report == nil {
		return domain.ProductionReport{}, domain.ErrNotFound
	}
	return *report, nil
}

func (s *Service) List(ctx context.Context, req domain.ListReportRequest) (domain.ListReportResponse, error) {
	filter := domain.ListReportFilter{Tank: req.Tank}

	if raw := strings.TrimSpace(req.Status); raw != "" {
		status := domain.Status(raw)
		if !status.Valid() {
			return domain.ListReportResponse{}, domain.ErrInvalidStatus
		}
		filter.Status = status
	}
	if raw := strings.TrimSpace(req.PageToken); raw != "" {
		decoded, err := pagination.DecodeCursor(raw)
		if err != nil {
			return domain.ListReportResponse{}, domain.ErrInvalidPageToken
		}
		createdAt, err := time.Parse(time.RFC3339Nano, decoded.CreatedAt)
		if err != nil {
			return domain.ListReportResponse{}, domain.ErrInvalidPageToken
		}
		filter.Cursor = &domain.ReportCursor{ID: decoded.ID, CreatedAt: createdAt}
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, filter, pageSize)
	if err != nil {
		return domain.ListReportResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(report *domain.ProductionReport) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        report.ID.String(),
			CreatedAt: report.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	reports := make([]domain.ProductionReport, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		reports = append(reports, *item)
	}

	resp := domain.ListReportResponse{Reports: reports}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) Complete(ctx context.Context, req domain.CompleteReportRequest) (domain.ProductionReport, error) {
	id, err := uuid.Parse(strings.TrimSpace(req.ID))
	if err != nil || id == uuid.Nil {
		return domain.ProductionReport{}, domain.ErrInvalidID
	}
	status := domain.Status(strings.TrimSpace(req.Status))
	if !status.Terminal() {
		return domain.ProductionReport{}, domain.ErrInvalidStatus
	}

	var finalGravity *decimal.Decimal
	if raw := strings.TrimSpace(req.FinalGravity); raw != "" {
		gravity, err := decimal.NewFromString(raw)
		if err != nil || !gravity.IsPositive() {
			return domain.ProductionReport{}, domain.ErrInvalidGravity
		}
		finalGravity = &gravity
	}

	var completed domain.ProductionReport
	err = s.db.Transaction(func(tx *gorm.DB) error {
		report, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if report == nil {
			return domain.ErrNotFound
		}
		if report.Status.Terminal() {
			return domain.ErrAlreadyComplete
		}

		previousStatus := report.Status
		now := time.Now().UTC()
		report.Status = status
		report.CompletedAt = &now
		report.UpdatedAt = now
		if finalGravity != nil {
			report.FinalGravity = finalGravity
		}
		if notes := strings.TrimSpace(req.Notes); notes != "" {
			report.Notes = &notes
		}

		if err := s.repo.Complete(ctx, tx, report); err != nil {
			return err
		}
		completed = *report

		return s.auditSvc.Record(ctx, tx, auditdomain.Entry{
			TableName: report.TableName(),
			RecordID:  report.ID.String(),
			Operation: auditdomain.OperationCreate,
			OldData:   map[string]any{"status": string(previousStatus)},
			NewData: map[string]any{
				"batch_code": report.BatchCode,
				"status":     string(report.Status),
			},
			Reason: "production batch completed via API",
		})
	})
	if err != nil {
		return domain.ProductionReport{}, err
	}
	return completed, nil
}

func (s *Service) Summary(ctx context.Context) (domain.SummaryResponse, error) {
	volume, err := s.repo.FermentingVolume(ctx, s.db)
	if err != nil {
		return domain.SummaryResponse{}, err
	}
	counts, err := s.repo.CountByStatus(ctx, s.db)
	if err != nil {
		return domain.SummaryResponse{}, err
	}
	return domain.SummaryResponse{
		FermentingVolume: volume,
		StatusCounts:     counts,
	}, nil
}
