package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/orchardworks/presshouse/internal/production/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, report *domain.ProductionReport) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO production_reports (id, batch_code, tank, juice_variety_id, volume,
			starting_gravity, final_gravity, status, started_at, completed_at, notes,
			created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID,
		report.BatchCode,
		report.Tank,
		report.JuiceVarietyID,
		report.Volume,
		report.StartingGravity,
		report.FinalGravity,
		report.Status,
		report.StartedAt,
		report.CompletedAt,
		report.Notes,
		report.CreatedAt,
		report.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*domain.ProductionReport, error) {
	var report domain.ProductionReport
	err := db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		Limit(1).
		Find(&report).Error
	if err != nil {
		return nil, err
	}
	if report.ID == uuid.Nil {
		return nil, nil
	}
	return &report, nil
}

func (r *repo) FindByBatchCode(ctx context.Context, db *gorm.DB, batchCode string) (*domain.ProductionReport, error) {
	var report domain.ProductionReport
	err := db.WithContext(ctx).
		Where("LOWER(batch_code) = ? AND deleted_at IS NULL", strings.ToLower(batchCode)).
		Limit(1).
		Find(&report).Error
	if err != nil {
		return nil, err
	}
	if report.ID == uuid.Nil {
		return nil, nil
	}
	return &report, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListReportFilter, limit int) ([]*domain.ProductionReport, error) {
	var reports []*domain.ProductionReport
	stmt := db.WithContext(ctx).
		Model(&domain.ProductionReport{}).
		Where("deleted_at IS NULL")

	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if tank := strings.TrimSpace(filter.Tank); tank != "" {
		stmt = stmt.Where("tank = ?", tank)
	}
	if filter.Cursor != nil {
		stmt = stmt.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			filter.Cursor.CreatedAt,
			filter.Cursor.CreatedAt,
			filter.Cursor.ID,
		)
	}

	stmt = stmt.Order("created_at desc, id desc")
	if limit > 0 {
		stmt = stmt.Limit(limit + 1)
	}

	if err := stmt.Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *repo) Complete(ctx context.Context, db *gorm.DB, report *domain.ProductionReport) error {
	return db.WithContext(ctx).Exec(
		`UPDATE production_reports
		 SET status = ?, final_gravity = ?, completed_at = ?, notes = ?, updated_at = ?
		 WHERE id = ? AND deleted_at IS NULL`,
		report.Status,
		report.FinalGravity,
		report.CompletedAt,
		report.Notes,
		report.UpdatedAt,
		report.ID,
	).Error
}

func (r *repo) FermentingVolume(ctx context.Context, db *gorm.DB) (decimal.Decimal, error) {
	var row struct {
		Volume decimal.Decimal `gorm:"column:volume"`
	}
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(volume), 0) AS volume
		 FROM production_reports
		 WHERE status = ? AND deleted_at IS NULL`,
		domain.StatusFermenting,
	).Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Volume, nil
}

func (r *repo) CountByStatus(ctx context.Context, db *gorm.DB) ([]domain.StatusCountRow, error) {
	var rows []domain.StatusCountRow
	err := db.WithContext(ctx).Raw(
		`SELECT status, COUNT(*) AS count
		 FROM production_reports
		 WHERE deleted_at IS NULL
		 GROUP BY status
		 ORDER BY status`,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
