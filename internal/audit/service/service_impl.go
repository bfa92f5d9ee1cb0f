package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/orchardworks/presshouse/internal/actorcontext"
	auditdomain "github.com/orchardworks/presshouse/internal/audit/domain"
	"github.com/orchardworks/presshouse/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  auditdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  auditdomain.Repository
}

func NewService(p Params) auditdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Record(ctx context.Context, tx *gorm.DB, entry auditdomain.Entry) error {
	tableName := strings.TrimSpace(entry.TableName)
	if tableName == "" {
		return auditdomain.ErrInvalidTableName
	}
	switch entry.Operation {
	case auditdomain.OperationCreate, auditdomain.OperationDelete:
	default:
		return auditdomain.ErrInvalidOperation
	}
	if tx == nil {
		tx = s.db
	}

	row := auditdomain.AuditLog{
		ID:        s.genID.Generate(),
		TableName: tableName,
		RecordID:  strings.TrimSpace(entry.RecordID),
		Operation: entry.Operation,
		Reason:    strings.TrimSpace(entry.Reason),
		CreatedAt: time.Now().UTC(),
	}
	if len(entry.OldData) > 0 {
		row.OldData = datatypes.JSONMap(entry.OldData)
	}
	if len(entry.NewData) > 0 {
		row.NewData = datatypes.JSONMap(entry.NewData)
	}
	if actor, ok := actorcontext.ActorFromContext(ctx); ok {
		actorID := actor.ID
		row.ActorID = &actorID
		if role := strings.TrimSpace(actor.Role); role != "" {
			row.ActorRole = &role
		}
	}
	if requestID := actorcontext.RequestIDFromContext(ctx); requestID != "" {
		row.RequestID = &requestID
	}
	if ipAddress := actorcontext.IPAddressFromContext(ctx); ipAddress != "" {
		row.IPAddress = &ipAddress
	}

	if err := s.repo.Insert(ctx, tx, &row); err != nil {
		s.log.Warn("failed to write audit log",
			zap.String("table_name", tableName),
			zap.String("operation", string(entry.Operation)),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *Service) List(ctx context.Context, req auditdomain.ListAuditLogRequest) (auditdomain.ListAuditLogResponse, error) {
	if req.StartAt != nil && req.EndAt != nil && req.StartAt.After(*req.EndAt) {
		return auditdomain.ListAuditLogResponse{}, auditdomain.ErrInvalidTimeRange
	}

	var cursor *auditdomain.AuditCursor
	if strings.TrimSpace(req.PageToken) != "" {
		decoded, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return auditdomain.ListAuditLogResponse{}, auditdomain.ErrInvalidPageToken
		}
		createdAt, err := time.Parse(time.RFC3339Nano, decoded.CreatedAt)
		if err != nil {
			return auditdomain.ListAuditLogResponse{}, auditdomain.ErrInvalidPageToken
		}
		id, err := snowflake.ParseString(strings.TrimSpace(decoded.ID))
		if err != nil || id == 0 {
			return auditdomain.ListAuditLogResponse{}, auditdomain.ErrInvalidPageToken
		}
		cursor = &auditdomain.AuditCursor{
			ID:        id,
			CreatedAt: createdAt,
		}
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	if pageSize > 250 {
		pageSize = 250
	}

	items, err := s.repo.List(ctx, s.db, auditdomain.ListFilter{
		TableName: req.TableName,
		RecordID:  req.RecordID,
		Operation: req.Operation,
		ActorID:   req.ActorID,
		StartAt:   req.StartAt,
		EndAt:     req.EndAt,
		Cursor:    cursor,
		Limit:     pageSize,
	})
	if err != nil {
		return auditdomain.ListAuditLogResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(item *auditdomain.AuditLog) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        item.ID.String(),
			CreatedAt: item.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	logs := make([]auditdomain.AuditLog, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		logs = append(logs, *item)
	}

	resp := auditdomain.ListAuditLogResponse{AuditLogs: logs}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}
