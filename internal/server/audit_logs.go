package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/orchardworks/presshouse/internal/audit/domain"
	"github.com/orchardworks/presshouse/pkg/db/pagination"
)

func (s *Server) ListAuditLogs(c *gin.Context) {
	var query struct {
		pagination.Pagination
		TableName string `form:"table_name"`
		RecordID  string `form:"record_id"`
		Operation string `form:"operation"`
		ActorID   string `form:"actor_id"`
		StartAt   string `form:"start_at"`
		EndAt     string `form:"end_at"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req := auditdomain.ListAuditLogRequest{
		Pagination: query.Pagination,
		TableName:  strings.TrimSpace(query.TableName),
		RecordID:   strings.TrimSpace(query.RecordID),
		Operation:  strings.TrimSpace(query.Operation),
		ActorID:    strings.TrimSpace(query.ActorID),
	}

	if raw := strings.TrimSpace(query.StartAt); raw != "" {
		startAt, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			AbortWithError(c, auditdomain.ErrInvalidTimeRange)
			return
		}
		req.StartAt = &startAt
	}
	if raw := strings.TrimSpace(query.EndAt); raw != "" {
		endAt, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			AbortWithError(c, auditdomain.ErrInvalidTimeRange)
			return
		}
		req.EndAt = &endAt
	}

	resp, err := s.auditSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
