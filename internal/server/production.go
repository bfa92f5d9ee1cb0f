package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	productiondomain "github.com/orchardworks/presshouse/internal/production/domain"
	"github.com/orchardworks/presshouse/pkg/db/pagination"
)

func (s *Server) CreateProductionReport(c *gin.Context) {
	var req productiondomain.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.productionSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProductionReport(c *gin.Context) {
	resp, err := s.productionSvc.GetByID(c.Request.Context(), productiondomain.GetReportRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProductionReports(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status string `form:"status"`
		Tank   string `form:"tank"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.productionSvc.List(c.Request.Context(), productiondomain.ListReportRequest{
		Status:    strings.TrimSpace(query.Status),
		Tank:      strings.TrimSpace(query.Tank),
		PageSize:  query.PageSize,
		PageToken: query.PageToken,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type completeReportRequest struct {
	Status       string `json:"status"`
	FinalGravity string `json:"final_gravity"`
	Notes        string `json:"notes"`
}

func (s *Server) CompleteProductionReport(c *gin.Context) {
	var req completeReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.productionSvc.Complete(c.Request.Context(), productiondomain.CompleteReportRequest{
		ID:           strings.TrimSpace(c.Param("id")),
		Status:       strings.TrimSpace(req.Status),
		FinalGravity: strings.TrimSpace(req.FinalGravity),
		Notes:        strings.TrimSpace(req.Notes),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ProductionSummary(c *gin.Context) {
	resp, err := s.productionSvc.Summary(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
