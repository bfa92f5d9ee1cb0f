package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	varietydomain "github.com/orchardworks/presshouse/internal/variety/domain"
)

type createVarietyRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

func (s *Server) CreateVariety(c *gin.Context) {
	kind, err := varietydomain.ParseKind(c.Param("kind"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req createVarietyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.varietySvc.Create(c.Request.Context(), varietydomain.CreateVarietyRequest{
		Kind:     kind,
		Name:     strings.TrimSpace(req.Name),
		Category: strings.TrimSpace(req.Category),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListVarieties(c *gin.Context) {
	kind, err := varietydomain.ParseKind(c.Param("kind"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var query struct {
		Name       string `form:"name"`
		ActiveOnly bool   `form:"active_only"`
		Limit      int    `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.varietySvc.List(c.Request.Context(), varietydomain.ListVarietyRequest{
		Kind:       kind,
		Name:       strings.TrimSpace(query.Name),
		ActiveOnly: query.ActiveOnly,
		Limit:      query.Limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ArchiveVariety(c *gin.Context) {
	kind, err := varietydomain.ParseKind(c.Param("kind"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.varietySvc.Archive(c.Request.Context(), varietydomain.ArchiveVarietyRequest{
		Kind: kind,
		ID:   strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
