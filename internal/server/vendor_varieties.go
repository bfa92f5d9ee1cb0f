package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	varietydomain "github.com/orchardworks/presshouse/internal/variety/domain"
	vendorvarietydomain "github.com/orchardworks/presshouse/internal/vendorvariety/domain"
)

type attachVarietyRequest struct {
	Kind    string `json:"kind"`
	Variety string `json:"variety"`
	Notes   string `json:"notes"`
}

func (s *Server) AttachVariety(c *gin.Context) {
	var req attachVarietyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	kind, err := varietydomain.ParseKind(req.Kind)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.vendorVarietySvc.Attach(c.Request.Context(), vendorvarietydomain.AttachRequest{
		VendorID: strings.TrimSpace(c.Param("id")),
		Kind:     kind,
		NameOrID: req.Variety,
		Notes:    req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DetachVariety(c *gin.Context) {
	kind, err := varietydomain.ParseKind(c.Param("kind"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.vendorVarietySvc.Detach(c.Request.Context(), vendorvarietydomain.DetachRequest{
		VendorID:  strings.TrimSpace(c.Param("id")),
		Kind:      kind,
		VarietyID: strings.TrimSpace(c.Param("variety_id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListVendorVarieties(c *gin.Context) {
	resp, err := s.vendorVarietySvc.ListForVendor(c.Request.Context(), vendorvarietydomain.ListForVendorRequest{
		VendorID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SearchVarieties(c *gin.Context) {
	var query struct {
		Query string `form:"q"`
		Limit int    `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.vendorVarietySvc.Search(c.Request.Context(), vendorvarietydomain.SearchRequest{
		Query: query.Query,
		Limit: query.Limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
