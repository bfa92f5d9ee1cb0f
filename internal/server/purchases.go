package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	purchasingdomain "github.com/orchardworks/presshouse/internal/purchasing/domain"
	"github.com/orchardworks/presshouse/pkg/db/pagination"
)

func (s *Server) CreatePurchase(c *gin.Context) {
	var req purchasingdomain.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.purchasingSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPurchase(c *gin.Context) {
	resp, err := s.purchasingSvc.GetByID(c.Request.Context(), purchasingdomain.GetPurchaseRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPurchases(c *gin.Context) {
	var query struct {
		pagination.Pagination
		VendorID     string `form:"vendor_id"`
		PurchaseType string `form:"purchase_type"`
		From         string `form:"from"`
		To           string `form:"to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.purchasingSvc.List(c.Request.Context(), purchasingdomain.ListPurchaseRequest{
		VendorID:     strings.TrimSpace(query.VendorID),
		PurchaseType: strings.TrimSpace(query.PurchaseType),
		From:         strings.TrimSpace(query.From),
		To:           strings.TrimSpace(query.To),
		PageSize:     query.PageSize,
		PageToken:    query.PageToken,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) PurchaseSummary(c *gin.Context) {
	resp, err := s.purchasingSvc.Summary(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
