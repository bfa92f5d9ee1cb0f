package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/orchardworks/presshouse/internal/audit"
	auditdomain "github.com/orchardworks/presshouse/internal/audit/domain"
	"github.com/orchardworks/presshouse/internal/authorization"
	"github.com/orchardworks/presshouse/internal/config"
	"github.com/orchardworks/presshouse/internal/inventory"
	inventorydomain "github.com/orchardworks/presshouse/internal/inventory/domain"
	"github.com/orchardworks/presshouse/internal/metrics"
	"github.com/orchardworks/presshouse/internal/production"
	productiondomain "github.com/orchardworks/presshouse/internal/production/domain"
	"github.com/orchardworks/presshouse/internal/purchasing"
	purchasingdomain "github.com/orchardworks/presshouse/internal/purchasing/domain"
	"github.com/orchardworks/presshouse/internal/variety"
	varietydomain "github.com/orchardworks/presshouse/internal/variety/domain"
	"github.com/orchardworks/presshouse/internal/vendors"
	vendordomain "github.com/orchardworks/presshouse/internal/vendors/domain"
	"github.com/orchardworks/presshouse/internal/vendorvariety"
	vendorvarietydomain "github.com/orchardworks/presshouse/internal/vendorvariety/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	metrics.Module,
	fx.Provide(registerGin),
	authorization.Module,
	audit.Module,
	vendors.Module,
	variety.Module,
	vendorvariety.Module,
	purchasing.Module,
	inventory.Module,
	production.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(httpMetrics *metrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(httpMetrics *metrics.HTTPMetrics) *gin.Engine {
	return NewEngine(httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine           *gin.Engine
	cfg              config.Config
	log              *zap.Logger
	db               *gorm.DB
	authzSvc         authorization.Service
	auditSvc         auditdomain.Service
	vendorSvc        vendordomain.Service
	varietySvc       varietydomain.Service
	vendorVarietySvc vendorvarietydomain.Service
	purchasingSvc    purchasingdomain.Service
	inventorySvc     inventorydomain.Service
	productionSvc    productiondomain.Service
}

type ServerParams struct {
	fx.In

	Gin              *gin.Engine
	Cfg              config.Config
	Log              *zap.Logger
	DB               *gorm.DB
	AuthzSvc         authorization.Service
	AuditSvc         auditdomain.Service
	VendorSvc        vendordomain.Service
	VarietySvc       varietydomain.Service
	VendorVarietySvc vendorvarietydomain.Service
	PurchasingSvc    purchasingdomain.Service
	InventorySvc     inventorydomain.Service
	ProductionSvc    productiondomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:           p.Gin,
		cfg:              p.Cfg,
		log:              p.Log.Named("http.server"),
		db:               p.DB,
		authzSvc:         p.AuthzSvc,
		auditSvc:         p.AuditSvc,
		vendorSvc:        p.VendorSvc,
		varietySvc:       p.VarietySvc,
		vendorVarietySvc: p.VendorVarietySvc,
		purchasingSvc:    p.PurchasingSvc,
		inventorySvc:     p.InventorySvc,
		productionSvc:    p.ProductionSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")
	api.Use(s.AuthRequired())

	api.POST("/vendors", s.authorize(authorization.ObjectVendor, authorization.ActionCreate), s.CreateVendor)
	api.GET("/vendors", s.authorize(authorization.ObjectVendor, authorization.ActionView), s.ListVendors)
	api.GET("/vendors/:id", s.authorize(authorization.ObjectVendor, authorization.ActionView), s.GetVendor)
	api.DELETE("/vendors/:id", s.authorize(authorization.ObjectVendor, authorization.ActionDelete), s.DeactivateVendor)

	api.POST("/vendors/:id/varieties", s.authorize(authorization.ObjectVendorVariety, authorization.ActionLink), s.AttachVariety)
	api.GET("/vendors/:id/varieties", s.authorize(authorization.ObjectVendorVariety, authorization.ActionView), s.ListVendorVarieties)
	api.DELETE("/vendors/:id/varieties/:kind/:variety_id", s.authorize(authorization.ObjectVendorVariety, authorization.ActionUnlink), s.DetachVariety)

	api.GET("/varieties/search", s.authorize(authorization.ObjectVariety, authorization.ActionView), s.SearchVarieties)
	api.POST("/varieties/:kind", s.authorize(authorization.ObjectVariety, authorization.ActionCreate), s.CreateVariety)
	api.GET("/varieties/:kind", s.authorize(authorization.ObjectVariety, authorization.ActionView), s.ListVarieties)
	api.DELETE("/varieties/:kind/:id", s.authorize(authorization.ObjectVariety, authorization.ActionDelete), s.ArchiveVariety)

	api.POST("/purchases", s.authorize(authorization.ObjectPurchase, authorization.ActionCreate), s.CreatePurchase)
	api.GET("/purchases", s.authorize(authorization.ObjectPurchase, authorization.ActionView), s.ListPurchases)
	api.GET("/purchases/summary", s.authorize(authorization.ObjectPurchase, authorization.ActionView), s.PurchaseSummary)
	api.GET("/purchases/:id", s.authorize(authorization.ObjectPurchase, authorization.ActionView), s.GetPurchase)

	api.POST("/inventory", s.authorize(authorization.ObjectInventory, authorization.ActionCreate), s.CreateInventoryItem)
	api.GET("/inventory", s.authorize(authorization.ObjectInventory, authorization.ActionView), s.ListInventory)
	api.GET("/inventory/summary", s.authorize(authorization.ObjectInventory, authorization.ActionView), s.InventorySummary)
	api.GET("/inventory/:id", s.authorize(authorization.ObjectInventory, authorization.ActionView), s.GetInventoryItem)
	api.POST("/inventory/:id/adjust", s.authorize(authorization.ObjectInventory, authorization.ActionUpdate), s.AdjustInventory)

	api.POST("/production-reports", s.authorize(authorization.ObjectProductionReport, authorization.ActionCreate), s.CreateProductionReport)
	api.GET("/production-reports", s.authorize(authorization.ObjectProductionReport, authorization.ActionView), s.ListProductionReports)
	api.GET("/production-reports/summary", s.authorize(authorization.ObjectProductionReport, authorization.ActionView), s.ProductionSummary)
	api.GET("/production-reports/:id", s.authorize(authorization.ObjectProductionReport, authorization.ActionView), s.GetProductionReport)
	api.POST("/production-reports/:id/complete", s.authorize(authorization.ObjectProductionReport, authorization.ActionUpdate), s.CompleteProductionReport)

	api.GET("/audit-logs", s.authorize(authorization.ObjectAuditLog, authorization.ActionView), s.ListAuditLogs)
}
