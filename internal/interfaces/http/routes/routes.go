// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/pharmacy-dashboard/internal/config"
	"github.com/your-org/pharmacy-dashboard/internal/domain/audit"
	"github.com/your-org/pharmacy-dashboard/internal/domain/catalog"
	"github.com/your-org/pharmacy-dashboard/internal/domain/session"
	"github.com/your-org/pharmacy-dashboard/internal/domain/slip"
	"github.com/your-org/pharmacy-dashboard/internal/domain/transfer"
	"github.com/your-org/pharmacy-dashboard/internal/interfaces/http/handlers"
	"github.com/your-org/pharmacy-dashboard/internal/interfaces/http/middleware"
	"github.com/your-org/pharmacy-dashboard/internal/pkg/pdf"
)

// Services bundles the domain services the routes depend on
type Services struct {
	Transfers *transfer.Service
	Slips     *slip.Service
	Catalog   *catalog.Service
	Sessions  *session.Service
	Audit     *audit.Service
	PDF       *pdf.Service
}

// SetupRoutes wires all dashboard routes onto the API group
func SetupRoutes(rg *gin.RouterGroup, cfg *config.Config, svc *Services) {
	authHandler := handlers.NewAuthHandler(svc.Sessions)
	transferHandler := handlers.NewTransferHandler(svc.Transfers, svc.PDF)
	slipHandler := handlers.NewSlipHandler(svc.Slips, svc.PDF)
	catalogHandler := handlers.NewCatalogHandler(svc.Catalog)
	auditHandler := handlers.NewAuditHandler(svc.Audit)

	authRequired := middleware.AuthMiddleware(cfg, svc.Sessions)

	auth := rg.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)

		protected := auth.Group("")
		protected.Use(authRequired)
		{
			protected.POST("/logout", authHandler.Logout)
			protected.GET("/profile", authHandler.GetProfile)
		}
	}

	transfers := rg.Group("/transfers")
	transfers.Use(authRequired)
	{
		transfers.GET("", transferHandler.GetTransfers)
		transfers.POST("", transferHandler.CreateTransfer)
		transfers.GET("/:id", transferHandler.GetTransfer)
		transfers.GET("/:id/preview", transferHandler.PreviewTransfer)
		transfers.GET("/:id/manifest", transferHandler.GetTransferManifest)
		transfers.POST("/:id/approve", transferHandler.ApproveTransfer)
		transfers.POST("/:id/split-approve", transferHandler.SplitApproveTransfer)
		transfers.POST("/:id/ship", transferHandler.ShipTransfer)
		transfers.POST("/:id/receive", transferHandler.ReceiveTransfer)
		transfers.POST("/:id/cancel", transferHandler.CancelTransfer)
	}

	slips := rg.Group("/stock-slips")
	slips.Use(authRequired)
	{
		slips.GET("", slipHandler.GetSlips)
		slips.POST("", slipHandler.CreateSlip)
		slips.POST("/autofill", slipHandler.AutoFillSlip)
		slips.GET("/:id/document", slipHandler.GetSlipDocument)
		slips.POST("/:id/receive", slipHandler.ReceiveSlip)
		slips.POST("/:id/cancel", slipHandler.CancelSlip)
	}

	catalogGroup := rg.Group("/catalog")
	catalogGroup.Use(authRequired)
	{
		catalogGroup.GET("/products", catalogHandler.GetProducts)
		catalogGroup.GET("/low-stock", catalogHandler.GetLowStockProducts)
		catalogGroup.GET("/branches", catalogHandler.GetBranches)
	}

	admin := rg.Group("/admin")
	admin.Use(authRequired)
	admin.Use(middleware.ManagerMiddleware())
	{
		admin.GET("/staff", catalogHandler.GetStaff)
		admin.POST("/staff", catalogHandler.CreateStaff)
		admin.GET("/customers", catalogHandler.GetCustomers)
		admin.GET("/audit", auditHandler.GetAuditLog)
	}
}
