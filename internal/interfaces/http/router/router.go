package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appaudit "github.com/storefront/backend/internal/application/audit"
	appidentity "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// Dependencies carries everything the router wires together
type Dependencies struct {
	Logger       *zap.Logger
	JWTService   *auth.JWTService
	RoleService  *appidentity.RoleService
	AuditService *appaudit.AuditService

	Products *handler.ProductHandler
	Orders   *handler.OrderHandler
	Stock    *handler.StockHandler
	Coupons  *handler.CouponHandler
	Roles    *handler.RoleHandler
	Audits   *handler.AuditHandler

	CORSAllowOrigins []string
	Env              string
}

// New builds the gin engine with the full route table. Storefront routes are
// public (checkout works for guests); admin routes sit behind authentication,
// the permission matrix and the audit recorder.
func New(deps Dependencies) *gin.Engine {
	if deps.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(deps.Logger),
		middleware.Recovery(deps.Logger),
		middleware.CORS(deps.CORSAllowOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	// Storefront routes. Checkout resolves the actor when a token is
	// present and runs as guest otherwise.
	store := api.Group("")
	store.Use(middleware.OptionalAuth(deps.JWTService))
	{
		store.GET("/products", deps.Products.List)
		store.GET("/products/:id", deps.Products.Get)
		store.POST("/checkout", middleware.AuditTrail(deps.AuditService, "orders"), deps.Orders.Checkout)
		store.POST("/coupons/validate", deps.Coupons.Validate)
	}

	// Customer routes require a valid token
	customer := api.Group("")
	customer.Use(middleware.RequireAuth(deps.JWTService))
	{
		customer.GET("/orders/mine", deps.Orders.ListMine)
		customer.GET("/orders/:id", deps.Orders.Get)
		customer.POST("/orders/:id/cancel", middleware.AuditTrail(deps.AuditService, "orders"), deps.Orders.Cancel)
	}

	// Admin routes: auth, then the permission matrix, then the audit
	// recorder per resource group.
	admin := api.Group("/admin")
	admin.Use(middleware.RequireAuth(deps.JWTService))

	perm := func(resource string, actions ...string) gin.HandlerFunc {
		return middleware.RequirePermission(deps.RoleService, deps.Logger, resource, actions...)
	}

	products := admin.Group("/products")
	products.Use(middleware.AuditTrail(deps.AuditService, "products"))
	{
		products.GET("", perm("products", "read"), deps.Products.List)
		products.GET("/:id", perm("products", "read"), deps.Products.Get)
		products.POST("", perm("products", "create"), deps.Products.Create)
		products.PUT("/:id", perm("products", "update"), deps.Products.Update)
		products.DELETE("/:id", perm("products", "delete"), deps.Products.Delete)
	}

	stock := admin.Group("/stock")
	stock.Use(middleware.AuditTrail(deps.AuditService, "stock"))
	{
		stock.POST("/adjust", perm("stock", "update"), deps.Stock.Adjust)
		stock.GET("/ledger/:id", perm("stock", "read"), deps.Stock.LedgerByProduct)
		stock.GET("/ledger/order/:id", perm("stock", "read"), deps.Stock.LedgerByOrder)
		stock.GET("/audit/:id", perm("stock", "read"), deps.Stock.Audit)
	}

	orders := admin.Group("/orders")
	orders.Use(middleware.AuditTrail(deps.AuditService, "orders"))
	{
		orders.GET("", perm("orders", "read"), deps.Orders.List)
		orders.GET("/:id", perm("orders", "read"), deps.Orders.Get)
		orders.PUT("/:id/status", perm("orders", "update"), deps.Orders.UpdateStatus)
		orders.POST("/:id/force-cancel", perm("orders", "update"), deps.Orders.ForceCancel)
		orders.PUT("/:id/payment-status", perm("orders", "update"), deps.Orders.UpdatePaymentStatus)
	}

	coupons := admin.Group("/coupons")
	coupons.Use(middleware.AuditTrail(deps.AuditService, "coupons"))
	{
		coupons.GET("", perm("coupons", "read"), deps.Coupons.List)
		coupons.GET("/:id", perm("coupons", "read"), deps.Coupons.Get)
		coupons.POST("", perm("coupons", "create"), deps.Coupons.Create)
		coupons.PUT("/:id", perm("coupons", "update"), deps.Coupons.Update)
		coupons.DELETE("/:id", perm("coupons", "delete"), deps.Coupons.Delete)
	}

	roles := admin.Group("/roles")
	roles.Use(middleware.AuditTrail(deps.AuditService, "roles"))
	{
		roles.GET("", perm("roles", "read"), deps.Roles.List)
		roles.GET("/:id", perm("roles", "read"), deps.Roles.Get)
		roles.POST("", perm("roles", "create"), deps.Roles.Create)
		roles.PUT("/:id", perm("roles", "update"), deps.Roles.Update)
		roles.DELETE("/:id", perm("roles", "delete"), deps.Roles.Delete)
	}

	auditLogs := admin.Group("/audit-logs")
	{
		auditLogs.GET("", perm("audit", "read"), deps.Audits.List)
		auditLogs.GET("/:resource/:id", perm("audit", "read"), deps.Audits.ListByResource)
	}

	return r
}
