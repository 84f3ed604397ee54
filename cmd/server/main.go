package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	auditapp "github.com/storefront/backend/internal/application/audit"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	identityapp "github.com/storefront/backend/internal/application/identity"
	ledgerapp "github.com/storefront/backend/internal/application/ledger"
	orderapp "github.com/storefront/backend/internal/application/order"
	promotionapp "github.com/storefront/backend/internal/application/promotion"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port))

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	couponRepo := persistence.NewGormCouponRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)

	scope := persistence.NewGormTransactionScope(db.DB)

	// Application services
	checkoutCfg := orderapp.CheckoutConfig{
		ShippingFee:           cfg.Checkout.ShippingFee,
		FreeShippingThreshold: cfg.Checkout.FreeShippingThreshold,
	}
	productService := catalogapp.NewProductService(scope.LedgerScope(), productRepo)
	ledgerService := ledgerapp.NewStockLedgerService(scope.LedgerScope(), ledgerRepo, productRepo)
	orderService := orderapp.NewOrderService(scope, orderRepo, checkoutCfg, log)
	couponService := promotionapp.NewCouponService(couponRepo)
	roleService := identityapp.NewRoleService(roleRepo)
	auditService := auditapp.NewAuditService(auditRepo, log)

	jwtService := auth.NewJWTService(cfg.JWT)

	middleware.SetupValidator()

	engine := router.New(router.Dependencies{
		Logger:           log,
		JWTService:       jwtService,
		RoleService:      roleService,
		AuditService:     auditService,
		Products:         handler.NewProductHandler(productService),
		Orders:           handler.NewOrderHandler(orderService),
		Stock:            handler.NewStockHandler(ledgerService),
		Coupons:          handler.NewCouponHandler(couponService),
		Roles:            handler.NewRoleHandler(roleService),
		Audits:           handler.NewAuditHandler(auditService),
		CORSAllowOrigins: cfg.HTTP.CORSAllowOrigins,
		Env:              cfg.App.Env,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()
	log.Info("Server listening", zap.String("addr", srv.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
