// Package v1 provides HTTP API version 1.
package v1

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/core/numerator"
	"stockpilot/internal/domain/audit"
	"stockpilot/internal/domain/auth"
	"stockpilot/internal/domain/catalogs/product"
	"stockpilot/internal/domain/catalogs/store"
	"stockpilot/internal/domain/documents/restock"
	"stockpilot/internal/domain/documents/sale"
	"stockpilot/internal/domain/documents/salereturn"
	"stockpilot/internal/domain/registers/stock"
	"stockpilot/internal/domain/reports"
	"stockpilot/internal/infrastructure/http/v1/handlers"
	"stockpilot/internal/infrastructure/http/v1/middleware"
	"stockpilot/internal/infrastructure/storage/postgres"
	"stockpilot/internal/infrastructure/storage/postgres/catalog_repo"
	"stockpilot/internal/infrastructure/storage/postgres/document_repo"
	"stockpilot/internal/infrastructure/storage/postgres/register_repo"
	"stockpilot/internal/infrastructure/storage/postgres/report_repo"
	"stockpilot/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// TxManager coordinates transactions for all repositories
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints
	AuthService *auth.Service

	// Numerator for document and code generation
	Numerator numerator.Generator

	// Audit records entity change history; optional, nil disables auditing
	Audit *postgres.AuditService

	// IdempotencyEnabled enables idempotency middleware
	IdempotencyEnabled bool

	// IdempotencyTTL is how long completed responses replay (default 10m)
	IdempotencyTTL time.Duration
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// Shared service wiring
	deps := buildServices(cfg)

	// API v1
	apiV1 := router.Group("/api/v1")
	{
		registerAuthRoutes(apiV1, cfg, deps)

		protected := apiV1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))
		protected.Use(middleware.StoreSelection(deps.storeResolver))

		if cfg.IdempotencyEnabled {
			ttl := cfg.IdempotencyTTL
			if ttl <= 0 {
				ttl = 10 * time.Minute
			}
			idemStore := postgres.NewIdempotencyStore(cfg.TxManager, ttl)
			protected.Use(middleware.Idempotency(idemStore))
		}

		registerCatalogRoutes(protected, deps)
		registerDocumentRoutes(protected, deps)
		registerRegisterRoutes(protected, deps)
		registerReportRoutes(protected, deps)
		registerAuditRoutes(protected, deps)
	}

	return router
}

// services bundles the domain services the router wires once at startup.
type services struct {
	products *product.Service
	stores   *store.Service
	stock    *stock.Service
	sales    *sale.Service
	restocks *restock.Service
	returns  *salereturn.Service
	reports  *reports.Service
	audit    *postgres.AuditService

	storeResolver middleware.StoreResolver
	locator       *handlers.StoreLocator
}

// buildServices wires repositories and services. Repos share the
// TxManager so document posting and register updates commit atomically.
func buildServices(cfg RouterConfig) *services {
	productRepo := catalog_repo.NewProductRepo(cfg.TxManager)
	storeRepo := catalog_repo.NewStoreRepo(cfg.TxManager)
	stockRepo := register_repo.NewStockRepo(cfg.TxManager)
	saleRepo := document_repo.NewSaleRepo(cfg.TxManager)
	restockRepo := document_repo.NewRestockRepo(cfg.TxManager)
	returnRepo := document_repo.NewReturnRepo(cfg.TxManager)
	reportRepo := report_repo.NewReportRepo(cfg.TxManager)

	productSvc := product.NewService(productRepo, cfg.TxManager, cfg.Numerator)
	storeSvc := store.NewService(storeRepo, cfg.TxManager, cfg.Numerator)
	stockSvc := stock.NewService(stockRepo)
	saleSvc := sale.NewService(saleRepo, stockSvc, productRepo, cfg.Numerator, cfg.TxManager)
	restockSvc := restock.NewService(restockRepo, stockSvc, productRepo, cfg.Numerator, cfg.TxManager)
	returnSvc := salereturn.NewService(returnRepo, stockSvc, productRepo, saleRepo, cfg.Numerator, cfg.TxManager)
	reportSvc := reports.NewService(reportRepo)

	// Audit hooks: stamp the acting user onto documents
	saleSvc.Hooks().OnBeforeCreate(func(ctx context.Context, doc *sale.Sale) error {
		return audit.EnrichCreatedBy(ctx, doc)
	})
	restockSvc.Hooks().OnBeforeCreate(func(ctx context.Context, doc *restock.Restock) error {
		return audit.EnrichCreatedBy(ctx, doc)
	})
	returnSvc.Hooks().OnBeforeCreate(func(ctx context.Context, doc *salereturn.Return) error {
		return audit.EnrichCreatedBy(ctx, doc)
	})

	if cfg.Audit != nil {
		registerAuditHooks(cfg.Audit, productSvc, storeSvc, saleSvc, restockSvc, returnSvc)
	}

	return &services{
		products:      productSvc,
		stores:        storeSvc,
		stock:         stockSvc,
		sales:         saleSvc,
		restocks:      restockSvc,
		returns:       returnSvc,
		reports:       reportSvc,
		audit:         cfg.Audit,
		storeResolver: &storeResolver{stores: storeSvc},
		locator:       handlers.NewStoreLocator(storeSvc),
	}
}

// registerAuditHooks wires change-history recording into entity lifecycles.
// Audit failures are logged, never surfaced: history must not block commerce.
func registerAuditHooks(
	aud *postgres.AuditService,
	products *product.Service,
	stores *store.Service,
	sales *sale.Service,
	restocks *restock.Service,
	returns *salereturn.Service,
) {
	logAudit := func(ctx context.Context, entityType string, entityID id.ID, action postgres.AuditAction, changes map[string]any) error {
		if err := aud.LogChange(ctx, entityType, entityID, action, changes); err != nil {
			logger.Warn(ctx, "audit log failed",
				"entity_type", entityType,
				"entity_id", entityID,
				"action", action,
				"error", err,
			)
		}
		return nil
	}

	products.Hooks().OnAfterCreate(func(ctx context.Context, p *product.Product) error {
		return logAudit(ctx, "product", p.ID, postgres.AuditActionCreate, map[string]any{
			"name": p.Name, "code": p.Code, "variants": len(p.Variants),
		})
	})
	products.Hooks().OnAfterUpdate(func(ctx context.Context, p *product.Product) error {
		return logAudit(ctx, "product", p.ID, postgres.AuditActionUpdate, map[string]any{
			"name": p.Name, "version": p.Version, "variants": len(p.Variants),
		})
	})
	products.Hooks().OnAfterDelete(func(ctx context.Context, p *product.Product) error {
		return logAudit(ctx, "product", p.ID, postgres.AuditActionDelete, nil)
	})

	stores.Hooks().OnAfterCreate(func(ctx context.Context, st *store.Store) error {
		return logAudit(ctx, "store", st.ID, postgres.AuditActionCreate, map[string]any{
			"name": st.Name, "code": st.Code,
		})
	})
	stores.Hooks().OnAfterUpdate(func(ctx context.Context, st *store.Store) error {
		return logAudit(ctx, "store", st.ID, postgres.AuditActionUpdate, map[string]any{
			"name": st.Name, "version": st.Version,
		})
	})

	// Documents are created already posted, so creation audits as a post.
	sales.Hooks().OnAfterCreate(func(ctx context.Context, doc *sale.Sale) error {
		return logAudit(ctx, "sale", doc.ID, postgres.AuditActionPost, map[string]any{
			"number": doc.Number, "storeId": doc.StoreID,
			"totalAmount": doc.TotalAmount, "paymentMethod": doc.PaymentMethod,
		})
	})
	restocks.Hooks().OnAfterCreate(func(ctx context.Context, doc *restock.Restock) error {
		return logAudit(ctx, "restock", doc.ID, postgres.AuditActionPost, map[string]any{
			"number": doc.Number, "storeId": doc.StoreID,
			"totalCost": doc.TotalCost,
		})
	})
	returns.Hooks().OnAfterCreate(func(ctx context.Context, doc *salereturn.Return) error {
		return logAudit(ctx, "return", doc.ID, postgres.AuditActionPost, map[string]any{
			"number": doc.Number, "storeId": doc.StoreID,
			"totalRefund": doc.TotalRefund,
		})
	})
}

// storeResolver adapts the store service to the X-Store-ID middleware.
// It rejects selections that point at another business's store.
type storeResolver struct {
	stores *store.Service
}

func (r *storeResolver) ResolveStore(ctx context.Context, businessID, storeID id.ID) (string, error) {
	st, err := r.stores.GetByID(ctx, storeID)
	if err != nil {
		return "", err
	}
	if st.BusinessID != businessID {
		return "", apperror.NewNotFound("store", fmt.Sprintf("%v", storeID))
	}
	return st.Name, nil
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig, deps *services) {
	if cfg.AuthService == nil {
		return
	}

	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	// Public auth endpoints (no JWT required)
	public := rg.Group("/auth")
	public.POST("/register", authHandler.Register)
	public.POST("/login", authHandler.Login)
	public.POST("/refresh", authHandler.Refresh)

	// Protected auth endpoints (JWT required)
	protected := rg.Group("/auth")
	protected.Use(middleware.Auth(cfg.JWTValidator))
	protected.POST("/logout", authHandler.Logout)
	protected.GET("/me", authHandler.Me)
	protected.GET("/users", middleware.RequireOwner(), authHandler.ListUsers)
	protected.POST("/users", middleware.RequireOwner(), authHandler.Invite)
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, deps *services) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	// --- PRODUCTS ---
	{
		handler := handlers.NewProductHandler(baseHandler, deps.products)

		group := catalogs.Group("/products")
		group.GET("/view", handler.View)
		group.GET("/categories", handler.Categories)
		group.GET("/variants/by-sku/:sku", handler.FindBySKU)
		RegisterCatalogRoutes(group, handler, auth.RoleManager)
	}

	// --- STORES ---
	{
		handler := handlers.NewStoreHandler(baseHandler, deps.stores)

		group := catalogs.Group("/stores")
		group.GET("/default", handler.GetDefault)
		RegisterCatalogRoutes(group, handler)
	}
}

// registerDocumentRoutes registers document endpoints.
func registerDocumentRoutes(rg *gin.RouterGroup, deps *services) {
	docsGroup := rg.Group("/document")
	baseHandler := handlers.NewBaseHandler()

	// --- SALES ---
	{
		handler := handlers.NewSaleHandler(baseHandler, deps.sales, deps.locator)
		RegisterDocumentRoutes(docsGroup.Group("/sales"), handler, auth.RoleManager, auth.RoleCashier)
	}

	// --- RESTOCKS ---
	{
		handler := handlers.NewRestockHandler(baseHandler, deps.restocks, deps.locator)
		RegisterDocumentRoutes(docsGroup.Group("/restocks"), handler, auth.RoleManager)
	}

	// --- RETURNS ---
	{
		handler := handlers.NewReturnHandler(baseHandler, deps.returns, deps.locator)
		RegisterDocumentRoutes(docsGroup.Group("/returns"), handler, auth.RoleManager, auth.RoleCashier)
	}
}

// registerRegisterRoutes registers accumulation register endpoints.
func registerRegisterRoutes(rg *gin.RouterGroup, deps *services) {
	registers := rg.Group("/registers")
	baseHandler := handlers.NewBaseHandler()

	stockHandler := handlers.NewStockHandler(baseHandler, deps.stock)

	stockGroup := registers.Group("/stock")
	stockGroup.GET("/balances", stockHandler.ListBalances)
	stockGroup.GET("/balances/:variantId", stockHandler.GetBalance)
}

// registerReportRoutes registers report endpoints.
func registerReportRoutes(rg *gin.RouterGroup, deps *services) {
	reportsGroup := rg.Group("/reports")
	reportsGroup.Use(middleware.RequireRole(auth.RoleManager))
	baseHandler := handlers.NewBaseHandler()

	reportHandler := handlers.NewReportsHandler(baseHandler, deps.reports)

	reportsGroup.GET("/sales-summary", reportHandler.SalesSummary)
	reportsGroup.GET("/revenue-by-day", reportHandler.RevenueByDay)
	reportsGroup.GET("/top-products", reportHandler.TopProducts)
	reportsGroup.GET("/stock-balance", reportHandler.StockBalance)
}

// registerAuditRoutes registers the change-history endpoint.
func registerAuditRoutes(rg *gin.RouterGroup, deps *services) {
	if deps.audit == nil {
		return
	}

	auditHandler := handlers.NewAuditHandler(handlers.NewBaseHandler(), deps.audit)

	auditGroup := rg.Group("/audit")
	auditGroup.Use(middleware.RequireRole(auth.RoleManager))
	auditGroup.GET("/:entityType/:id", auditHandler.History)
}
