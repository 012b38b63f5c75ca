// Package main provides a CLI tool for seeding the database with demo data:
// a demo business with its owner, a starter catalog, an opening restock
// and a few sales.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	appctx "stockpilot/internal/core/context"
	"stockpilot/internal/core/types"
	"stockpilot/internal/domain/auth"
	"stockpilot/internal/domain/catalogs/product"
	"stockpilot/internal/domain/catalogs/store"
	"stockpilot/internal/domain/documents/restock"
	"stockpilot/internal/domain/documents/sale"
	"stockpilot/internal/domain/registers/stock"
	"stockpilot/internal/infrastructure/numerator"
	"stockpilot/internal/infrastructure/storage/postgres"
	"stockpilot/internal/infrastructure/storage/postgres/auth_repo"
	"stockpilot/internal/infrastructure/storage/postgres/catalog_repo"
	"stockpilot/internal/infrastructure/storage/postgres/document_repo"
	"stockpilot/internal/infrastructure/storage/postgres/register_repo"
	"stockpilot/pkg/logger"
)

const (
	demoEmail    = "demo@stockpilot.io"
	demoPassword = "Demo1234!"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)
	gen := numerator.New(pool)

	businessRepo := auth_repo.NewBusinessRepo(txManager)
	userRepo := auth_repo.NewUserRepo(txManager)
	tokenRepo := auth_repo.NewTokenRepo(txManager)
	storeRepo := catalog_repo.NewStoreRepo(txManager)
	productRepo := catalog_repo.NewProductRepo(txManager)
	stockRepo := register_repo.NewStockRepo(txManager)
	saleRepo := document_repo.NewSaleRepo(txManager)
	restockRepo := document_repo.NewRestockRepo(txManager)

	jwtService := auth.NewJWTService(auth.DefaultJWTConfig("seed-only"))
	authService := auth.NewService(businessRepo, userRepo, tokenRepo, storeRepo, txManager, jwtService, auth.DefaultServiceConfig())

	storeService := store.NewService(storeRepo, txManager, gen)
	productService := product.NewService(productRepo, txManager, gen)
	stockService := stock.NewService(stockRepo)
	saleService := sale.NewService(saleRepo, stockService, productRepo, gen, txManager)
	restockService := restock.NewService(restockRepo, stockService, productRepo, gen, txManager)

	// Idempotent rerun: skip when the demo account already exists
	if existing, err := userRepo.GetByEmail(ctx, demoEmail); err == nil && existing != nil {
		log.Infow("demo business already seeded", "email", demoEmail)
		return
	}

	business, owner, err := authService.RegisterBusiness(ctx, auth.RegisterBusinessRequest{
		BusinessName: "Demo Outfitters",
		Currency:     "USD",
		StoreName:    "Main Street",
		Email:        demoEmail,
		Password:     demoPassword,
		FirstName:    "Demo",
		LastName:     "Owner",
	})
	if err != nil {
		log.Fatalw("failed to register demo business", "error", err)
	}
	log.Infow("registered demo business", "business_id", business.ID, "email", demoEmail)

	// Documents stamp the acting user from context
	ctx = appctx.WithUser(ctx, &appctx.UserContext{
		UserID:     owner.ID.String(),
		BusinessID: business.ID.String(),
		Email:      owner.Email,
		Role:       owner.Role,
		IsOwner:    true,
	})

	mainStore, err := storeService.GetDefault(ctx, business.ID)
	if err != nil {
		log.Fatalw("failed to load default store", "error", err)
	}

	products, err := seedProducts(ctx, productService)
	if err != nil {
		log.Fatalw("failed to seed products", "error", err)
	}
	log.Infow("seeded products", "count", len(products))

	if err := seedOpeningStock(ctx, restockService, mainStore, products); err != nil {
		log.Fatalw("failed to seed opening stock", "error", err)
	}
	log.Info("posted opening restock")

	if err := seedSales(ctx, saleService, mainStore, products); err != nil {
		log.Fatalw("failed to seed sales", "error", err)
	}
	log.Info("posted demo sales")

	log.Info("seeding completed successfully")
}

func seedProducts(ctx context.Context, svc *product.Service) ([]*product.Product, error) {
	low := func(n int) *int { return &n }

	tee := product.NewProduct("", "Classic Tee")
	tee.Brand = "Northline"
	tee.Category = "apparel"
	tee.AddVariant("TEE-S-BLK", "S / Black", types.MustMoney("19.90"), 0, low(5))
	tee.AddVariant("TEE-M-BLK", "M / Black", types.MustMoney("19.90"), 0, low(5))
	tee.AddVariant("TEE-L-BLK", "L / Black", types.MustMoney("19.90"), 0, low(5))

	bottle := product.NewProduct("", "Steel Bottle 0.7L")
	bottle.Brand = "Hydra"
	bottle.Category = "accessories"
	bottle.AddVariant("BTL-07-SLV", "Silver", types.MustMoney("24.50"), 0, low(3))

	beans := product.NewProduct("", "House Blend Coffee 250g")
	beans.Category = "food"
	beans.AddVariant("COF-250", "", types.MustMoney("12.00"), 0, nil)

	all := []*product.Product{tee, bottle, beans}
	for _, p := range all {
		if err := svc.Create(ctx, p); err != nil {
			return nil, fmt.Errorf("create product %q: %w", p.Name, err)
		}
	}
	return all, nil
}

func seedOpeningStock(ctx context.Context, svc *restock.Service, st *store.Store, products []*product.Product) error {
	doc := restock.NewRestock(st.ID)
	doc.SupplierName = "Initial inventory"

	for _, p := range products {
		for _, v := range p.Variants {
			doc.AddLine(v.ID, v.SKU, 20, types.RoundMoney(v.Price.Mul(types.NewMoney(0.5))))
		}
	}

	return svc.Create(ctx, doc)
}

func seedSales(ctx context.Context, svc *sale.Service, st *store.Store, products []*product.Product) error {
	tee := products[0]
	bottle := products[1]

	first := sale.NewSale(st.ID)
	first.CustomerName = "Jane Doe"
	first.PaymentMethod = sale.PaymentCash
	first.AddLine(tee.Variants[1].ID, tee.Variants[1].SKU, 2, tee.Variants[1].Price)
	first.AddLine(bottle.Variants[0].ID, bottle.Variants[0].SKU, 1, bottle.Variants[0].Price)
	if err := svc.Create(ctx, first); err != nil {
		return fmt.Errorf("create first sale: %w", err)
	}

	second := sale.NewSale(st.ID)
	second.PaymentMethod = sale.PaymentCard
	second.AddLine(tee.Variants[0].ID, tee.Variants[0].SKU, 1, tee.Variants[0].Price)
	if err := svc.Create(ctx, second); err != nil {
		return fmt.Errorf("create second sale: %w", err)
	}

	return nil
}
