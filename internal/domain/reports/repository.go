package reports

import (
	"context"
	"time"

	"stockpilot/internal/core/id"
)

// Repository defines report data access interface.
type Repository interface {
	// Sales analytics
	GetSalesSummary(ctx context.Context, filter SalesSummaryFilter) (*SalesSummary, error)
	GetRevenueByDay(ctx context.Context, fromDate, toDate time.Time, storeID *id.ID) ([]RevenuePoint, error)
	GetTopProducts(ctx context.Context, filter TopProductsFilter) ([]TopProductItem, error)

	// Stock
	GetStockBalanceReport(ctx context.Context, filter StockBalanceFilter) (*StockBalanceReport, error)
}
