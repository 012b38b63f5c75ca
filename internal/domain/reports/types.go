// Package reports provides read-only analytics over posted documents
// and the stock register.
package reports

import (
	"time"

	"stockpilot/internal/core/id"
	"stockpilot/internal/core/types"
)

// --- Sales Summary ---

// SalesSummaryFilter defines the period and scope of a sales summary.
type SalesSummaryFilter struct {
	// Period (required)
	FromDate time.Time
	ToDate   time.Time

	// Scope to one store; nil means all stores of the business
	StoreID *id.ID
}

// SalesSummary aggregates posted sales over the period.
type SalesSummary struct {
	FromDate time.Time `json:"fromDate"`
	ToDate   time.Time `json:"toDate"`

	SalesCount    int         `json:"salesCount"`
	ItemsSold     int         `json:"itemsSold"`
	GrossRevenue  types.Money `json:"grossRevenue"`
	RefundsCount  int         `json:"refundsCount"`
	RefundsAmount types.Money `json:"refundsAmount"`
	NetRevenue    types.Money `json:"netRevenue"`
	AverageSale   types.Money `json:"averageSale"`

	// Breakdown by payment method
	ByPayment []PaymentSummary `json:"byPayment"`
}

// PaymentSummary is revenue grouped by payment method.
type PaymentSummary struct {
	PaymentMethod string      `json:"paymentMethod"`
	SalesCount    int         `json:"salesCount"`
	Amount        types.Money `json:"amount"`
}

// --- Revenue by Day ---

// RevenuePoint is one day of the revenue series. Days without sales
// are present with zero values so charts render a continuous axis.
type RevenuePoint struct {
	Date       time.Time   `json:"date"`
	SalesCount int         `json:"salesCount"`
	Revenue    types.Money `json:"revenue"`
}

// --- Top Products ---

// TopProductsFilter defines the period and size of a top-products report.
type TopProductsFilter struct {
	FromDate time.Time
	ToDate   time.Time
	StoreID  *id.ID

	// Limit caps the number of rows (default 10)
	Limit int
}

// TopProductItem is one row of the top-products report.
type TopProductItem struct {
	ProductID   id.ID       `json:"productId"`
	ProductName string      `json:"productName"`
	VariantID   id.ID       `json:"variantId"`
	SKU         string      `json:"sku"`
	QtySold     int         `json:"qtySold"`
	Revenue     types.Money `json:"revenue"`
}

// --- Stock Balance ---

// StockBalanceFilter defines filter for the stock balance report.
type StockBalanceFilter struct {
	StoreID *id.ID

	// Exclude variants with zero on-hand quantity
	ExcludeZero bool

	// Only variants at or below their low-stock threshold
	LowStockOnly bool

	Limit  int
	Offset int
}

// StockBalanceItem represents a single row in the stock balance report.
type StockBalanceItem struct {
	StoreID     id.ID  `json:"storeId"`
	StoreName   string `json:"storeName"`
	ProductID   id.ID  `json:"productId"`
	ProductName string `json:"productName"`
	VariantID   id.ID  `json:"variantId"`
	SKU         string `json:"sku"`
	Quantity    int    `json:"quantity"`

	LowStockThreshold *int `json:"lowStockThreshold,omitempty"`
}

// StockBalanceReport represents the full stock balance report.
type StockBalanceReport struct {
	Items      []StockBalanceItem `json:"items"`
	TotalItems int                `json:"totalItems"`

	TotalQuantity int `json:"totalQuantity"`
}
