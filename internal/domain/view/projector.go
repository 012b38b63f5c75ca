// Package view computes read-only table projections over catalog entities:
// filtering, client-style pagination, stock status classification and
// price ranges. Projections are recomputed on demand and never persisted.
package view

import (
	"strings"

	"stockpilot/internal/core/id"
	"stockpilot/internal/core/types"
)

// StockStatus classifies an item's aggregate stock level.
type StockStatus string

const (
	StatusInStock    StockStatus = "in_stock"
	StatusLowStock   StockStatus = "low_stock"
	StatusOutOfStock StockStatus = "out_of_stock"
)

// CategoryAll disables category filtering.
const CategoryAll = "all"

// Variant is the projector's view of a product variant.
type Variant struct {
	SKU      string
	Price    types.Money
	Quantity int

	// LowStockThreshold is the quantity at or below which the variant is
	// flagged for restocking. Nil means the variant never triggers "low".
	LowStockThreshold *int
}

// Item is the raw entity a projection is computed from.
type Item struct {
	ID       id.ID
	Name     string
	Brand    string
	Category string
	Variants []Variant
}

// PriceRange is the min/max price across an item's variants.
// Single reports whether the range collapsed to one value; callers must
// render a scalar in that case, not a degenerate (V, V) pair.
type PriceRange struct {
	Min    types.Money `json:"min"`
	Max    types.Money `json:"max"`
	Single bool        `json:"single"`
}

// Row is a read-only projection of one item.
// It is recomputed from the latest fetched entities and never mutated.
type Row struct {
	ID         id.ID       `json:"id"`
	Name       string      `json:"name"`
	Brand      string      `json:"brand,omitempty"`
	Category   string      `json:"category,omitempty"`
	StockTotal int         `json:"stockTotal"`
	PriceRange PriceRange  `json:"priceRange"`
	Status     StockStatus `json:"status"`
}

// Filters narrow the projected set.
type Filters struct {
	// SearchText matches case-insensitively against name, brand and the
	// SKU of the first variant.
	SearchText string

	// Category must equal the item's category, or CategoryAll / empty to
	// match everything.
	Category string
}

// Result is a single projected page.
type Result struct {
	Rows       []Row `json:"rows"`
	TotalItems int   `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

// Project filters, classifies and paginates items.
//
// page is 1-indexed; pageSize must be positive. A page beyond the last one
// yields an empty row set rather than an error - callers clamp the page
// back into range when the filtered set shrinks. Pure function of its
// inputs; the source slice is never mutated.
func Project(items []Item, filters Filters, page, pageSize int) Result {
	if pageSize < 1 {
		pageSize = 1
	}
	if page < 1 {
		page = 1
	}

	filtered := make([]Item, 0, len(items))
	for _, it := range items {
		if matches(it, filters) {
			filtered = append(filtered, it)
		}
	}

	total := len(filtered)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	rows := make([]Row, 0, end-start)
	for _, it := range filtered[start:end] {
		rows = append(rows, Classify(it))
	}

	return Result{Rows: rows, TotalItems: total, TotalPages: totalPages}
}

// Classify computes the derived row for a single item.
func Classify(it Item) Row {
	row := Row{
		ID:       it.ID,
		Name:     it.Name,
		Brand:    it.Brand,
		Category: it.Category,
	}

	// effectiveThreshold is the minimum threshold across variants; a
	// variant without a threshold never triggers "low". A product-level
	// minimum can mask a genuinely low variant behind a healthy one -
	// preserved as the product behaves today, flagged for review.
	thresholdSet := false
	threshold := 0
	priceSet := false
	var minPrice, maxPrice types.Money

	for _, v := range it.Variants {
		row.StockTotal += v.Quantity

		if v.LowStockThreshold != nil && (!thresholdSet || *v.LowStockThreshold < threshold) {
			threshold = *v.LowStockThreshold
			thresholdSet = true
		}

		if !priceSet {
			minPrice, maxPrice = v.Price, v.Price
			priceSet = true
			continue
		}
		if v.Price.LessThan(minPrice) {
			minPrice = v.Price
		}
		if v.Price.GreaterThan(maxPrice) {
			maxPrice = v.Price
		}
	}

	row.PriceRange = PriceRange{
		Min:    minPrice,
		Max:    maxPrice,
		Single: minPrice.Equal(maxPrice),
	}

	switch {
	case row.StockTotal == 0:
		row.Status = StatusOutOfStock
	case thresholdSet && row.StockTotal < threshold:
		row.Status = StatusLowStock
	default:
		row.Status = StatusInStock
	}

	return row
}

func matches(it Item, f Filters) bool {
	if f.Category != "" && f.Category != CategoryAll && f.Category != it.Category {
		return false
	}

	search := strings.TrimSpace(f.SearchText)
	if search == "" {
		return true
	}
	search = strings.ToLower(search)

	if strings.Contains(strings.ToLower(it.Name), search) {
		return true
	}
	if strings.Contains(strings.ToLower(it.Brand), search) {
		return true
	}
	if len(it.Variants) > 0 &&
		strings.Contains(strings.ToLower(it.Variants[0].SKU), search) {
		return true
	}
	return false
}
