package product

import (
	"context"

	"stockpilot/internal/core/id"
	"stockpilot/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]

	// SaveVariants replaces the variant set for a product.
	SaveVariants(ctx context.Context, productID id.ID, variants []Variant) error

	// GetVariants retrieves the variants of a product.
	GetVariants(ctx context.Context, productID id.ID) ([]Variant, error)

	// GetVariant retrieves a single variant by ID.
	GetVariant(ctx context.Context, variantID id.ID) (*Variant, error)

	// GetVariantForUpdate retrieves a variant with a row lock.
	GetVariantForUpdate(ctx context.Context, variantID id.ID) (*Variant, error)

	// AdjustVariantQuantity changes a variant's on-hand quantity by delta.
	AdjustVariantQuantity(ctx context.Context, variantID id.ID, delta int) error

	// FindBySKU retrieves the variant with the given SKU.
	FindBySKU(ctx context.Context, sku string) (*Variant, error)

	// ListWithVariants retrieves products with variants populated.
	ListWithVariants(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Product], error)

	// Categories returns the distinct category values in use.
	Categories(ctx context.Context) ([]string, error)
}
