package store

import (
	"context"

	"stockpilot/internal/core/id"
	"stockpilot/internal/domain"
)

// Repository defines the interface for Store persistence.
type Repository interface {
	domain.CatalogRepository[*Store]

	// ListByBusiness retrieves all stores of a business.
	ListByBusiness(ctx context.Context, businessID id.ID) ([]*Store, error)

	// GetDefault retrieves the business's default store.
	GetDefault(ctx context.Context, businessID id.ID) (*Store, error)
}
