package stock

import (
	"context"

	"stockpilot/internal/core/id"
)

// Repository defines the interface for stock register persistence.
type Repository interface {
	// CreateMovements inserts movement records and updates balances.
	CreateMovements(ctx context.Context, movements []Movement) error

	// DeleteMovementsByDocument removes a document's movements and
	// reverses their balance effect (used during unposting).
	DeleteMovementsByDocument(ctx context.Context, documentID id.ID) error

	// GetBalance retrieves the balance for one variant in one store.
	GetBalance(ctx context.Context, storeID, variantID id.ID) (Balance, error)

	// GetBalanceForUpdate retrieves the balance with a row lock.
	GetBalanceForUpdate(ctx context.Context, storeID, variantID id.ID) (Balance, error)

	// ListBalances retrieves all balances for a store.
	ListBalances(ctx context.Context, storeID id.ID) ([]Balance, error)
}
