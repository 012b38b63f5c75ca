package sale

import (
	"context"
	"time"

	"stockpilot/internal/core/id"
	"stockpilot/internal/domain"
)

// Repository defines operations for sale documents.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *Sale) error
	GetByID(ctx context.Context, docID id.ID) (*Sale, error)
	GetByNumber(ctx context.Context, number string) (*Sale, error)
	Update(ctx context.Context, doc *Sale) error
	Delete(ctx context.Context, docID id.ID) error

	// Line operations
	GetLines(ctx context.Context, docID id.ID) ([]SaleLine, error)
	SaveLines(ctx context.Context, docID id.ID, lines []SaleLine) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Sale], error)

	// Exists checks document existence (used by return references)
	Exists(ctx context.Context, docID id.ID) (bool, error)
}

// ListFilter for filtering sales.
type ListFilter struct {
	domain.ListFilter

	StoreID       *id.ID
	PaymentMethod *string
	Posted        *bool
	DateFrom      *time.Time
	DateTo        *time.Time
}
