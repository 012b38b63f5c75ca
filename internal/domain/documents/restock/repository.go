package restock

import (
	"context"
	"time"

	"stockpilot/internal/core/id"
	"stockpilot/internal/domain"
)

// Repository defines operations for restock documents.
type Repository interface {
	Create(ctx context.Context, doc *Restock) error
	GetByID(ctx context.Context, docID id.ID) (*Restock, error)
	GetByNumber(ctx context.Context, number string) (*Restock, error)
	Update(ctx context.Context, doc *Restock) error
	Delete(ctx context.Context, docID id.ID) error

	GetLines(ctx context.Context, docID id.ID) ([]RestockLine, error)
	SaveLines(ctx context.Context, docID id.ID, lines []RestockLine) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Restock], error)
}

// ListFilter for filtering restocks.
type ListFilter struct {
	domain.ListFilter

	StoreID  *id.ID
	Posted   *bool
	DateFrom *time.Time
	DateTo   *time.Time
}
