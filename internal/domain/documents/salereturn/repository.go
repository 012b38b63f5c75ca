package salereturn

import (
	"context"
	"time"

	"stockpilot/internal/core/id"
	"stockpilot/internal/domain"
)

// Repository defines operations for return documents.
type Repository interface {
	Create(ctx context.Context, doc *Return) error
	GetByID(ctx context.Context, docID id.ID) (*Return, error)
	GetByNumber(ctx context.Context, number string) (*Return, error)
	Update(ctx context.Context, doc *Return) error
	Delete(ctx context.Context, docID id.ID) error

	GetLines(ctx context.Context, docID id.ID) ([]ReturnLine, error)
	SaveLines(ctx context.Context, docID id.ID, lines []ReturnLine) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Return], error)
}

// ListFilter for filtering returns.
type ListFilter struct {
	domain.ListFilter

	StoreID  *id.ID
	SaleID   *id.ID
	Posted   *bool
	DateFrom *time.Time
	DateTo   *time.Time
}
