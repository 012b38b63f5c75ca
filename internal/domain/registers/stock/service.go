package stock

import (
	"context"
	"fmt"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/pkg/logger"
)

// Service provides business operations for the stock register.
// Transactions are managed by the caller (document posting).
type Service struct {
	repo Repository
}

// NewService creates a new stock register service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Requirement describes a quantity a document needs available before it
// can post an expense movement.
type Requirement struct {
	StoreID   id.ID
	VariantID id.ID
	Quantity  int
}

// RecordMovements records stock movements from a document posting.
// Called within the posting transaction.
func (s *Service) RecordMovements(ctx context.Context, movements []Movement) error {
	if len(movements) == 0 {
		return nil
	}

	for i, m := range movements {
		if m.Quantity <= 0 {
			return apperror.NewValidation(fmt.Sprintf("movement %d: quantity must be positive", i))
		}
		if id.IsNil(m.DocumentID) {
			return apperror.NewValidation(fmt.Sprintf("movement %d: document_id is required", i))
		}
	}

	if err := s.repo.CreateMovements(ctx, movements); err != nil {
		return fmt.Errorf("create movements: %w", err)
	}

	logger.Info(ctx, "recorded stock movements",
		"count", len(movements),
		"document_id", movements[0].DocumentID,
	)

	return nil
}

// ReverseMovements removes a document's movements (used during unposting).
func (s *Service) ReverseMovements(ctx context.Context, documentID id.ID) error {
	if err := s.repo.DeleteMovementsByDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}

	logger.Info(ctx, "reversed stock movements", "document_id", documentID)

	return nil
}

// CheckAvailability validates stock availability with pessimistic locking.
// Must be called within a transaction before recording expense movements.
func (s *Service) CheckAvailability(ctx context.Context, requirements []Requirement) error {
	for _, r := range requirements {
		balance, err := s.repo.GetBalanceForUpdate(ctx, r.StoreID, r.VariantID)
		if err != nil {
			return fmt.Errorf("get balance for %s: %w", r.VariantID, err)
		}

		if balance.Quantity < r.Quantity {
			return apperror.NewInsufficientStock(r.VariantID.String(), r.Quantity, balance.Quantity)
		}
	}

	return nil
}

// GetBalance retrieves the balance for one variant in one store.
func (s *Service) GetBalance(ctx context.Context, storeID, variantID id.ID) (Balance, error) {
	return s.repo.GetBalance(ctx, storeID, variantID)
}

// ListBalances retrieves all balances for a store.
func (s *Service) ListBalances(ctx context.Context, storeID id.ID) ([]Balance, error) {
	return s.repo.ListBalances(ctx, storeID)
}
