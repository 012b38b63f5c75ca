package restock

import (
	"context"
	"fmt"
	"time"

	"stockpilot/internal/core/id"
	"stockpilot/internal/core/numerator"
	"stockpilot/internal/core/tx"
	"stockpilot/internal/domain"
	"stockpilot/internal/domain/registers/stock"
	"stockpilot/pkg/logger"
)

// VariantAdjuster updates the denormalized on-hand quantity on variants.
type VariantAdjuster interface {
	AdjustVariantQuantity(ctx context.Context, variantID id.ID, delta int) error
}

// Service provides business operations for restock documents.
type Service struct {
	repo      Repository
	stock     *stock.Service
	variants  VariantAdjuster
	numerator numerator.Generator
	txManager tx.Manager
	hooks     *domain.HookRegistry[*Restock]
}

// NewService creates a new restock service.
func NewService(
	repo Repository,
	stockSvc *stock.Service,
	variants VariantAdjuster,
	numerator numerator.Generator,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		stock:     stockSvc,
		variants:  variants,
		numerator: numerator,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*Restock](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Restock] {
	return s.hooks
}

// Create validates, numbers, saves and posts a restock in one transaction.
func (s *Service) Create(ctx context.Context, doc *Restock) error {
	if err := s.hooks.RunBeforeCreate(ctx, doc); err != nil {
		return err
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if doc.Number == "" {
		cfg := numerator.DefaultConfig(NumberPrefix)
		number, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: NumeratorStrategy}, time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		doc.Number = number
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc.MarkPosted()

		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}

		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}

		if err := s.stock.RecordMovements(ctx, doc.Movements()); err != nil {
			return err
		}

		for _, line := range doc.Lines {
			if err := s.variants.AdjustVariantQuantity(ctx, line.VariantID, line.Quantity); err != nil {
				return fmt.Errorf("adjust variant %s: %w", line.VariantID, err)
			}
		}

		return nil
	})

	if err != nil {
		doc.MarkUnposted()
		return err
	}

	if err := s.hooks.RunAfterCreate(ctx, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "restock created",
		"id", doc.ID,
		"number", doc.Number,
		"quantity", doc.TotalQuantity,
	)

	return nil
}

// GetByID retrieves a restock with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Restock, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// Unpost reverses the restock's stock movements. Reversal locks the
// affected balances and fails if the received stock was already sold.
func (s *Service) Unpost(ctx context.Context, docID id.ID) error {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	if !doc.Posted {
		return nil
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		reqs := make([]stock.Requirement, 0, len(doc.Lines))
		for _, line := range doc.Lines {
			reqs = append(reqs, stock.Requirement{
				StoreID:   doc.StoreID,
				VariantID: line.VariantID,
				Quantity:  line.Quantity,
			})
		}
		if err := s.stock.CheckAvailability(ctx, reqs); err != nil {
			return err
		}

		if err := s.stock.ReverseMovements(ctx, doc.ID); err != nil {
			return err
		}

		for _, line := range doc.Lines {
			if err := s.variants.AdjustVariantQuantity(ctx, line.VariantID, -line.Quantity); err != nil {
				return fmt.Errorf("adjust variant %s: %w", line.VariantID, err)
			}
		}

		doc.MarkUnposted()
		return s.repo.Update(ctx, doc)
	})
}

// Delete soft-deletes an unposted restock.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	if err := doc.CanModify(); err != nil {
		return err
	}

	return s.repo.Delete(ctx, docID)
}

// List retrieves restocks with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Restock], error) {
	return s.repo.List(ctx, filter)
}
