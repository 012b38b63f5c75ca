package salereturn

import (
	"context"
	"fmt"
	"time"

	"stockpilot/internal/core/apperror"
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

// SaleChecker verifies that a referenced sale document exists.
type SaleChecker interface {
	Exists(ctx context.Context, saleID id.ID) (bool, error)
}

// Service provides business operations for return documents.
type Service struct {
	repo      Repository
	stock     *stock.Service
	variants  VariantAdjuster
	sales     SaleChecker
	numerator numerator.Generator
	txManager tx.Manager
	hooks     *domain.HookRegistry[*Return]
}

// NewService creates a new return service.
func NewService(
	repo Repository,
	stockSvc *stock.Service,
	variants VariantAdjuster,
	sales SaleChecker,
	numerator numerator.Generator,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		stock:     stockSvc,
		variants:  variants,
		sales:     sales,
		numerator: numerator,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*Return](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Return] {
	return s.hooks
}

// Create validates, numbers, saves and posts a return in one transaction.
// Lines resolved as restock go back into stock; discarded lines only
// contribute to the refund total.
func (s *Service) Create(ctx context.Context, doc *Return) error {
	if err := s.hooks.RunBeforeCreate(ctx, doc); err != nil {
		return err
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if doc.SaleID != nil {
		exists, err := s.sales.Exists(ctx, *doc.SaleID)
		if err != nil {
			return fmt.Errorf("check sale: %w", err)
		}
		if !exists {
			return apperror.NewNotFound("sale", *doc.SaleID)
		}
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
			if line.Resolution != ResolutionRestock {
				continue
			}
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

	logger.Info(ctx, "return created",
		"id", doc.ID,
		"number", doc.Number,
		"refund", doc.TotalRefund,
	)

	return nil
}

// GetByID retrieves a return with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Return, error) {
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

// Unpost reverses the return's stock movements.
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
			if line.Resolution != ResolutionRestock {
				continue
			}
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
			if line.Resolution != ResolutionRestock {
				continue
			}
			if err := s.variants.AdjustVariantQuantity(ctx, line.VariantID, -line.Quantity); err != nil {
				return fmt.Errorf("adjust variant %s: %w", line.VariantID, err)
			}
		}

		doc.MarkUnposted()
		return s.repo.Update(ctx, doc)
	})
}

// Delete soft-deletes an unposted return.
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

// List retrieves returns with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Return], error) {
	return s.repo.List(ctx, filter)
}
