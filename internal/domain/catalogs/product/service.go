package product

import (
	"context"
	"fmt"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/core/numerator"
	"stockpilot/internal/core/tx"
	"stockpilot/internal/domain"
	"stockpilot/internal/domain/view"
)

// Service provides business logic for the Product catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Product]
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new Product service.
func NewService(repo Repository, txManager tx.Manager, gen numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  gen,
		EntityName: "product",
		CodePrefix: "PRD",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		txManager:      txManager,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.checkSKUConflicts)
	base.Hooks().OnAfterCreate(svc.saveVariants)
	base.Hooks().OnAfterUpdate(svc.saveVariants)

	return svc
}

// prepareForCreate handles code generation and SKU uniqueness checks.
func (s *Service) prepareForCreate(ctx context.Context, p *Product) error {
	if p.Code == "" {
		code, err := s.NextCode(ctx)
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		p.Code = code
	}
	return s.checkSKUConflicts(ctx, p)
}

// checkSKUConflicts rejects SKUs already owned by another product.
func (s *Service) checkSKUConflicts(ctx context.Context, p *Product) error {
	for _, v := range p.Variants {
		existing, err := s.repo.FindBySKU(ctx, v.SKU)
		if err != nil {
			if apperror.IsNotFound(err) {
				continue
			}
			return fmt.Errorf("check sku %q: %w", v.SKU, err)
		}
		if existing.ProductID != p.ID {
			return apperror.NewDuplicate("variant", "sku", v.SKU)
		}
	}
	return nil
}

func (s *Service) saveVariants(ctx context.Context, p *Product) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.SaveVariants(ctx, p.ID, p.Variants)
	})
}

// GetWithVariants retrieves a product and its variants.
func (s *Service) GetWithVariants(ctx context.Context, productID id.ID) (*Product, error) {
	p, err := s.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	variants, err := s.repo.GetVariants(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get variants: %w", err)
	}
	p.Variants = variants
	return p, nil
}

// GetVariant retrieves a single variant.
func (s *Service) GetVariant(ctx context.Context, variantID id.ID) (*Variant, error) {
	return s.repo.GetVariant(ctx, variantID)
}

// FindBySKU retrieves the variant with the given SKU.
func (s *Service) FindBySKU(ctx context.Context, sku string) (*Variant, error) {
	return s.repo.FindBySKU(ctx, sku)
}

// Categories returns the distinct category values in use.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

// ProjectList loads all products with variants and projects them into the
// filtered, classified, paginated table view.
func (s *Service) ProjectList(ctx context.Context, filters view.Filters, page, pageSize int) (view.Result, error) {
	listed, err := s.repo.ListWithVariants(ctx, domain.ListFilter{OrderBy: "name", Limit: 0})
	if err != nil {
		return view.Result{}, fmt.Errorf("list products: %w", err)
	}

	items := make([]view.Item, 0, len(listed.Items))
	for _, p := range listed.Items {
		items = append(items, p.ToViewItem())
	}

	return view.Project(items, filters, page, pageSize), nil
}
