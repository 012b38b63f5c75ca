package store

import (
	"context"
	"fmt"

	"stockpilot/internal/core/id"
	"stockpilot/internal/core/numerator"
	"stockpilot/internal/core/tx"
	"stockpilot/internal/domain"
)

// Service provides business logic for the Store catalog.
type Service struct {
	*domain.CatalogService[*Store]
	repo Repository
}

// NewService creates a new Store service.
func NewService(repo Repository, txManager tx.Manager, gen numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Store]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  gen,
		EntityName: "store",
		CodePrefix: "ST",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, st *Store) error {
	if st.Code == "" {
		code, err := s.NextCode(ctx)
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		st.Code = code
	}
	return nil
}

// ListByBusiness retrieves all stores of a business.
func (s *Service) ListByBusiness(ctx context.Context, businessID id.ID) ([]*Store, error) {
	return s.repo.ListByBusiness(ctx, businessID)
}

// GetDefault retrieves the business's default store, falling back to the
// first store when no default is marked.
func (s *Service) GetDefault(ctx context.Context, businessID id.ID) (*Store, error) {
	return s.repo.GetDefault(ctx, businessID)
}
