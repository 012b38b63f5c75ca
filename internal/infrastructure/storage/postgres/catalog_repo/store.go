package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/domain/catalogs/store"
	"stockpilot/internal/infrastructure/storage/postgres"
)

const storeTable = "cat_store"

// StoreRepo implements store.Repository.
type StoreRepo struct {
	*BaseCatalogRepo[*store.Store]
}

// NewStoreRepo creates a new store repository.
func NewStoreRepo(txManager *postgres.TxManager) *StoreRepo {
	return &StoreRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			storeTable,
			postgres.ExtractDBColumns[store.Store](),
			func() *store.Store { return &store.Store{} },
		),
	}
}

// ListByBusiness retrieves all stores of a business.
func (r *StoreRepo) ListByBusiness(ctx context.Context, businessID id.ID) ([]*store.Store, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("is_default DESC, name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var stores []*store.Store
	if err := pgxscan.Select(ctx, r.Querier(ctx), &stores, sql, args...); err != nil {
		return nil, fmt.Errorf("list by business: %w", err)
	}

	return stores, nil
}

// GetDefault retrieves the business's default store, falling back to the
// first store when no default is marked.
func (r *StoreRepo) GetDefault(ctx context.Context, businessID id.ID) (*store.Store, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("is_default DESC, name ASC").
		Limit(1)

	st, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("store", businessID.String())
		}
		return nil, err
	}
	return st, nil
}

var _ store.Repository = (*StoreRepo)(nil)
