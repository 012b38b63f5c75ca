package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/domain"
	"stockpilot/internal/domain/catalogs/product"
	"stockpilot/internal/infrastructure/storage/postgres"
)

const (
	productTable = "cat_product"
	variantTable = "cat_product_variant"
)

var variantCols = postgres.ExtractDBColumns[product.Variant]()

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			productTable,
			postgres.ExtractDBColumns[product.Product](),
			func() *product.Product { return &product.Product{} },
		),
	}
}

// SaveVariants replaces the variant set for a product. Rows removed by
// the caller are deleted; the rest are upserted. Quantity is preserved
// on upsert: it belongs to document posting, not catalog edits.
func (r *ProductRepo) SaveVariants(ctx context.Context, productID id.ID, variants []product.Variant) error {
	querier := r.Querier(ctx)

	keep := make([]id.ID, 0, len(variants))
	for _, v := range variants {
		keep = append(keep, v.ID)
	}

	delQ := r.Builder().
		Delete(variantTable).
		Where(squirrel.Eq{"product_id": productID})
	if len(keep) > 0 {
		delQ = delQ.Where(squirrel.NotEq{"id": keep})
	}

	sql, args, err := delQ.ToSql()
	if err != nil {
		return fmt.Errorf("build delete variants: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete variants: %w", err)
	}

	for _, v := range variants {
		data := postgres.StructToMap(v)
		data["product_id"] = productID

		insQ := r.Builder().
			Insert(variantTable).
			SetMap(data).
			Suffix(`ON CONFLICT (id) DO UPDATE SET
				sku = EXCLUDED.sku,
				attribute = EXCLUDED.attribute,
				price = EXCLUDED.price,
				low_stock_threshold = EXCLUDED.low_stock_threshold,
				image_url = EXCLUDED.image_url`)

		sql, args, err := insQ.ToSql()
		if err != nil {
			return fmt.Errorf("build upsert variant: %w", err)
		}
		if _, err := querier.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("upsert variant %s: %w", v.SKU, err)
		}
	}

	return nil
}

// GetVariants retrieves the variants of a product.
func (r *ProductRepo) GetVariants(ctx context.Context, productID id.ID) ([]product.Variant, error) {
	q := r.Builder().
		Select(variantCols...).
		From(variantTable).
		Where(squirrel.Eq{"product_id": productID}).
		OrderBy("sku ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var variants []product.Variant
	if err := pgxscan.Select(ctx, r.Querier(ctx), &variants, sql, args...); err != nil {
		return nil, fmt.Errorf("get variants: %w", err)
	}

	return variants, nil
}

func (r *ProductRepo) getVariant(ctx context.Context, variantID id.ID, forUpdate bool) (*product.Variant, error) {
	q := r.Builder().
		Select(variantCols...).
		From(variantTable).
		Where(squirrel.Eq{"id": variantID}).
		Limit(1)
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var v product.Variant
	if err := pgxscan.Get(ctx, r.Querier(ctx), &v, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("variant", variantID.String())
		}
		return nil, fmt.Errorf("get variant: %w", err)
	}

	return &v, nil
}

// GetVariant retrieves a single variant by ID.
func (r *ProductRepo) GetVariant(ctx context.Context, variantID id.ID) (*product.Variant, error) {
	return r.getVariant(ctx, variantID, false)
}

// GetVariantForUpdate retrieves a variant with a row lock.
func (r *ProductRepo) GetVariantForUpdate(ctx context.Context, variantID id.ID) (*product.Variant, error) {
	return r.getVariant(ctx, variantID, true)
}

// AdjustVariantQuantity changes a variant's on-hand quantity by delta.
func (r *ProductRepo) AdjustVariantQuantity(ctx context.Context, variantID id.ID, delta int) error {
	q := r.Builder().
		Update(variantTable).
		Set("quantity", squirrel.Expr("quantity + ?", delta)).
		Where(squirrel.Eq{"id": variantID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("adjust quantity: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("variant", variantID.String())
	}

	return nil
}

// FindBySKU retrieves the variant with the given SKU.
func (r *ProductRepo) FindBySKU(ctx context.Context, sku string) (*product.Variant, error) {
	q := r.Builder().
		Select(variantCols...).
		From(variantTable).
		Where(squirrel.Eq{"sku": sku}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var v product.Variant
	if err := pgxscan.Get(ctx, r.Querier(ctx), &v, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("variant", sku)
		}
		return nil, fmt.Errorf("find by sku: %w", err)
	}

	return &v, nil
}

// ListWithVariants retrieves products with variants populated.
// Variants are fetched in one query and grouped in memory to avoid N+1.
func (r *ProductRepo) ListWithVariants(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*product.Product], error) {
	result, err := r.List(ctx, filter)
	if err != nil {
		return result, err
	}
	if len(result.Items) == 0 {
		return result, nil
	}

	productIDs := make([]id.ID, 0, len(result.Items))
	for _, p := range result.Items {
		productIDs = append(productIDs, p.ID)
	}

	q := r.Builder().
		Select(variantCols...).
		From(variantTable).
		Where(squirrel.Eq{"product_id": productIDs}).
		OrderBy("product_id, sku ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build variants query: %w", err)
	}

	var variants []product.Variant
	if err := pgxscan.Select(ctx, r.Querier(ctx), &variants, sql, args...); err != nil {
		return result, fmt.Errorf("list variants: %w", err)
	}

	byProduct := make(map[id.ID][]product.Variant, len(result.Items))
	for _, v := range variants {
		byProduct[v.ProductID] = append(byProduct[v.ProductID], v)
	}
	for _, p := range result.Items {
		p.Variants = byProduct[p.ID]
	}

	return result, nil
}

// Categories returns the distinct category values in use.
func (r *ProductRepo) Categories(ctx context.Context) ([]string, error) {
	q := r.Builder().
		Select("DISTINCT category").
		From(productTable).
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.NotEq{"category": ""}).
		OrderBy("category ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.Querier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

var _ product.Repository = (*ProductRepo)(nil)
