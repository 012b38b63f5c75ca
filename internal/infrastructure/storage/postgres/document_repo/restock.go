package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockpilot/internal/core/id"
	"stockpilot/internal/domain"
	"stockpilot/internal/domain/documents/restock"
	"stockpilot/internal/infrastructure/storage/postgres"
)

const (
	restocksTable     = "doc_restocks"
	restockLinesTable = "doc_restock_lines"
)

// RestockRepo implements restock.Repository.
type RestockRepo struct {
	*BaseDocumentRepo[*restock.Restock]
}

// NewRestockRepo creates a new restock repository.
func NewRestockRepo(txManager *postgres.TxManager) *RestockRepo {
	return &RestockRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			restocksTable,
			postgres.ExtractDBColumns[restock.Restock](),
			func() *restock.Restock { return &restock.Restock{} },
		),
	}
}

// GetLines retrieves lines for a restock.
func (r *RestockRepo) GetLines(ctx context.Context, docID id.ID) ([]restock.RestockLine, error) {
	q := r.Builder().
		Select(
			"line_id", "line_no", "variant_id", "sku",
			"quantity", "unit_cost", "amount",
		).
		From(restockLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []restock.RestockLine
	if err := pgxscan.Select(ctx, r.Querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// SaveLines saves lines for a restock (delete existing + insert new).
func (r *RestockRepo) SaveLines(ctx context.Context, docID id.ID, lines []restock.RestockLine) error {
	querier := r.Querier(ctx)

	deleteSQL := "DELETE FROM " + restockLinesTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(restockLinesTable).
		Columns(
			"line_id", "document_id", "line_no", "variant_id", "sku",
			"quantity", "unit_cost", "amount",
		)

	for _, line := range lines {
		q = q.Values(
			line.LineID, docID, line.LineNo, line.VariantID, line.SKU,
			line.Quantity, line.UnitCost, line.Amount,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

// List retrieves restocks with filtering.
func (r *RestockRepo) List(ctx context.Context, filter restock.ListFilter) (domain.ListResult[*restock.Restock], error) {
	q := r.baseSelect()

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if filter.StoreID != nil {
		q = q.Where(squirrel.Eq{"store_id": *filter.StoreID})
	}

	if filter.Posted != nil {
		q = q.Where(squirrel.Eq{"posted": *filter.Posted})
	}

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}

	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"number": searchPattern},
			squirrel.ILike{"supplier_name": searchPattern},
			squirrel.ILike{"supplier_ref": searchPattern},
		})
	}

	return r.ListQuery(ctx, q, filter.ListFilter)
}

var _ restock.Repository = (*RestockRepo)(nil)
