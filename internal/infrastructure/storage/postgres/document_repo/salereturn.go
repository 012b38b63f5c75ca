package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockpilot/internal/core/id"
	"stockpilot/internal/domain"
	"stockpilot/internal/domain/documents/salereturn"
	"stockpilot/internal/infrastructure/storage/postgres"
)

const (
	returnsTable     = "doc_returns"
	returnLinesTable = "doc_return_lines"
)

// ReturnRepo implements salereturn.Repository.
type ReturnRepo struct {
	*BaseDocumentRepo[*salereturn.Return]
}

// NewReturnRepo creates a new return repository.
func NewReturnRepo(txManager *postgres.TxManager) *ReturnRepo {
	return &ReturnRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			returnsTable,
			postgres.ExtractDBColumns[salereturn.Return](),
			func() *salereturn.Return { return &salereturn.Return{} },
		),
	}
}

// GetLines retrieves lines for a return.
func (r *ReturnRepo) GetLines(ctx context.Context, docID id.ID) ([]salereturn.ReturnLine, error) {
	q := r.Builder().
		Select(
			"line_id", "line_no", "variant_id", "sku",
			"quantity", "unit_price", "amount", "resolution",
		).
		From(returnLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []salereturn.ReturnLine
	if err := pgxscan.Select(ctx, r.Querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// SaveLines saves lines for a return (delete existing + insert new).
func (r *ReturnRepo) SaveLines(ctx context.Context, docID id.ID, lines []salereturn.ReturnLine) error {
	querier := r.Querier(ctx)

	deleteSQL := "DELETE FROM " + returnLinesTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(returnLinesTable).
		Columns(
			"line_id", "document_id", "line_no", "variant_id", "sku",
			"quantity", "unit_price", "amount", "resolution",
		)

	for _, line := range lines {
		q = q.Values(
			line.LineID, docID, line.LineNo, line.VariantID, line.SKU,
			line.Quantity, line.UnitPrice, line.Amount, line.Resolution,
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

// List retrieves returns with filtering.
func (r *ReturnRepo) List(ctx context.Context, filter salereturn.ListFilter) (domain.ListResult[*salereturn.Return], error) {
	q := r.baseSelect()

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if filter.StoreID != nil {
		q = q.Where(squirrel.Eq{"store_id": *filter.StoreID})
	}

	if filter.SaleID != nil {
		q = q.Where(squirrel.Eq{"sale_id": *filter.SaleID})
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
			squirrel.ILike{"customer_name": searchPattern},
		})
	}

	return r.ListQuery(ctx, q, filter.ListFilter)
}

var _ salereturn.Repository = (*ReturnRepo)(nil)
