// Package report_repo provides PostgreSQL implementations for report repositories.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockpilot/internal/core/id"
	"stockpilot/internal/domain/reports"
	"stockpilot/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
// Reads run against posted documents and the balance register; listing
// queries never lock rows.
type ReportRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetSalesSummary aggregates posted sales and returns for the period.
func (r *ReportRepo) GetSalesSummary(ctx context.Context, filter reports.SalesSummaryFilter) (*reports.SalesSummary, error) {
	querier := r.txManager.GetQuerier(ctx)

	summary := &reports.SalesSummary{
		FromDate: filter.FromDate,
		ToDate:   filter.ToDate,
	}

	salesSQL := `
		SELECT
			COUNT(*),
			COALESCE(SUM(total_quantity), 0),
			COALESCE(SUM(total_amount), 0)
		FROM doc_sales
		WHERE posted = TRUE
		  AND deletion_mark = FALSE
		  AND date >= $1 AND date < $2
	`
	args := []any{filter.FromDate, filter.ToDate}
	if filter.StoreID != nil {
		salesSQL += " AND store_id = $3"
		args = append(args, *filter.StoreID)
	}

	if err := querier.QueryRow(ctx, salesSQL, args...).Scan(
		&summary.SalesCount, &summary.ItemsSold, &summary.GrossRevenue,
	); err != nil {
		return nil, fmt.Errorf("sales totals: %w", err)
	}

	refundsSQL := `
		SELECT
			COUNT(*),
			COALESCE(SUM(total_refund), 0)
		FROM doc_returns
		WHERE posted = TRUE
		  AND deletion_mark = FALSE
		  AND date >= $1 AND date < $2
	`
	if filter.StoreID != nil {
		refundsSQL += " AND store_id = $3"
	}

	if err := querier.QueryRow(ctx, refundsSQL, args...).Scan(
		&summary.RefundsCount, &summary.RefundsAmount,
	); err != nil {
		return nil, fmt.Errorf("refund totals: %w", err)
	}

	byPaymentSQL := `
		SELECT
			payment_method,
			COUNT(*) AS sales_count,
			COALESCE(SUM(total_amount), 0) AS amount
		FROM doc_sales
		WHERE posted = TRUE
		  AND deletion_mark = FALSE
		  AND date >= $1 AND date < $2
	`
	if filter.StoreID != nil {
		byPaymentSQL += " AND store_id = $3"
	}
	byPaymentSQL += `
		GROUP BY payment_method
		ORDER BY amount DESC
	`

	if err := pgxscan.Select(ctx, querier, &summary.ByPayment, byPaymentSQL, args...); err != nil {
		return nil, fmt.Errorf("payment breakdown: %w", err)
	}

	return summary, nil
}

// GetRevenueByDay returns per-day sales totals for the period.
// Only days with sales come back; the service layer fills the gaps.
func (r *ReportRepo) GetRevenueByDay(ctx context.Context, fromDate, toDate time.Time, storeID *id.ID) ([]reports.RevenuePoint, error) {
	sql := `
		SELECT
			date_trunc('day', date) AS date,
			COUNT(*) AS sales_count,
			COALESCE(SUM(total_amount), 0) AS revenue
		FROM doc_sales
		WHERE posted = TRUE
		  AND deletion_mark = FALSE
		  AND date >= $1 AND date < $2
	`
	args := []any{fromDate, toDate}
	if storeID != nil {
		sql += " AND store_id = $3"
		args = append(args, *storeID)
	}
	sql += `
		GROUP BY date_trunc('day', date)
		ORDER BY date
	`

	var points []reports.RevenuePoint
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &points, sql, args...); err != nil {
		return nil, fmt.Errorf("revenue by day: %w", err)
	}

	return points, nil
}

// GetTopProducts returns best-selling variants by revenue for the period.
func (r *ReportRepo) GetTopProducts(ctx context.Context, filter reports.TopProductsFilter) ([]reports.TopProductItem, error) {
	sql := `
		SELECT
			p.id AS product_id,
			p.name AS product_name,
			v.id AS variant_id,
			v.sku AS sku,
			COALESCE(SUM(l.quantity), 0) AS qty_sold,
			COALESCE(SUM(l.amount), 0) AS revenue
		FROM doc_sale_lines l
		JOIN doc_sales s ON s.id = l.document_id
		JOIN cat_product_variant v ON v.id = l.variant_id
		JOIN cat_product p ON p.id = v.product_id
		WHERE s.posted = TRUE
		  AND s.deletion_mark = FALSE
		  AND s.date >= $1 AND s.date < $2
	`
	args := []any{filter.FromDate, filter.ToDate}
	argIndex := 3
	if filter.StoreID != nil {
		sql += fmt.Sprintf(" AND s.store_id = $%d", argIndex)
		args = append(args, *filter.StoreID)
		argIndex++
	}
	sql += fmt.Sprintf(`
		GROUP BY p.id, p.name, v.id, v.sku
		ORDER BY revenue DESC, qty_sold DESC
		LIMIT $%d
	`, argIndex)
	args = append(args, filter.Limit)

	var items []reports.TopProductItem
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}

	return items, nil
}

// GetStockBalanceReport joins the balance register with catalog details.
func (r *ReportRepo) GetStockBalanceReport(ctx context.Context, filter reports.StockBalanceFilter) (*reports.StockBalanceReport, error) {
	base := r.builder.Select().
		From("reg_stock_balances b").
		Join("cat_store st ON st.id = b.store_id").
		Join("cat_product_variant v ON v.id = b.variant_id").
		Join("cat_product p ON p.id = v.product_id").
		Where(squirrel.Eq{"p.deletion_mark": false})

	if filter.StoreID != nil {
		base = base.Where(squirrel.Eq{"b.store_id": *filter.StoreID})
	}
	if filter.ExcludeZero {
		base = base.Where(squirrel.NotEq{"b.quantity": 0})
	}
	if filter.LowStockOnly {
		base = base.Where("v.low_stock_threshold IS NOT NULL AND b.quantity <= v.low_stock_threshold")
	}

	querier := r.txManager.GetQuerier(ctx)

	totalsQ := base.Columns("COUNT(*)", "COALESCE(SUM(b.quantity), 0)")
	totalsSQL, totalsArgs, err := totalsQ.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build totals: %w", err)
	}

	report := &reports.StockBalanceReport{}
	if err := querier.QueryRow(ctx, totalsSQL, totalsArgs...).Scan(
		&report.TotalItems, &report.TotalQuantity,
	); err != nil {
		return nil, fmt.Errorf("stock balance totals: %w", err)
	}

	q := base.Columns(
		"b.store_id",
		"st.name AS store_name",
		"p.id AS product_id",
		"p.name AS product_name",
		"v.id AS variant_id",
		"v.sku AS sku",
		"b.quantity",
		"v.low_stock_threshold",
	).OrderBy("st.name", "p.name", "v.sku")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &report.Items, sql, args...); err != nil {
		return nil, fmt.Errorf("stock balance report: %w", err)
	}

	return report, nil
}

var _ reports.Repository = (*ReportRepo)(nil)
