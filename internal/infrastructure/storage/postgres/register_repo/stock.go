// Package register_repo provides PostgreSQL implementations for register repositories.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockpilot/internal/core/id"
	"stockpilot/internal/domain/registers/stock"
	"stockpilot/internal/infrastructure/storage/postgres"
)

const (
	stockMovementsTable = "reg_stock_movements"
	stockBalancesTable  = "reg_stock_balances"
)

// StockRepo implements stock.Repository.
// Movements are append-only records; balances are a derived table
// maintained in the same transaction as the movements.
type StockRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewStockRepo creates a new stock register repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateMovements batch inserts movements and applies them to balances.
func (r *StockRepo) CreateMovements(ctx context.Context, movements []stock.Movement) error {
	if len(movements) == 0 {
		return nil
	}

	// Fast path: COPY when inside a transaction.
	columns := []string{
		"id", "document_id", "document_type",
		"store_id", "variant_id", "type", "quantity", "date",
	}
	if tx := r.txManager.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(r.txManager)
		rows := make([][]any, 0, len(movements))
		for _, m := range movements {
			rows = append(rows, []any{
				m.ID, m.DocumentID, m.DocumentType,
				m.StoreID, m.VariantID, m.Type, m.Quantity, m.Date,
			})
		}
		if _, err := inserter.CopyFromSlice(ctx, stockMovementsTable, columns, rows); err != nil {
			return fmt.Errorf("copy movements: %w", err)
		}
	} else {
		q := r.builder.Insert(stockMovementsTable).Columns(columns...)
		for _, m := range movements {
			q = q.Values(
				m.ID, m.DocumentID, m.DocumentType,
				m.StoreID, m.VariantID, m.Type, m.Quantity, m.Date,
			)
		}

		sql, args, err := q.ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}

		if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert movements: %w", err)
		}
	}

	return r.applyToBalances(ctx, movements, 1)
}

// DeleteMovementsByDocument removes a document's movements and reverses
// their balance effect. Movements are read back first so the reversal
// matches exactly what was recorded.
func (r *StockRepo) DeleteMovementsByDocument(ctx context.Context, documentID id.ID) error {
	movements, err := r.getMovementsByDocument(ctx, documentID)
	if err != nil {
		return err
	}
	if len(movements) == 0 {
		return nil
	}

	q := r.builder.Delete(stockMovementsTable).
		Where(squirrel.Eq{"document_id": documentID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}

	return r.applyToBalances(ctx, movements, -1)
}

func (r *StockRepo) getMovementsByDocument(ctx context.Context, documentID id.ID) ([]stock.Movement, error) {
	q := r.builder.Select(
		"id", "document_id", "document_type",
		"store_id", "variant_id", "type", "quantity", "date",
	).From(stockMovementsTable).
		Where(squirrel.Eq{"document_id": documentID}).
		OrderBy("date")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []stock.Movement
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}

	return movements, nil
}

type balanceKey struct {
	storeID   id.ID
	variantID id.ID
}

// applyToBalances upserts balance deltas accumulated per store+variant.
// sign is +1 when recording movements, -1 when reversing them.
func (r *StockRepo) applyToBalances(ctx context.Context, movements []stock.Movement, sign int) error {
	deltas := make(map[balanceKey]int, len(movements))
	order := make([]balanceKey, 0, len(movements))
	for _, m := range movements {
		key := balanceKey{storeID: m.StoreID, variantID: m.VariantID}
		if _, ok := deltas[key]; !ok {
			order = append(order, key)
		}
		deltas[key] += sign * m.SignedQuantity()
	}

	querier := r.txManager.GetQuerier(ctx)
	sql := `
		INSERT INTO reg_stock_balances (store_id, variant_id, quantity, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (store_id, variant_id)
		DO UPDATE SET
			quantity = reg_stock_balances.quantity + EXCLUDED.quantity,
			updated_at = NOW()
	`

	for _, key := range order {
		delta := deltas[key]
		if delta == 0 {
			continue
		}
		if _, err := querier.Exec(ctx, sql, key.storeID, key.variantID, delta); err != nil {
			return fmt.Errorf("apply balance delta: %w", err)
		}
	}

	return nil
}

// GetBalance returns the current balance for store+variant.
// A missing row means zero stock, not an error.
func (r *StockRepo) GetBalance(ctx context.Context, storeID, variantID id.ID) (stock.Balance, error) {
	return r.getBalance(ctx, storeID, variantID, false)
}

// GetBalanceForUpdate returns the balance with a pessimistic lock.
func (r *StockRepo) GetBalanceForUpdate(ctx context.Context, storeID, variantID id.ID) (stock.Balance, error) {
	return r.getBalance(ctx, storeID, variantID, true)
}

func (r *StockRepo) getBalance(ctx context.Context, storeID, variantID id.ID, forUpdate bool) (stock.Balance, error) {
	var balance stock.Balance

	q := r.builder.Select(
		"store_id", "variant_id", "quantity",
	).From(stockBalancesTable).
		Where(squirrel.Eq{
			"store_id":   storeID,
			"variant_id": variantID,
		}).Limit(1)

	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return balance, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &balance, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return stock.Balance{
				StoreID:   storeID,
				VariantID: variantID,
				Quantity:  0,
			}, nil
		}
		return balance, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

// ListBalances returns all non-zero balances for a store.
func (r *StockRepo) ListBalances(ctx context.Context, storeID id.ID) ([]stock.Balance, error) {
	q := r.builder.Select(
		"store_id", "variant_id", "quantity",
	).From(stockBalancesTable).
		Where(squirrel.Eq{"store_id": storeID}).
		Where(squirrel.NotEq{"quantity": 0}).
		OrderBy("variant_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var balances []stock.Balance
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("select balances: %w", err)
	}

	return balances, nil
}

var _ stock.Repository = (*StockRepo)(nil)
