package auth_repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/domain/auth"
	"stockpilot/internal/infrastructure/storage/postgres"
)

// BusinessRepo implements auth.BusinessRepository.
type BusinessRepo struct {
	txManager *postgres.TxManager
}

// NewBusinessRepo creates a new business repository.
func NewBusinessRepo(txManager *postgres.TxManager) *BusinessRepo {
	return &BusinessRepo{txManager: txManager}
}

// Create creates a new business.
func (r *BusinessRepo) Create(ctx context.Context, business *auth.Business) error {
	q := r.txManager.GetQuerier(ctx)

	query := `
		INSERT INTO businesses (id, name, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := q.Exec(ctx, query,
		business.ID, business.Name, business.Currency,
		business.CreatedAt, business.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert business: %w", err)
	}

	return nil
}

// GetByID retrieves a business by ID.
func (r *BusinessRepo) GetByID(ctx context.Context, businessID id.ID) (*auth.Business, error) {
	q := r.txManager.GetQuerier(ctx)

	query := `
		SELECT id, name, currency, created_at, updated_at
		FROM businesses WHERE id = $1
	`

	var business auth.Business
	err := q.QueryRow(ctx, query, businessID).Scan(
		&business.ID, &business.Name, &business.Currency,
		&business.CreatedAt, &business.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, apperror.NewNotFound("business", businessID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("query business: %w", err)
	}

	return &business, nil
}

// Update updates business data.
func (r *BusinessRepo) Update(ctx context.Context, business *auth.Business) error {
	q := r.txManager.GetQuerier(ctx)

	query := `
		UPDATE businesses SET name = $2, currency = $3, updated_at = now()
		WHERE id = $1
	`

	result, err := q.Exec(ctx, query, business.ID, business.Name, business.Currency)
	if err != nil {
		return fmt.Errorf("update business: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("business", business.ID.String())
	}

	return nil
}

var _ auth.BusinessRepository = (*BusinessRepo)(nil)
