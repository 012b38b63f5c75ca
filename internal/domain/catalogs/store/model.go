// Package store provides the Store catalog. A business owns one or more
// stores; every document and stock balance is scoped to a store.
package store

import (
	"context"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/entity"
	"stockpilot/internal/core/id"
)

// Store represents a physical or online retail location.
type Store struct {
	entity.Catalog

	// BusinessID is the owning business
	BusinessID id.ID `db:"business_id" json:"businessId"`

	// Address is the store location
	Address string `db:"address" json:"address,omitempty"`

	// Phone is the contact phone number
	Phone string `db:"phone" json:"phone,omitempty"`

	// Currency is the ISO 4217 currency code used for pricing
	Currency string `db:"currency" json:"currency"`

	// IsDefault marks the store selected after sign-in
	IsDefault bool `db:"is_default" json:"isDefault"`
}

// NewStore creates a new store for a business.
func NewStore(businessID id.ID, code, name string) *Store {
	return &Store{
		Catalog:    entity.NewCatalog(code, name),
		BusinessID: businessID,
		Currency:   "USD",
	}
}

// Validate implements entity.Validatable.
func (s *Store) Validate(ctx context.Context) error {
	if err := s.Catalog.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(s.BusinessID) {
		return apperror.NewValidation("business is required").
			WithDetail("field", "businessId")
	}

	if len(s.Currency) != 3 {
		return apperror.NewValidation("currency must be a 3-letter ISO code").
			WithDetail("field", "currency").
			WithDetail("value", s.Currency)
	}

	return nil
}
