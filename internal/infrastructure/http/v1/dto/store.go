package dto

import (
	"stockpilot/internal/core/id"
	"stockpilot/internal/domain/catalogs/store"
)

// --- Request DTOs ---

// CreateStoreRequest represents a request to create a store.
type CreateStoreRequest struct {
	Code      string `json:"code,omitempty"`
	Name      string `json:"name" binding:"required"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Currency  string `json:"currency,omitempty"`
	IsDefault bool   `json:"isDefault,omitempty"`
}

// ToEntity converts request to domain entity.
func (r *CreateStoreRequest) ToEntity(businessID id.ID) *store.Store {
	st := store.NewStore(businessID, r.Code, r.Name)
	st.Address = r.Address
	st.Phone = r.Phone
	st.IsDefault = r.IsDefault
	if r.Currency != "" {
		st.Currency = r.Currency
	}
	return st
}

// UpdateStoreRequest represents a request to update a store.
type UpdateStoreRequest struct {
	Code      *string `json:"code,omitempty"`
	Name      *string `json:"name,omitempty"`
	Address   *string `json:"address,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Currency  *string `json:"currency,omitempty"`
	IsDefault *bool   `json:"isDefault,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateStoreRequest) ApplyTo(st *store.Store) {
	if r.Code != nil {
		st.Code = *r.Code
	}
	if r.Name != nil {
		st.Name = *r.Name
	}
	if r.Address != nil {
		st.Address = *r.Address
	}
	if r.Phone != nil {
		st.Phone = *r.Phone
	}
	if r.Currency != nil {
		st.Currency = *r.Currency
	}
	if r.IsDefault != nil {
		st.IsDefault = *r.IsDefault
	}
}
