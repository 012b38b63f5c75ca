package dto

import (
	"stockpilot/internal/core/id"
	"stockpilot/internal/core/types"
	"stockpilot/internal/domain/catalogs/product"
)

// --- Request DTOs ---

// CreateProductRequest represents a request to create a product.
type CreateProductRequest struct {
	Code        string                  `json:"code,omitempty"`
	Name        string                  `json:"name" binding:"required"`
	Brand       string                  `json:"brand,omitempty"`
	Category    string                  `json:"category,omitempty"`
	Description *string                 `json:"description,omitempty"`
	ImageURL    *string                 `json:"imageUrl,omitempty"`
	Variants    []ProductVariantRequest `json:"variants"`
}

// ProductVariantRequest represents a variant in create/update requests.
type ProductVariantRequest struct {
	ID                string  `json:"id,omitempty"`
	SKU               string  `json:"sku"`
	Attribute         string  `json:"attribute,omitempty"`
	Price             float64 `json:"price"`
	Quantity          int     `json:"quantity"`
	LowStockThreshold *int    `json:"lowStockThreshold,omitempty"`
	ImageURL          *string `json:"imageUrl,omitempty"`
}

// ToEntity converts request to domain entity. Field-level rules run in
// the entity's Validate so the client receives the full error map.
func (r *CreateProductRequest) ToEntity() *product.Product {
	p := product.NewProduct(r.Code, r.Name)
	p.Brand = r.Brand
	p.Category = r.Category
	p.Description = r.Description
	p.ImageURL = r.ImageURL

	for _, v := range r.Variants {
		p.AddVariant(v.SKU, v.Attribute, types.NewMoney(v.Price), v.Quantity, v.LowStockThreshold)
		if v.ImageURL != nil {
			p.Variants[len(p.Variants)-1].ImageURL = v.ImageURL
		}
	}

	return p
}

// UpdateProductRequest represents a request to update a product.
type UpdateProductRequest struct {
	Code        *string                 `json:"code,omitempty"`
	Name        *string                 `json:"name,omitempty"`
	Brand       *string                 `json:"brand,omitempty"`
	Category    *string                 `json:"category,omitempty"`
	Description *string                 `json:"description,omitempty"`
	ImageURL    *string                 `json:"imageUrl,omitempty"`
	Variants    []ProductVariantRequest `json:"variants,omitempty"`
}

// ApplyTo applies updates to an existing entity. A nil Variants slice
// leaves the table part untouched; a non-nil one replaces it, keeping
// variant IDs where the client sent them back.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) {
	if r.Code != nil {
		p.Code = *r.Code
	}
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Brand != nil {
		p.Brand = *r.Brand
	}
	if r.Category != nil {
		p.Category = *r.Category
	}
	if r.Description != nil {
		p.Description = r.Description
	}
	if r.ImageURL != nil {
		p.ImageURL = r.ImageURL
	}

	if r.Variants != nil {
		variants := make([]product.Variant, 0, len(r.Variants))
		for _, v := range r.Variants {
			variantID := id.New()
			if v.ID != "" {
				if parsed, err := id.Parse(v.ID); err == nil {
					variantID = parsed
				}
			}
			variants = append(variants, product.Variant{
				ID:                variantID,
				ProductID:         p.ID,
				SKU:               v.SKU,
				Attribute:         v.Attribute,
				Price:             types.NewMoney(v.Price),
				Quantity:          v.Quantity,
				LowStockThreshold: v.LowStockThreshold,
				ImageURL:          v.ImageURL,
			})
		}
		p.Variants = variants
	}
}
