// Package product provides the Product catalog: sellable items and their
// variants (size/color/etc.), each with its own SKU, price and stock level.
package product

import (
	"context"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/entity"
	"stockpilot/internal/core/id"
	"stockpilot/internal/core/types"
	"stockpilot/internal/domain/forms"
	"stockpilot/internal/domain/view"
)

// Product represents a catalog product with one or more variants.
type Product struct {
	entity.Catalog

	// Brand is the product brand name
	Brand string `db:"brand" json:"brand,omitempty"`

	// Category groups products for filtering
	Category string `db:"category" json:"category,omitempty"`

	// Description is a detailed description
	Description *string `db:"description" json:"description,omitempty"`

	// ImageURL is the product image URL
	ImageURL *string `db:"image_url" json:"imageUrl,omitempty"`

	// Table part: sellable variants
	Variants []Variant `db:"-" json:"variants"`
}

// Variant is one sellable variation of a product.
type Variant struct {
	ID        id.ID `db:"id" json:"id"`
	ProductID id.ID `db:"product_id" json:"productId"`

	// SKU is the stock keeping unit (unique within a business)
	SKU string `db:"sku" json:"sku"`

	// Attribute describes the variation (e.g. "Size M / Black")
	Attribute string `db:"attribute" json:"attribute,omitempty"`

	// Price is the selling price
	Price types.Money `db:"price" json:"price"`

	// Quantity is the current on-hand quantity for the active store
	Quantity int `db:"quantity" json:"quantity"`

	// LowStockThreshold flags the variant for restocking when quantity
	// falls below it. Nil disables the low-stock flag for this variant.
	LowStockThreshold *int `db:"low_stock_threshold" json:"lowStockThreshold,omitempty"`

	// ImageURL is an optional variant-specific image
	ImageURL *string `db:"image_url" json:"imageUrl,omitempty"`
}

// NewProduct creates a new product.
func NewProduct(code, name string) *Product {
	return &Product{
		Catalog:  entity.NewCatalog(code, name),
		Variants: make([]Variant, 0),
	}
}

// AddVariant appends a variant to the product.
func (p *Product) AddVariant(sku, attribute string, price types.Money, quantity int, lowStockThreshold *int) {
	p.Variants = append(p.Variants, Variant{
		ID:                id.New(),
		ProductID:         p.ID,
		SKU:               sku,
		Attribute:         attribute,
		Price:             price,
		Quantity:          quantity,
		LowStockThreshold: lowStockThreshold,
	})
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	g := forms.NewGate()
	g.Require("name", p.Name, "name")
	if g.RequireLines("variants", len(p.Variants)) {
		g.EachLine(len(p.Variants), func(i int) {
			v := p.Variants[i]
			g.Require(forms.Path("variants", i, "sku"), v.SKU, "sku")
			g.PositiveMoney(forms.Path("variants", i, "price"), v.Price, "price")
			g.NonNegativeInt(forms.Path("variants", i, "quantity"), v.Quantity, "quantity")
			if v.LowStockThreshold != nil {
				g.NonNegativeInt(forms.Path("variants", i, "lowStockThreshold"), *v.LowStockThreshold, "low stock threshold")
			}
		})
		g.UniqueRefs("variants", "sku", len(p.Variants), func(i int) string { return p.Variants[i].SKU })
	}

	if ok, errs := g.Result(); !ok {
		return apperror.NewFieldErrors("product validation failed", errs)
	}

	return nil
}

// VariantByID returns the variant with the given ID, or nil.
func (p *Product) VariantByID(variantID id.ID) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}

// ToViewItem converts the product into the projector's input shape.
func (p *Product) ToViewItem() view.Item {
	variants := make([]view.Variant, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, view.Variant{
			SKU:               v.SKU,
			Price:             v.Price,
			Quantity:          v.Quantity,
			LowStockThreshold: v.LowStockThreshold,
		})
	}
	return view.Item{
		ID:       p.ID,
		Name:     p.Name,
		Brand:    p.Brand,
		Category: p.Category,
		Variants: variants,
	}
}
