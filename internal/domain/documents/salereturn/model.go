// Package salereturn provides the Return document: items a customer
// brings back from a previous sale. Each line carries a resolution
// deciding whether the item goes back on the shelf or is written off.
package salereturn

import (
	"context"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/entity"
	"stockpilot/internal/core/id"
	"stockpilot/internal/core/types"
	"stockpilot/internal/domain/forms"
	"stockpilot/internal/domain/registers/stock"
)

// Line resolutions.
const (
	// ResolutionRestock puts the item back into sellable stock.
	ResolutionRestock = "restock"

	// ResolutionDiscard writes the item off (damaged, expired).
	// No stock movement is produced; only the refund is recorded.
	ResolutionDiscard = "discard"
)

// Return represents a sale return document.
type Return struct {
	entity.Document

	// SaleID references the original sale when known
	SaleID *id.ID `db:"sale_id" json:"saleId,omitempty"`

	CustomerName string `db:"customer_name" json:"customerName,omitempty"`

	// Reason is the customer's stated reason for the return
	Reason string `db:"reason" json:"reason"`

	// Totals (calculated from lines)
	TotalQuantity int         `db:"total_quantity" json:"totalQuantity"`
	TotalRefund   types.Money `db:"total_refund" json:"totalRefund"`

	// Table part: returned items
	Lines []ReturnLine `db:"-" json:"lines"`
}

// ReturnLine represents one returned variant.
type ReturnLine struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	VariantID id.ID  `db:"variant_id" json:"variantId"`
	SKU       string `db:"sku" json:"sku"`

	Quantity  int         `db:"quantity" json:"quantity"`
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
	Amount    types.Money `db:"amount" json:"amount"`

	Resolution string `db:"resolution" json:"resolution"`
}

// NewReturn creates a new return document for a store.
func NewReturn(storeID id.ID) *Return {
	return &Return{
		Document:    entity.NewDocument(storeID),
		TotalRefund: types.Zero(),
		Lines:       make([]ReturnLine, 0),
	}
}

// AddLine adds a returned item and recalculates totals.
func (r *Return) AddLine(variantID id.ID, sku string, quantity int, unitPrice types.Money, resolution string) {
	line := ReturnLine{
		LineID:     id.New(),
		LineNo:     len(r.Lines) + 1,
		VariantID:  variantID,
		SKU:        sku,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		Amount:     types.RoundMoney(unitPrice.Mul(types.NewMoney(float64(quantity)))),
		Resolution: resolution,
	}

	r.Lines = append(r.Lines, line)
	r.recalculateTotals()
}

// recalculateTotals updates document totals from lines.
func (r *Return) recalculateTotals() {
	r.TotalQuantity = 0
	r.TotalRefund = types.Zero()

	for _, line := range r.Lines {
		r.TotalQuantity += line.Quantity
		r.TotalRefund = r.TotalRefund.Add(line.Amount)
	}
}

// Validate implements entity.Validatable.
func (r *Return) Validate(ctx context.Context) error {
	if err := r.Document.Validate(ctx); err != nil {
		return err
	}

	g := forms.NewGate()

	g.Require("reason", r.Reason, "reason")

	if g.RequireLines("lines", len(r.Lines)) {
		g.EachLine(len(r.Lines), func(i int) {
			line := r.Lines[i]
			if id.IsNil(line.VariantID) {
				g.Fail(forms.Path("lines", i, "variantId"), "variant is required")
			}
			g.PositiveInt(forms.Path("lines", i, "quantity"), line.Quantity, "quantity")
			g.NonNegativeMoney(forms.Path("lines", i, "unitPrice"), line.UnitPrice, "unit price")

			switch line.Resolution {
			case ResolutionRestock, ResolutionDiscard:
			default:
				g.Fail(forms.Path("lines", i, "resolution"), "resolution must be restock or discard")
			}
		})
		g.UniqueRefs("lines", "variantId", len(r.Lines), func(i int) string {
			if id.IsNil(r.Lines[i].VariantID) {
				return ""
			}
			return r.Lines[i].VariantID.String()
		})
	}

	if ok, errs := g.Result(); !ok {
		return apperror.NewFieldErrors("return validation failed", errs)
	}

	return nil
}

// GetDocumentType returns the document type name.
func (r *Return) GetDocumentType() string {
	return "Return"
}

// Movements creates stock register movements for this document.
// Only lines resolved as restock produce movements.
func (r *Return) Movements() []stock.Movement {
	movements := make([]stock.Movement, 0, len(r.Lines))
	for _, line := range r.Lines {
		if line.Resolution != ResolutionRestock {
			continue
		}
		movements = append(movements, stock.NewMovement(
			r.ID, r.GetDocumentType(),
			r.StoreID, line.VariantID,
			stock.MovementReceipt, line.Quantity, r.Date,
		))
	}
	return movements
}
