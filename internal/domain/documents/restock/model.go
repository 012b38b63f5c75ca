// Package restock provides the Restock document: incoming goods that
// replenish a store's stock.
package restock

import (
	"context"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/entity"
	"stockpilot/internal/core/id"
	"stockpilot/internal/core/types"
	"stockpilot/internal/domain/forms"
	"stockpilot/internal/domain/registers/stock"
)

// Restock represents a stock replenishment document.
type Restock struct {
	entity.Document

	// Supplier is free-text; internal transfers leave it empty
	SupplierName string `db:"supplier_name" json:"supplierName,omitempty"`

	// Supplier's own document reference, if any
	SupplierRef string `db:"supplier_ref" json:"supplierRef,omitempty"`

	// Totals (calculated from lines)
	TotalQuantity int         `db:"total_quantity" json:"totalQuantity"`
	TotalCost     types.Money `db:"total_cost" json:"totalCost"`

	// Table part: received items
	Lines []RestockLine `db:"-" json:"lines"`
}

// RestockLine represents one received variant.
type RestockLine struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	VariantID id.ID  `db:"variant_id" json:"variantId"`
	SKU       string `db:"sku" json:"sku"`

	Quantity int         `db:"quantity" json:"quantity"`
	UnitCost types.Money `db:"unit_cost" json:"unitCost"`
	Amount   types.Money `db:"amount" json:"amount"`
}

// NewRestock creates a new restock document for a store.
func NewRestock(storeID id.ID) *Restock {
	return &Restock{
		Document:  entity.NewDocument(storeID),
		TotalCost: types.Zero(),
		Lines:     make([]RestockLine, 0),
	}
}

// AddLine adds a received item and recalculates totals.
func (r *Restock) AddLine(variantID id.ID, sku string, quantity int, unitCost types.Money) {
	line := RestockLine{
		LineID:    id.New(),
		LineNo:    len(r.Lines) + 1,
		VariantID: variantID,
		SKU:       sku,
		Quantity:  quantity,
		UnitCost:  unitCost,
		Amount:    types.RoundMoney(unitCost.Mul(types.NewMoney(float64(quantity)))),
	}

	r.Lines = append(r.Lines, line)
	r.recalculateTotals()
}

// recalculateTotals updates document totals from lines.
func (r *Restock) recalculateTotals() {
	r.TotalQuantity = 0
	r.TotalCost = types.Zero()

	for _, line := range r.Lines {
		r.TotalQuantity += line.Quantity
		r.TotalCost = r.TotalCost.Add(line.Amount)
	}
}

// Validate implements entity.Validatable.
func (r *Restock) Validate(ctx context.Context) error {
	if err := r.Document.Validate(ctx); err != nil {
		return err
	}

	g := forms.NewGate()

	if g.RequireLines("lines", len(r.Lines)) {
		g.EachLine(len(r.Lines), func(i int) {
			line := r.Lines[i]
			if id.IsNil(line.VariantID) {
				g.Fail(forms.Path("lines", i, "variantId"), "variant is required")
			}
			g.PositiveInt(forms.Path("lines", i, "quantity"), line.Quantity, "quantity")
			// Unit cost may be zero: free samples and internal transfers
			g.NonNegativeMoney(forms.Path("lines", i, "unitCost"), line.UnitCost, "unit cost")
		})
		g.UniqueRefs("lines", "variantId", len(r.Lines), func(i int) string {
			if id.IsNil(r.Lines[i].VariantID) {
				return ""
			}
			return r.Lines[i].VariantID.String()
		})
	}

	if ok, errs := g.Result(); !ok {
		return apperror.NewFieldErrors("restock validation failed", errs)
	}

	return nil
}

// GetDocumentType returns the document type name.
func (r *Restock) GetDocumentType() string {
	return "Restock"
}

// Movements creates stock register movements for this document.
func (r *Restock) Movements() []stock.Movement {
	movements := make([]stock.Movement, 0, len(r.Lines))
	for _, line := range r.Lines {
		movements = append(movements, stock.NewMovement(
			r.ID, r.GetDocumentType(),
			r.StoreID, line.VariantID,
			stock.MovementReceipt, line.Quantity, r.Date,
		))
	}
	return movements
}
