// Package sale provides the Sale document: a completed retail sale that
// expenses stock from the store it belongs to.
package sale

import (
	"context"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/entity"
	"stockpilot/internal/core/id"
	"stockpilot/internal/core/types"
	"stockpilot/internal/domain/forms"
	"stockpilot/internal/domain/registers/stock"
)

// Payment methods accepted at the point of sale.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
	PaymentOther    = "other"
)

// Sale represents a completed sale document.
type Sale struct {
	entity.Document

	// Customer is free-text; walk-in sales leave it empty
	CustomerName string `db:"customer_name" json:"customerName,omitempty"`

	PaymentMethod string `db:"payment_method" json:"paymentMethod"`

	// Totals (calculated from lines)
	TotalQuantity int         `db:"total_quantity" json:"totalQuantity"`
	TotalAmount   types.Money `db:"total_amount" json:"totalAmount"`

	// Table part: sold items
	Lines []SaleLine `db:"-" json:"lines"`
}

// SaleLine represents one sold variant.
type SaleLine struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	VariantID id.ID  `db:"variant_id" json:"variantId"`
	SKU       string `db:"sku" json:"sku"`

	Quantity  int         `db:"quantity" json:"quantity"`
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
	Amount    types.Money `db:"amount" json:"amount"`
}

// NewSale creates a new sale document for a store.
func NewSale(storeID id.ID) *Sale {
	return &Sale{
		Document:      entity.NewDocument(storeID),
		PaymentMethod: PaymentCash,
		TotalAmount:   types.Zero(),
		Lines:         make([]SaleLine, 0),
	}
}

// AddLine adds a sold item and recalculates totals.
func (s *Sale) AddLine(variantID id.ID, sku string, quantity int, unitPrice types.Money) {
	line := SaleLine{
		LineID:    id.New(),
		LineNo:    len(s.Lines) + 1,
		VariantID: variantID,
		SKU:       sku,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Amount:    types.RoundMoney(unitPrice.Mul(types.NewMoney(float64(quantity)))),
	}

	s.Lines = append(s.Lines, line)
	s.recalculateTotals()
}

// recalculateTotals updates document totals from lines.
func (s *Sale) recalculateTotals() {
	s.TotalQuantity = 0
	s.TotalAmount = types.Zero()

	for _, line := range s.Lines {
		s.TotalQuantity += line.Quantity
		s.TotalAmount = s.TotalAmount.Add(line.Amount)
	}
}

// Validate implements entity.Validatable. All field rules run in one
// pass so the caller receives the complete error map at once.
func (s *Sale) Validate(ctx context.Context) error {
	if err := s.Document.Validate(ctx); err != nil {
		return err
	}

	g := forms.NewGate()

	switch s.PaymentMethod {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentOther:
	default:
		g.Fail("paymentMethod", "unknown payment method")
	}

	if g.RequireLines("lines", len(s.Lines)) {
		g.EachLine(len(s.Lines), func(i int) {
			line := s.Lines[i]
			if id.IsNil(line.VariantID) {
				g.Fail(forms.Path("lines", i, "variantId"), "variant is required")
			}
			g.PositiveInt(forms.Path("lines", i, "quantity"), line.Quantity, "quantity")
			g.PositiveMoney(forms.Path("lines", i, "unitPrice"), line.UnitPrice, "unit price")
		})
		g.UniqueRefs("lines", "variantId", len(s.Lines), func(i int) string {
			if id.IsNil(s.Lines[i].VariantID) {
				return ""
			}
			return s.Lines[i].VariantID.String()
		})
	}

	if ok, errs := g.Result(); !ok {
		return apperror.NewFieldErrors("sale validation failed", errs)
	}

	return nil
}

// GetDocumentType returns the document type name.
func (s *Sale) GetDocumentType() string {
	return "Sale"
}

// Movements creates stock register movements for this document.
func (s *Sale) Movements() []stock.Movement {
	movements := make([]stock.Movement, 0, len(s.Lines))
	for _, line := range s.Lines {
		movements = append(movements, stock.NewMovement(
			s.ID, s.GetDocumentType(),
			s.StoreID, line.VariantID,
			stock.MovementExpense, line.Quantity, s.Date,
		))
	}
	return movements
}

// Requirements returns the stock each line needs available before posting.
func (s *Sale) Requirements() []stock.Requirement {
	reqs := make([]stock.Requirement, 0, len(s.Lines))
	for _, line := range s.Lines {
		reqs = append(reqs, stock.Requirement{
			StoreID:   s.StoreID,
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
		})
	}
	return reqs
}
