// Package stock provides the stock accumulation register: per-store,
// per-variant quantity balances built from document movements.
package stock

import (
	"time"

	"stockpilot/internal/core/id"
)

// MovementType classifies a stock movement.
type MovementType string

const (
	// MovementReceipt increases on-hand quantity (restock, return to stock).
	MovementReceipt MovementType = "receipt"

	// MovementExpense decreases on-hand quantity (sale, discarded return).
	MovementExpense MovementType = "expense"
)

// Movement is one register record produced by posting a document.
type Movement struct {
	ID id.ID `db:"id" json:"id"`

	// DocumentID / DocumentType identify the recorder document
	DocumentID   id.ID  `db:"document_id" json:"documentId"`
	DocumentType string `db:"document_type" json:"documentType"`

	StoreID   id.ID `db:"store_id" json:"storeId"`
	VariantID id.ID `db:"variant_id" json:"variantId"`

	Type MovementType `db:"type" json:"type"`

	// Quantity is always positive; direction comes from Type
	Quantity int `db:"quantity" json:"quantity"`

	Date time.Time `db:"date" json:"date"`
}

// NewMovement creates a movement record for a document line.
func NewMovement(documentID id.ID, documentType string, storeID, variantID id.ID, typ MovementType, quantity int, date time.Time) Movement {
	return Movement{
		ID:           id.New(),
		DocumentID:   documentID,
		DocumentType: documentType,
		StoreID:      storeID,
		VariantID:    variantID,
		Type:         typ,
		Quantity:     quantity,
		Date:         date,
	}
}

// SignedQuantity returns the quantity with its direction applied.
func (m Movement) SignedQuantity() int {
	if m.Type == MovementExpense {
		return -m.Quantity
	}
	return m.Quantity
}

// Balance is the current on-hand quantity for one variant in one store.
type Balance struct {
	StoreID   id.ID `db:"store_id" json:"storeId"`
	VariantID id.ID `db:"variant_id" json:"variantId"`
	Quantity  int   `db:"quantity" json:"quantity"`
}
