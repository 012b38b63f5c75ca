package dto

import (
	"encoding/json"
	"time"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/domain/documents/restock"
	"stockpilot/internal/domain/forms"
)

// CreateRestockRequest represents a request to create (and post) a restock.
type CreateRestockRequest struct {
	Date         *time.Time           `json:"date,omitempty"`
	StoreID      string               `json:"storeId,omitempty"`
	SupplierName string               `json:"supplierName,omitempty"`
	SupplierRef  string               `json:"supplierRef,omitempty"`
	Comment      string               `json:"comment,omitempty"`
	Lines        []RestockLineRequest `json:"lines"`
}

// RestockLineRequest represents one received item in a create request.
type RestockLineRequest struct {
	VariantID string      `json:"variantId"`
	SKU       string      `json:"sku,omitempty"`
	Quantity  int         `json:"quantity"`
	UnitCost  json.Number `json:"unitCost"`
}

// ToEntity converts the request to a domain entity. Malformed ids and
// amounts come back as a field-keyed validation error.
func (r *CreateRestockRequest) ToEntity(storeID id.ID) (*restock.Restock, error) {
	doc := restock.NewRestock(storeID)
	if r.Date != nil {
		doc.Date = *r.Date
	}
	doc.SupplierName = r.SupplierName
	doc.SupplierRef = r.SupplierRef
	doc.Comment = r.Comment

	g := forms.NewGate()
	for i, line := range r.Lines {
		variantID := parseLineVariantID(g, i, line.VariantID)
		cost := parseLineAmount(g, i, "unitCost", line.UnitCost)
		doc.AddLine(variantID, line.SKU, line.Quantity, cost)
	}

	if ok, errs := g.Result(); !ok {
		return nil, apperror.NewFieldErrors("restock validation failed", errs)
	}
	return doc, nil
}
