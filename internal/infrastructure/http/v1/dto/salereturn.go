package dto

import (
	"encoding/json"
	"time"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/domain/documents/salereturn"
	"stockpilot/internal/domain/forms"
)

// CreateReturnRequest represents a request to create (and post) a return.
type CreateReturnRequest struct {
	Date         *time.Time          `json:"date,omitempty"`
	StoreID      string              `json:"storeId,omitempty"`
	SaleID       string              `json:"saleId,omitempty"`
	CustomerName string              `json:"customerName,omitempty"`
	Reason       string              `json:"reason,omitempty"`
	Comment      string              `json:"comment,omitempty"`
	Lines        []ReturnLineRequest `json:"lines"`
}

// ReturnLineRequest represents one returned item in a create request.
type ReturnLineRequest struct {
	VariantID  string      `json:"variantId"`
	SKU        string      `json:"sku,omitempty"`
	Quantity   int         `json:"quantity"`
	UnitPrice  json.Number `json:"unitPrice"`
	Resolution string      `json:"resolution"`
}

// ToEntity converts the request to a domain entity. Malformed ids and
// amounts come back as a field-keyed validation error.
func (r *CreateReturnRequest) ToEntity(storeID id.ID) (*salereturn.Return, error) {
	doc := salereturn.NewReturn(storeID)
	if r.Date != nil {
		doc.Date = *r.Date
	}
	doc.CustomerName = r.CustomerName
	doc.Reason = r.Reason
	doc.Comment = r.Comment

	g := forms.NewGate()

	if r.SaleID != "" {
		saleID, err := id.Parse(r.SaleID)
		if err != nil {
			g.Fail("saleId", "invalid sale id")
		} else {
			doc.SaleID = &saleID
		}
	}

	for i, line := range r.Lines {
		variantID := parseLineVariantID(g, i, line.VariantID)
		price := parseLineAmount(g, i, "unitPrice", line.UnitPrice)
		doc.AddLine(variantID, line.SKU, line.Quantity, price, line.Resolution)
	}

	if ok, errs := g.Result(); !ok {
		return nil, apperror.NewFieldErrors("return validation failed", errs)
	}
	return doc, nil
}
