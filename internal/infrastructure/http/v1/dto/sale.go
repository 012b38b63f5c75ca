package dto

import (
	"encoding/json"
	"time"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/domain/documents/sale"
	"stockpilot/internal/domain/forms"
)

// --- Request DTOs ---

// CreateSaleRequest represents a request to create (and post) a sale.
// Line-level rules live in the domain validator so the client gets the
// complete field error map in one response.
type CreateSaleRequest struct {
	Date          *time.Time        `json:"date,omitempty"`
	StoreID       string            `json:"storeId,omitempty"`
	CustomerName  string            `json:"customerName,omitempty"`
	PaymentMethod string            `json:"paymentMethod,omitempty"`
	Comment       string            `json:"comment,omitempty"`
	Lines         []SaleLineRequest `json:"lines"`
}

// SaleLineRequest represents one sold item in a create request.
// UnitPrice is a JSON number decoded via its text form to preserve the
// exact decimal.
type SaleLineRequest struct {
	VariantID string      `json:"variantId"`
	SKU       string      `json:"sku,omitempty"`
	Quantity  int         `json:"quantity"`
	UnitPrice json.Number `json:"unitPrice"`
}

// ToEntity converts the request to a domain entity. Malformed ids and
// amounts come back as a field-keyed validation error; omitted values
// pass through for the domain validator to judge.
func (r *CreateSaleRequest) ToEntity(storeID id.ID) (*sale.Sale, error) {
	doc := sale.NewSale(storeID)
	if r.Date != nil {
		doc.Date = *r.Date
	}
	doc.CustomerName = r.CustomerName
	doc.Comment = r.Comment
	if r.PaymentMethod != "" {
		doc.PaymentMethod = r.PaymentMethod
	}

	g := forms.NewGate()
	for i, line := range r.Lines {
		variantID := parseLineVariantID(g, i, line.VariantID)
		price := parseLineAmount(g, i, "unitPrice", line.UnitPrice)
		doc.AddLine(variantID, line.SKU, line.Quantity, price)
	}

	if ok, errs := g.Result(); !ok {
		return nil, apperror.NewFieldErrors("sale validation failed", errs)
	}
	return doc, nil
}

// --- Response DTOs ---

// SaleListQuery holds list filter query parameters.
type SaleListQuery struct {
	StoreID       string `form:"storeId"`
	PaymentMethod string `form:"paymentMethod"`
	Posted        *bool  `form:"posted"`
	DateFrom      string `form:"dateFrom"`
	DateTo        string `form:"dateTo"`
}
