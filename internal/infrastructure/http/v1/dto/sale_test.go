package dto

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/core/types"
)

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	fields, ok := appErr.Details["fields"].(map[string]string)
	require.True(t, ok, "details must carry a field error map")
	return fields
}

func TestCreateSaleRequest_ToEntity(t *testing.T) {
	variantID := id.New()
	req := CreateSaleRequest{
		CustomerName:  "Jane Doe",
		PaymentMethod: "cash",
		Lines: []SaleLineRequest{
			{VariantID: variantID.String(), SKU: "TSHIRT-M", Quantity: 2, UnitPrice: json.Number("19.90")},
		},
	}

	doc, err := req.ToEntity(id.New())
	require.NoError(t, err)

	require.Len(t, doc.Lines, 1)
	assert.Equal(t, variantID, doc.Lines[0].VariantID)
	assert.True(t, doc.Lines[0].UnitPrice.Equal(types.MustMoney("19.90")),
		"price must survive as the exact decimal, got %s", doc.Lines[0].UnitPrice)
}

func TestCreateSaleRequest_MalformedVariantID(t *testing.T) {
	req := CreateSaleRequest{
		Lines: []SaleLineRequest{
			{VariantID: id.New().String(), Quantity: 1, UnitPrice: json.Number("5.00")},
			{VariantID: "not-a-uuid", Quantity: 1, UnitPrice: json.Number("5.00")},
		},
	}

	_, err := req.ToEntity(id.New())
	require.Error(t, err)

	fields := fieldErrors(t, err)
	assert.Equal(t, "invalid variant id", fields["lines[1].variantId"])
	assert.NotContains(t, fields, "lines[0].variantId")
}

func TestCreateSaleRequest_EmptyVariantIDLeftToDomain(t *testing.T) {
	// An omitted variant id is a "required" problem, not a parse
	// problem; the domain validator owns that message.
	req := CreateSaleRequest{
		Lines: []SaleLineRequest{
			{VariantID: "", Quantity: 1, UnitPrice: json.Number("5.00")},
		},
	}

	doc, err := req.ToEntity(id.New())
	require.NoError(t, err)
	assert.True(t, id.IsNil(doc.Lines[0].VariantID))
}

func TestCreateRestockRequest_MalformedCost(t *testing.T) {
	req := CreateRestockRequest{
		Lines: []RestockLineRequest{
			{VariantID: id.New().String(), Quantity: 5, UnitCost: json.Number("9.99.9")},
		},
	}

	_, err := req.ToEntity(id.New())
	require.Error(t, err)

	fields := fieldErrors(t, err)
	assert.Equal(t, "invalid amount", fields["lines[0].unitCost"])
}

func TestCreateReturnRequest_MalformedSaleID(t *testing.T) {
	req := CreateReturnRequest{
		SaleID: "garbage",
		Lines: []ReturnLineRequest{
			{VariantID: id.New().String(), Quantity: 1, UnitPrice: json.Number("5.00"), Resolution: "restock"},
		},
	}

	_, err := req.ToEntity(id.New())
	require.Error(t, err)

	fields := fieldErrors(t, err)
	assert.Equal(t, "invalid sale id", fields["saleId"])
}
