package sale

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/core/types"
)

func TestAddLine_Totals(t *testing.T) {
	doc := NewSale(id.New())

	doc.AddLine(id.New(), "TSHIRT-M", 2, types.NewMoney(10.00))
	doc.AddLine(id.New(), "MUG-STD", 1, types.NewMoney(5.00))

	assert.Equal(t, 3, doc.TotalQuantity)
	assert.True(t, doc.TotalAmount.Equal(types.NewMoney(25.00)),
		"total = %s", doc.TotalAmount)
	assert.Equal(t, 1, doc.Lines[0].LineNo)
	assert.Equal(t, 2, doc.Lines[1].LineNo)
}

func TestValidate_OK(t *testing.T) {
	doc := NewSale(id.New())
	doc.CustomerName = "Jane Doe"
	doc.PaymentMethod = PaymentCash
	doc.AddLine(id.New(), "TSHIRT-M", 2, types.NewMoney(10.00))

	require.NoError(t, doc.Validate(context.Background()))
}

func TestValidate_CollectsAllFieldErrors(t *testing.T) {
	doc := NewSale(id.New())
	doc.PaymentMethod = "barter"
	doc.AddLine(id.New(), "TSHIRT-M", 0, types.NewMoney(10.00))
	doc.AddLine(id.Nil(), "MUG-STD", 1, types.Zero())

	err := doc.Validate(context.Background())
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	fields, ok := appErr.Details["fields"].(map[string]string)
	require.True(t, ok)

	// one pass reports every broken field, not just the first
	assert.Contains(t, fields, "paymentMethod")
	assert.Contains(t, fields, "lines[0].quantity")
	assert.Contains(t, fields, "lines[1].variantId")
	assert.Contains(t, fields, "lines[1].unitPrice")
}

func TestValidate_EmptyLines(t *testing.T) {
	doc := NewSale(id.New())
	doc.PaymentMethod = "barter" // would fail too, but empty lines win

	err := doc.Validate(context.Background())
	require.Error(t, err)

	appErr, _ := apperror.AsAppError(err)
	fields := appErr.Details["fields"].(map[string]string)

	assert.Len(t, fields, 1)
	assert.Contains(t, fields, "lines")
}

func TestValidate_DuplicateVariant(t *testing.T) {
	doc := NewSale(id.New())
	variantID := id.New()
	doc.AddLine(variantID, "TSHIRT-M", 1, types.NewMoney(10.00))
	doc.AddLine(variantID, "TSHIRT-M", 2, types.NewMoney(10.00))

	err := doc.Validate(context.Background())
	require.Error(t, err)

	appErr, _ := apperror.AsAppError(err)
	fields := appErr.Details["fields"].(map[string]string)

	assert.Contains(t, fields, "lines[1].variantId")
	assert.NotContains(t, fields, "lines[0].variantId")
}

func TestMovements_ExpensePerLine(t *testing.T) {
	storeID := id.New()
	doc := NewSale(storeID)
	doc.AddLine(id.New(), "A", 2, types.NewMoney(10.00))
	doc.AddLine(id.New(), "B", 1, types.NewMoney(5.00))

	movements := doc.Movements()
	require.Len(t, movements, 2)

	for i, m := range movements {
		assert.Equal(t, doc.ID, m.DocumentID)
		assert.Equal(t, "Sale", m.DocumentType)
		assert.Equal(t, storeID, m.StoreID)
		assert.Equal(t, doc.Lines[i].Quantity, m.Quantity)
		assert.Equal(t, -doc.Lines[i].Quantity, m.SignedQuantity())
	}
}
