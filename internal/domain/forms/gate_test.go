package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpilot/internal/core/types"
)

func TestGate_SinglePassCollectsAllErrors(t *testing.T) {
	g := NewGate()
	g.Require("customerName", "  ", "customer name")
	g.Require("paymentMethod", "", "payment method")
	g.PositiveMoney("total", types.Zero(), "total")

	ok, errs := g.Result()
	assert.False(t, ok)
	assert.Len(t, errs, 3)
	assert.True(t, errs.Has("customerName"))
	assert.True(t, errs.Has("paymentMethod"))
	assert.True(t, errs.Has("total"))
}

func TestGate_ValidForm(t *testing.T) {
	g := NewGate()
	g.Require("customerName", "Jane Doe", "customer name")
	g.PositiveInt("quantity", 3, "quantity")
	g.NonNegativeMoney("discount", types.Zero(), "discount")

	ok, errs := g.Result()
	assert.True(t, ok)
	assert.Empty(t, errs)
}

func TestGate_EmptyLinesFailFast(t *testing.T) {
	g := NewGate()
	g.Require("customerName", "", "customer name")

	proceed := g.RequireLines("lines", 0)
	require.False(t, proceed)

	// Field rules after the fail-fast must not add entries.
	g.Require("paymentMethod", "", "payment method")
	g.EachLine(0, func(i int) {
		t.Fatal("per-line rules must not run for an empty collection")
	})

	ok, errs := g.Result()
	assert.False(t, ok)
	assert.Len(t, errs, 1)
	assert.Equal(t, "at least one line item is required", errs["lines"])
	assert.Empty(t, errs.LineErrors("lines", 0))
}

func TestGate_LineItemRulesAreIndexAligned(t *testing.T) {
	type line struct {
		ref string
		qty int
	}
	lines := []line{
		{ref: "v1", qty: 2},
		{ref: "", qty: 0},
		{ref: "v3", qty: 1},
	}

	g := NewGate()
	if g.RequireLines("lines", len(lines)) {
		g.EachLine(len(lines), func(i int) {
			g.Require(Path("lines", i, "referenceId"), lines[i].ref, "item")
			g.PositiveInt(Path("lines", i, "quantity"), lines[i].qty, "quantity")
		})
	}

	ok, errs := g.Result()
	assert.False(t, ok)
	assert.True(t, errs.Has("lines[1].referenceId"))
	assert.True(t, errs.Has("lines[1].quantity"))
	assert.False(t, errs.Has("lines[0].quantity"))

	perItem := errs.LineErrors("lines", len(lines))
	require.Len(t, perItem, 3)
	assert.Nil(t, perItem[0])
	assert.Len(t, perItem[1], 2)
	assert.Nil(t, perItem[2])
}

func TestGate_UniqueRefs(t *testing.T) {
	refs := []string{"variant-a", "variant-b", "variant-a"}

	g := NewGate()
	g.UniqueRefs("lines", "referenceId", len(refs), func(i int) string { return refs[i] })

	ok, errs := g.Result()
	assert.False(t, ok)
	// Only the later duplicate is flagged.
	assert.False(t, errs.Has("lines[0].referenceId"))
	assert.True(t, errs.Has("lines[2].referenceId"))
}

func TestPath(t *testing.T) {
	assert.Equal(t, "lines[2].sku", Path("lines", 2, "sku"))
	assert.Equal(t, "lines[0]", Path("lines", 0, ""))
}

func TestErrorMap_Clear(t *testing.T) {
	g := NewGate()
	g.Require("name", "", "name")
	_, errs := g.Result()
	require.True(t, errs.Has("name"))

	errs.Clear("name")
	assert.False(t, errs.Has("name"))
}
