package view

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpilot/internal/core/id"
	"stockpilot/internal/core/types"
)

func intPtr(v int) *int { return &v }

func testItem(name, brand, category, sku string, variants ...Variant) Item {
	if len(variants) == 0 {
		variants = []Variant{{SKU: sku, Price: types.MustMoney("10"), Quantity: 5}}
	} else if sku != "" {
		variants[0].SKU = sku
	}
	return Item{ID: id.New(), Name: name, Brand: brand, Category: category, Variants: variants}
}

func TestProject_Pagination(t *testing.T) {
	tests := []struct {
		n, pageSize    int
		wantTotalPages int
	}{
		{0, 5, 0},
		{1, 5, 1},
		{5, 5, 1},
		{6, 5, 2},
		{10, 5, 2},
		{11, 10, 2},
		{23, 10, 3},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d_size=%d", tt.n, tt.pageSize), func(t *testing.T) {
			items := make([]Item, 0, tt.n)
			for i := 0; i < tt.n; i++ {
				items = append(items, testItem(fmt.Sprintf("item %d", i), "", "", fmt.Sprintf("SKU-%d", i)))
			}

			res := Project(items, Filters{}, 1, tt.pageSize)
			assert.Equal(t, tt.wantTotalPages, res.TotalPages)
			assert.Equal(t, tt.n, res.TotalItems)

			// Page past the end: zero rows, no panic.
			past := Project(items, Filters{}, tt.wantTotalPages+1, tt.pageSize)
			assert.Empty(t, past.Rows)
			assert.Equal(t, tt.wantTotalPages, past.TotalPages)
		})
	}
}

func TestProject_PageSlicing(t *testing.T) {
	items := make([]Item, 0, 12)
	for i := 0; i < 12; i++ {
		items = append(items, testItem(fmt.Sprintf("item %02d", i), "", "", fmt.Sprintf("SKU-%d", i)))
	}

	page2 := Project(items, Filters{}, 2, 5)
	require.Len(t, page2.Rows, 5)
	assert.Equal(t, "item 05", page2.Rows[0].Name)
	assert.Equal(t, "item 09", page2.Rows[4].Name)

	page3 := Project(items, Filters{}, 3, 5)
	require.Len(t, page3.Rows, 2)
	assert.Equal(t, "item 11", page3.Rows[1].Name)
}

func TestProject_Filtering(t *testing.T) {
	items := []Item{
		testItem("Trail Runner", "Peak", "shoes", "TR-100"),
		testItem("City Sneaker", "Urban", "shoes", "CS-200"),
		testItem("Wool Beanie", "Peak", "hats", "WB-300"),
	}

	t.Run("search matches name case-insensitively", func(t *testing.T) {
		res := Project(items, Filters{SearchText: "trail"}, 1, 10)
		require.Len(t, res.Rows, 1)
		assert.Equal(t, "Trail Runner", res.Rows[0].Name)
	})

	t.Run("search matches brand", func(t *testing.T) {
		res := Project(items, Filters{SearchText: "peak"}, 1, 10)
		assert.Len(t, res.Rows, 2)
	})

	t.Run("search matches first variant sku", func(t *testing.T) {
		res := Project(items, Filters{SearchText: "cs-2"}, 1, 10)
		require.Len(t, res.Rows, 1)
		assert.Equal(t, "City Sneaker", res.Rows[0].Name)
	})

	t.Run("category and search are ANDed", func(t *testing.T) {
		res := Project(items, Filters{SearchText: "peak", Category: "hats"}, 1, 10)
		require.Len(t, res.Rows, 1)
		assert.Equal(t, "Wool Beanie", res.Rows[0].Name)
	})

	t.Run("category all matches everything", func(t *testing.T) {
		res := Project(items, Filters{Category: CategoryAll}, 1, 10)
		assert.Len(t, res.Rows, 3)
	})
}

func TestClassify_StatusBoundaries(t *testing.T) {
	price := types.MustMoney("10")

	tests := []struct {
		name     string
		variants []Variant
		want     StockStatus
	}{
		{
			name:     "zero stock is out of stock",
			variants: []Variant{{Price: price, Quantity: 0, LowStockThreshold: intPtr(5)}},
			want:     StatusOutOfStock,
		},
		{
			name:     "below threshold is low stock",
			variants: []Variant{{Price: price, Quantity: 4, LowStockThreshold: intPtr(5)}},
			want:     StatusLowStock,
		},
		{
			name:     "at threshold is in stock",
			variants: []Variant{{Price: price, Quantity: 5, LowStockThreshold: intPtr(5)}},
			want:     StatusInStock,
		},
		{
			name:     "no threshold never goes low",
			variants: []Variant{{Price: price, Quantity: 1}},
			want:     StatusInStock,
		},
		{
			name: "minimum threshold across variants wins",
			variants: []Variant{
				{Price: price, Quantity: 2, LowStockThreshold: intPtr(10)},
				{Price: price, Quantity: 1, LowStockThreshold: intPtr(4)},
			},
			want: StatusLowStock,
		},
		{
			name: "variant without threshold ignored in minimum",
			variants: []Variant{
				{Price: price, Quantity: 3},
				{Price: price, Quantity: 3, LowStockThreshold: intPtr(3)},
			},
			want: StatusInStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := Classify(Item{Name: "x", Variants: tt.variants})
			assert.Equal(t, tt.want, row.Status)
		})
	}
}

func TestClassify_PriceRange(t *testing.T) {
	t.Run("equal prices collapse to scalar", func(t *testing.T) {
		row := Classify(Item{Variants: []Variant{
			{Price: types.MustMoney("9.99"), Quantity: 1},
			{Price: types.MustMoney("9.99"), Quantity: 1},
		}})
		assert.True(t, row.PriceRange.Single)
		assert.True(t, row.PriceRange.Min.Equal(types.MustMoney("9.99")))
	})

	t.Run("distinct prices keep min and max", func(t *testing.T) {
		row := Classify(Item{Variants: []Variant{
			{Price: types.MustMoney("5"), Quantity: 1},
			{Price: types.MustMoney("12.50"), Quantity: 1},
			{Price: types.MustMoney("8"), Quantity: 1},
		}})
		assert.False(t, row.PriceRange.Single)
		assert.True(t, row.PriceRange.Min.Equal(types.MustMoney("5")))
		assert.True(t, row.PriceRange.Max.Equal(types.MustMoney("12.50")))
	})
}

func TestProject_DoesNotMutateSource(t *testing.T) {
	items := []Item{testItem("A", "", "", "A-1"), testItem("B", "", "", "B-1")}
	before := make([]Item, len(items))
	copy(before, items)

	_ = Project(items, Filters{SearchText: "a"}, 1, 1)
	_ = Project(items, Filters{}, 99, 1)

	assert.Equal(t, before, items)
}
