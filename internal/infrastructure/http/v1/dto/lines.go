package dto

import (
	"encoding/json"

	"stockpilot/internal/core/id"
	"stockpilot/internal/core/types"
	"stockpilot/internal/domain/forms"
)

// parseLineVariantID parses a line's variant id, recording a malformed
// value on the line's field path. An empty id maps to Nil so the
// domain's own "variant is required" rule reports it.
func parseLineVariantID(g *forms.Gate, index int, raw string) id.ID {
	if raw == "" {
		return id.Nil()
	}
	parsed, err := id.Parse(raw)
	if err != nil {
		g.Fail(forms.Path("lines", index, "variantId"), "invalid variant id")
		return id.Nil()
	}
	return parsed
}

// parseLineAmount decodes a money amount from its JSON number text.
// Going through the text keeps the exact decimal the client sent
// instead of a float64 round-trip.
func parseLineAmount(g *forms.Gate, index int, field string, raw json.Number) types.Money {
	if raw == "" {
		return types.Zero()
	}
	amount, err := types.NewMoneyFromString(raw.String())
	if err != nil {
		g.Fail(forms.Path("lines", index, field), "invalid amount")
		return types.Zero()
	}
	return amount
}
