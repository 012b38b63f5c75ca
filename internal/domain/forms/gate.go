// Package forms provides the synchronous validation gate run before a
// mutation is allowed to proceed. Rules are declared per field and per
// line item; all rules are evaluated in a single pass so the full error
// map is available at once, letting a UI highlight every invalid field
// simultaneously instead of just the first.
package forms

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrorMap maps a field path to a human-readable message.
// Array elements use bracket notation, e.g. "lines[2].sku".
type ErrorMap map[string]string

// Has reports whether the path carries an error.
func (m ErrorMap) Has(path string) bool {
	return m[path] != ""
}

// Clear removes the error for one field (the on-focus UX affordance).
func (m ErrorMap) Clear(path string) {
	delete(m, path)
}

// Path builds an indexed field path: Path("lines", 2, "sku") -> "lines[2].sku".
func Path(base string, index int, field string) string {
	if field == "" {
		return fmt.Sprintf("%s[%d]", base, index)
	}
	return fmt.Sprintf("%s[%d].%s", base, index, field)
}

// Gate accumulates validation results for one submission attempt.
// Create a fresh Gate per pass; never reuse one across submissions.
type Gate struct {
	errs     ErrorMap
	rejected bool
}

// NewGate creates an empty validation gate.
func NewGate() *Gate {
	return &Gate{errs: make(ErrorMap)}
}

// Require checks for a non-empty trimmed string.
func (g *Gate) Require(path, value, label string) {
	if g.rejected {
		return
	}
	if strings.TrimSpace(value) == "" {
		g.errs[path] = label + " is required"
	}
}

// PositiveInt checks value > 0.
func (g *Gate) PositiveInt(path string, value int, label string) {
	if g.rejected {
		return
	}
	if value <= 0 {
		g.errs[path] = label + " must be greater than zero"
	}
}

// NonNegativeInt checks value >= 0.
func (g *Gate) NonNegativeInt(path string, value int, label string) {
	if g.rejected {
		return
	}
	if value < 0 {
		g.errs[path] = label + " cannot be negative"
	}
}

// PositiveMoney checks a decimal amount > 0.
func (g *Gate) PositiveMoney(path string, value decimal.Decimal, label string) {
	if g.rejected {
		return
	}
	if !value.IsPositive() {
		g.errs[path] = label + " must be greater than zero"
	}
}

// NonNegativeMoney checks a decimal amount >= 0.
func (g *Gate) NonNegativeMoney(path string, value decimal.Decimal, label string) {
	if g.rejected {
		return
	}
	if value.IsNegative() {
		g.errs[path] = label + " cannot be negative"
	}
}

// Fail records an arbitrary error for a path.
func (g *Gate) Fail(path, message string) {
	if g.rejected {
		return
	}
	g.errs[path] = message
}

// RequireLines is the cross-collection rule: at least one line item must
// exist. An empty collection rejects the whole submission with a single
// top-level error and suppresses all further checks (fail-fast), so no
// per-item array is ever populated from field rules.
//
// Returns true when per-line rules should run.
func (g *Gate) RequireLines(path string, count int) bool {
	if count == 0 {
		g.errs = ErrorMap{path: "at least one line item is required"}
		g.rejected = true
		return false
	}
	return true
}

// EachLine runs fn once per line index. Per-item errors are index-aligned
// with the line items rather than keyed by an item id, since new items
// may not have one yet.
func (g *Gate) EachLine(count int, fn func(i int)) {
	if g.rejected {
		return
	}
	for i := 0; i < count; i++ {
		fn(i)
	}
}

// UniqueRefs enforces that a reference id appears at most once across the
// line items of a single intent. refAt returns the reference for index i.
func (g *Gate) UniqueRefs(base, field string, count int, refAt func(i int) string) {
	if g.rejected {
		return
	}
	seen := make(map[string]int, count)
	for i := 0; i < count; i++ {
		ref := refAt(i)
		if ref == "" {
			continue
		}
		if _, dup := seen[ref]; dup {
			g.errs[Path(base, i, field)] = "duplicate line for the same item"
			continue
		}
		seen[ref] = i
	}
}

// Result reports whether the pass succeeded and returns the error map.
// The map is freshly built each pass.
func (g *Gate) Result() (bool, ErrorMap) {
	return len(g.errs) == 0, g.errs
}

// LineErrors extracts the index-aligned per-item errors for a line
// collection, parallel to the items themselves.
func (m ErrorMap) LineErrors(base string, count int) []ErrorMap {
	out := make([]ErrorMap, count)
	prefix := base + "["
	for path, msg := range m {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		rest := path[len(prefix):]
		close := strings.IndexByte(rest, ']')
		if close < 0 {
			continue
		}
		var idx int
		if _, err := fmt.Sscanf(rest[:close], "%d", &idx); err != nil || idx < 0 || idx >= count {
			continue
		}
		field := strings.TrimPrefix(rest[close+1:], ".")
		if out[idx] == nil {
			out[idx] = make(ErrorMap)
		}
		out[idx][field] = msg
	}
	return out
}
