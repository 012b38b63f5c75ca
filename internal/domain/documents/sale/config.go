package sale

import "stockpilot/internal/core/numerator"

const (
	// NumeratorStrategy defines the numbering strategy for sales.
	// Sales are high-frequency documents, so the cached strategy is used.
	NumeratorStrategy = numerator.StrategyCached

	// NumberPrefix is the document number prefix (SALE-2026-00001).
	NumberPrefix = "SALE"
)
