package restock

import "stockpilot/internal/core/numerator"

const (
	// NumeratorStrategy defines the numbering strategy for restocks.
	// Restocks are primary accounting documents, so numbering is strict.
	NumeratorStrategy = numerator.StrategyStrict

	// NumberPrefix is the document number prefix (RST-2026-00001).
	NumberPrefix = "RST"
)
