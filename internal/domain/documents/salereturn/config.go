package salereturn

import "stockpilot/internal/core/numerator"

const (
	// NumeratorStrategy defines the numbering strategy for returns.
	// Returns are refund documents, so numbering is strict.
	NumeratorStrategy = numerator.StrategyStrict

	// NumberPrefix is the document number prefix (RET-2026-00001).
	NumberPrefix = "RET"
)
