package domain

import "time"

// Recommendation is one instrument's share of a computed allocation.
// DisplayKeyword is nil when the instrument has no catalog entry; a
// missing cross-reference never blocks the allocation itself.
type Recommendation struct {
	WeightFraction float64
	WeightAmount   int64
	DisplayKeyword *string
}

// StrategyResult is a persisted allocation row joined with its
// catalog keyword, shaped for the read API.
type StrategyResult struct {
	Date           time.Time
	InstrumentKey  string
	DisplayKeyword *string
	WeightPercent  int32
	WeightAmount   int32
}
