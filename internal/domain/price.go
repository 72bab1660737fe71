package domain

import "time"

// PricePoint is a single daily close for one instrument.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// PriceSeries is the ordered daily closes of one instrument.
type PriceSeries struct {
	InstrumentKey string
	Points        []PricePoint
}
