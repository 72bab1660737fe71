package domain

import (
	"math"
	"sort"
	"time"
)

// PriceMatrix holds date-indexed closes, one column per instrument.
// Missing observations are NaN.
type PriceMatrix struct {
	dates   []time.Time
	columns map[string][]float64
}

// NewPriceMatrix joins the given series on their union of dates.
func NewPriceMatrix(series []PriceSeries) PriceMatrix {
	dateSet := map[time.Time]struct{}{}
	for _, s := range series {
		for _, p := range s.Points {
			dateSet[p.Date] = struct{}{}
		}
	}
	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})

	rowIndex := map[time.Time]int{}
	for i, d := range dates {
		rowIndex[d] = i
	}

	columns := map[string][]float64{}
	for _, s := range series {
		col := make([]float64, len(dates))
		for i := range col {
			col[i] = math.NaN()
		}
		for _, p := range s.Points {
			col[rowIndex[p.Date]] = p.Close
		}
		columns[s.InstrumentKey] = col
	}

	return PriceMatrix{dates: dates, columns: columns}
}

// Keys returns the instrument keys in sorted order.
func (m PriceMatrix) Keys() []string {
	keys := make([]string, 0, len(m.columns))
	for k := range m.columns {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m PriceMatrix) Dates() []time.Time {
	return m.dates
}

func (m PriceMatrix) NumInstruments() int {
	return len(m.columns)
}

func (m PriceMatrix) NumRows() int {
	return len(m.dates)
}

// Column returns the closes for one instrument, aligned with Dates.
func (m PriceMatrix) Column(key string) ([]float64, bool) {
	col, ok := m.columns[key]
	return col, ok
}

// Aligned drops every row where at least one instrument has no close,
// returning fully populated columns suitable for covariance estimation.
func (m PriceMatrix) Aligned() ([]time.Time, map[string][]float64) {
	keys := m.Keys()
	dates := []time.Time{}
	columns := map[string][]float64{}
	for _, k := range keys {
		columns[k] = []float64{}
	}

	for i, d := range m.dates {
		complete := true
		for _, k := range keys {
			if math.IsNaN(m.columns[k][i]) {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		dates = append(dates, d)
		for _, k := range keys {
			columns[k] = append(columns[k], m.columns[k][i])
		}
	}

	return dates, columns
}
