package strategy

import (
	"fmt"
	"math"
	"nisasim/internal/domain"

	"github.com/montanaflynn/stats"
)

const (
	tradingDaysPerYear = 252

	// enough aligned closes for a non-degenerate covariance estimate
	minAlignedRows = 30
)

type estimates struct {
	keys []string
	mu   []float64
	cov  [][]float64
}

// estimate derives annualized expected returns (compounded historical
// mean) and an annualized sample covariance matrix from the aligned
// rows of the price matrix.
func estimate(m domain.PriceMatrix) (*estimates, error) {
	if m.NumInstruments() < 2 {
		return nil, fmt.Errorf("need at least 2 instruments, got %d", m.NumInstruments())
	}

	_, columns := m.Aligned()
	keys := m.Keys()
	rows := len(columns[keys[0]])
	if rows < minAlignedRows {
		return nil, fmt.Errorf("need at least %d aligned price rows, got %d", minAlignedRows, rows)
	}

	returns := make([][]float64, len(keys))
	for i, k := range keys {
		returns[i] = dailyReturns(columns[k])
	}

	mu := make([]float64, len(keys))
	for i := range keys {
		meanDaily, err := stats.Mean(returns[i])
		if err != nil {
			return nil, fmt.Errorf("failed to calculate mean return for %s: %w", keys[i], err)
		}
		mu[i] = math.Pow(1+meanDaily, tradingDaysPerYear) - 1
	}

	cov := make([][]float64, len(keys))
	for i := range keys {
		cov[i] = make([]float64, len(keys))
		for j := range keys {
			c, err := stats.Covariance(returns[i], returns[j])
			if err != nil {
				return nil, fmt.Errorf("failed to calculate covariance of %s and %s: %w", keys[i], keys[j], err)
			}
			cov[i][j] = c * tradingDaysPerYear
		}
	}

	return &estimates{keys: keys, mu: mu, cov: cov}, nil
}

func dailyReturns(closes []float64) []float64 {
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		out = append(out, closes[i]/closes[i-1]-1)
	}
	return out
}
