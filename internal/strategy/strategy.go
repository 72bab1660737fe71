package strategy

import (
	"errors"
	"fmt"
	"nisasim/internal/domain"

	"go.uber.org/zap"
)

// Strategy is one of the three fixed allocation objectives. The set is
// closed, so dispatch is an exhaustive switch rather than an interface.
type Strategy int

const (
	ConstrainedMinVariance Strategy = iota
	MinVariance
	MaxSharpe
)

var ErrUnknownStrategy = errors.New("unknown strategy")

const (
	defaultTargetReturn = 0.10
	defaultRiskFreeRate = 0.02
)

func All() []Strategy {
	return []Strategy{ConstrainedMinVariance, MinVariance, MaxSharpe}
}

func (s Strategy) ID() int32 {
	return int32(s)
}

func (s Strategy) Name() string {
	switch s {
	case ConstrainedMinVariance:
		return "efficientReturn"
	case MinVariance:
		return "minVolatility"
	case MaxSharpe:
		return "maxSharpe"
	}
	return "unknown"
}

// DisplayName is the label shown by the front-end.
func (s Strategy) DisplayName() string {
	switch s {
	case ConstrainedMinVariance:
		return "分散最小化(リターン制約あり)"
	case MinVariance:
		return "分散最小化"
	case MaxSharpe:
		return "シャープ・レシオ最大化"
	}
	return "unknown"
}

func FromID(id int32) (Strategy, error) {
	s := Strategy(id)
	switch s {
	case ConstrainedMinVariance, MinVariance, MaxSharpe:
		return s, nil
	}
	return 0, fmt.Errorf("%w: id %d", ErrUnknownStrategy, id)
}

func FromName(name string) (Strategy, error) {
	for _, s := range All() {
		if s.Name() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// Calculate turns the price matrix into long-only weights summing to
// ~1. MaxSharpe falls back to MinVariance when its solve fails, so it
// only errors if the fallback fails too.
func (s Strategy) Calculate(m domain.PriceMatrix) (map[string]float64, error) {
	est, err := estimate(m)
	if err != nil {
		return nil, err
	}
	f := frontier{keys: est.keys, mu: est.mu, cov: est.cov}

	switch s {
	case ConstrainedMinVariance:
		return f.efficientReturn(defaultTargetReturn)
	case MinVariance:
		return f.minVolatility()
	case MaxSharpe:
		weights, err := f.maxSharpe(defaultRiskFreeRate)
		if err != nil {
			zap.S().Warnf("max sharpe solve failed, falling back to min volatility: %v", err)
			return f.minVolatility()
		}
		return weights, nil
	}

	return nil, ErrUnknownStrategy
}
