package strategy

import (
	"math"
	"testing"
	"time"

	"nisasim/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// seriesOf builds a daily series from a close-generating function.
func seriesOf(key string, days int, closeAt func(i int) float64) domain.PriceSeries {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	s := domain.PriceSeries{InstrumentKey: key}
	for i := 0; i < days; i++ {
		s.Points = append(s.Points, domain.PricePoint{
			Date:  start.AddDate(0, 0, i),
			Close: closeAt(i),
		})
	}
	return s
}

func testMatrix() domain.PriceMatrix {
	return domain.NewPriceMatrix([]domain.PriceSeries{
		seriesOf("calm", 300, func(i int) float64 {
			return 100 * math.Pow(1.0003, float64(i)) * (1 + 0.001*math.Sin(float64(i)))
		}),
		seriesOf("wild", 300, func(i int) float64 {
			return 100 * math.Pow(1.0004, float64(i)) * (1 + 0.08*math.Sin(0.7*float64(i)+1))
		}),
	})
}

func requireValidWeights(t *testing.T, weights map[string]float64) {
	t.Helper()
	total := 0.0
	for key, w := range weights {
		require.GreaterOrEqualf(t, w, 0.0, "weight for %s", key)
		require.LessOrEqualf(t, w, 1.0, "weight for %s", key)
		total += w
	}
	require.InDelta(t, 1.0, total, 0.01)
}

func TestStrategy_Calculate(t *testing.T) {
	t.Run("min variance favors the calmer instrument", func(t *testing.T) {
		weights, err := MinVariance.Calculate(testMatrix())
		require.NoError(t, err)

		requireValidWeights(t, weights)
		require.Greater(t, weights["calm"], weights["wild"])
	})

	t.Run("constrained min variance produces valid weights", func(t *testing.T) {
		weights, err := ConstrainedMinVariance.Calculate(testMatrix())
		require.NoError(t, err)

		requireValidWeights(t, weights)
	})

	t.Run("max sharpe produces valid weights", func(t *testing.T) {
		weights, err := MaxSharpe.Calculate(testMatrix())
		require.NoError(t, err)

		requireValidWeights(t, weights)
	})

	t.Run("max sharpe falls back to min variance on a degenerate matrix", func(t *testing.T) {
		// constant closes give a zero covariance matrix, so the sharpe
		// objective blows up at the starting point
		flat := domain.NewPriceMatrix([]domain.PriceSeries{
			seriesOf("a", 100, func(int) float64 { return 100 }),
			seriesOf("b", 100, func(int) float64 { return 200 }),
		})

		sharpe, err := MaxSharpe.Calculate(flat)
		require.NoError(t, err)

		minVol, err := MinVariance.Calculate(flat)
		require.NoError(t, err)

		require.Equal(t, "", cmp.Diff(minVol, sharpe))
	})

	t.Run("fewer than 2 instruments", func(t *testing.T) {
		m := domain.NewPriceMatrix([]domain.PriceSeries{
			seriesOf("only", 300, func(i int) float64 { return 100 + float64(i) }),
		})

		_, err := MinVariance.Calculate(m)
		require.ErrorContains(t, err, "at least 2 instruments")
	})

	t.Run("too few aligned rows", func(t *testing.T) {
		m := domain.NewPriceMatrix([]domain.PriceSeries{
			seriesOf("a", 10, func(i int) float64 { return 100 + float64(i) }),
			seriesOf("b", 10, func(i int) float64 { return 200 - float64(i) }),
		})

		_, err := MinVariance.Calculate(m)
		require.ErrorContains(t, err, "aligned price rows")
	})
}

func TestFromName(t *testing.T) {
	for _, s := range All() {
		got, err := FromName(s.Name())
		require.NoError(t, err)
		require.Equal(t, s, got)
	}

	_, err := FromName("momentum")
	require.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestFromID(t *testing.T) {
	for _, s := range All() {
		got, err := FromID(s.ID())
		require.NoError(t, err)
		require.Equal(t, s, got)
	}

	_, err := FromID(7)
	require.ErrorIs(t, err, ErrUnknownStrategy)
}
