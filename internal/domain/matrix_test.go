package domain

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestNewPriceMatrix(t *testing.T) {
	m := NewPriceMatrix([]PriceSeries{
		{
			InstrumentKey: "b",
			Points: []PricePoint{
				{Date: day(1), Close: 200},
				{Date: day(3), Close: 202},
			},
		},
		{
			InstrumentKey: "a",
			Points: []PricePoint{
				{Date: day(1), Close: 100},
				{Date: day(2), Close: 101},
				{Date: day(3), Close: 102},
			},
		},
	})

	t.Run("joins on the union of dates", func(t *testing.T) {
		require.Equal(t, 3, m.NumRows())
		require.Equal(t, 2, m.NumInstruments())
		require.Equal(t, "", cmp.Diff([]time.Time{day(1), day(2), day(3)}, m.Dates()))
		require.Equal(t, "", cmp.Diff([]string{"a", "b"}, m.Keys()))
	})

	t.Run("missing observations are NaN", func(t *testing.T) {
		col, ok := m.Column("b")
		require.True(t, ok)
		require.Len(t, col, 3)
		require.Equal(t, 200.0, col[0])
		require.True(t, math.IsNaN(col[1]))
		require.Equal(t, 202.0, col[2])

		_, ok = m.Column("missing")
		require.False(t, ok)
	})

	t.Run("aligned drops incomplete rows", func(t *testing.T) {
		dates, columns := m.Aligned()

		require.Equal(t, "", cmp.Diff([]time.Time{day(1), day(3)}, dates))
		require.Equal(t, "", cmp.Diff([]float64{100, 102}, columns["a"]))
		require.Equal(t, "", cmp.Diff([]float64{200, 202}, columns["b"]))
	})
}

func TestPriceMatrix_empty(t *testing.T) {
	m := NewPriceMatrix(nil)

	require.Zero(t, m.NumRows())
	require.Zero(t, m.NumInstruments())

	dates, columns := m.Aligned()
	require.Empty(t, dates)
	require.Empty(t, columns)
}
