package api

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_scaleAroundMean(t *testing.T) {
	t.Run("centers values on the series mean", func(t *testing.T) {
		out, err := scaleAroundMean([]float64{90, 100, 110})
		require.NoError(t, err)

		require.InDelta(t, -0.1, out[0], 1e-9)
		require.InDelta(t, 0, out[1], 1e-9)
		require.InDelta(t, 0.1, out[2], 1e-9)
	})

	t.Run("keeps NaN gaps in place", func(t *testing.T) {
		out, err := scaleAroundMean([]float64{100, math.NaN(), 100})
		require.NoError(t, err)

		require.Len(t, out, 3)
		require.True(t, math.IsNaN(out[1]))
		require.InDelta(t, 0, out[0], 1e-9)
	})

	t.Run("all-NaN column passes through", func(t *testing.T) {
		col := []float64{math.NaN(), math.NaN()}
		out, err := scaleAroundMean(col)
		require.NoError(t, err)
		require.True(t, math.IsNaN(out[0]))
		require.True(t, math.IsNaN(out[1]))
	})
}
