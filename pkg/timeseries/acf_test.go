package timeseries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestACF(t *testing.T) {
	t.Run("computes known coefficients for a linear series", func(t *testing.T) {
		values := []float64{1, 2, 3, 4, 5}

		acf, err := ACF(values, 2)
		require.NoError(t, err)
		require.Len(t, acf, 3)
		assert.InDelta(t, 1.0, acf[0], 1e-9)
		assert.InDelta(t, 0.4, acf[1], 1e-9)
		assert.InDelta(t, -0.1, acf[2], 1e-9)
	})

	t.Run("alternating series has negative lag-1 autocorrelation", func(t *testing.T) {
		values := []float64{1, -1, 1, -1, 1, -1, 1, -1}

		acf, err := ACF(values, 1)
		require.NoError(t, err)
		assert.Negative(t, acf[1])
	})

	t.Run("constant series yields all zeros", func(t *testing.T) {
		values := []float64{3, 3, 3, 3, 3}

		acf, err := ACF(values, 2)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0, 0}, acf)
	})

	t.Run("rejects lags outside the series length", func(t *testing.T) {
		_, err := ACF([]float64{1, 2, 3}, 3)
		require.ErrorIs(t, err, ErrInvalidLag)

		_, err = ACF([]float64{1, 2, 3}, 0)
		require.ErrorIs(t, err, ErrInvalidLag)
	})
}

func TestPACF(t *testing.T) {
	t.Run("lag 1 equals the lag-1 autocorrelation", func(t *testing.T) {
		values := []float64{1, 2, 3, 4, 5}

		acf, err := ACF(values, 2)
		require.NoError(t, err)
		pacf, err := PACF(values, 2)
		require.NoError(t, err)

		assert.InDelta(t, 1.0, pacf[0], 1e-9)
		assert.InDelta(t, acf[1], pacf[1], 1e-9)
	})

	t.Run("computes the Durbin-Levinson lag-2 coefficient", func(t *testing.T) {
		values := []float64{1, 2, 3, 4, 5}

		pacf, err := PACF(values, 2)
		require.NoError(t, err)
		// phi22 = (r2 - r1^2) / (1 - r1^2) with r1 = 0.4, r2 = -0.1
		assert.InDelta(t, -0.26/0.84, pacf[2], 1e-9)
	})

	t.Run("constant series yields all zeros", func(t *testing.T) {
		pacf, err := PACF([]float64{7, 7, 7, 7}, 2)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0, 0}, pacf)
	})
}
