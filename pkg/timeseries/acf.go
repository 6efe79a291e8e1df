package timeseries

import "fmt"

var ErrInvalidLag = fmt.Errorf("invalid lag")

// ACF computes the sample autocorrelation function of values for lags
// 0..maxLag. Lag 0 is always 1 for a non-constant series. A constant series
// carries no autocorrelation signal; every coefficient is returned as 0.
//
// The series must be dense (one value per calendar day) for the coefficients
// to be meaningful, which is exactly what the gap-filling aggregator
// guarantees under the all-days policy.
func ACF(values []float64, maxLag int) ([]float64, error) {
	if maxLag < 1 || maxLag >= len(values) {
		return nil, fmt.Errorf("%w: maxLag %d for series of length %d", ErrInvalidLag, maxLag, len(values))
	}

	n := len(values)
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	denom := 0.0
	for _, v := range values {
		denom += (v - mean) * (v - mean)
	}

	acf := make([]float64, maxLag+1)
	if denom == 0 {
		return acf, nil
	}

	acf[0] = 1
	for lag := 1; lag <= maxLag; lag++ {
		num := 0.0
		for t := lag; t < n; t++ {
			num += (values[t] - mean) * (values[t-lag] - mean)
		}
		acf[lag] = num / denom
	}
	return acf, nil
}

// PACF computes the sample partial autocorrelation function for lags
// 0..maxLag using the Durbin-Levinson recursion over the ACF. Lag 0 is 1 by
// convention. A constant series returns all zeros, mirroring ACF.
func PACF(values []float64, maxLag int) ([]float64, error) {
	acf, err := ACF(values, maxLag)
	if err != nil {
		return nil, err
	}

	pacf := make([]float64, maxLag+1)
	if acf[0] == 0 {
		return pacf, nil
	}
	pacf[0] = 1

	// phi[k][j] is the j-th coefficient of the order-k autoregression.
	phi := make([][]float64, maxLag+1)
	for k := range phi {
		phi[k] = make([]float64, maxLag+1)
	}

	phi[1][1] = acf[1]
	pacf[1] = acf[1]

	for k := 2; k <= maxLag; k++ {
		num := acf[k]
		den := 1.0
		for j := 1; j < k; j++ {
			num -= phi[k-1][j] * acf[k-j]
			den -= phi[k-1][j] * acf[j]
		}
		if den == 0 {
			// Degenerate recursion; the remaining coefficients stay 0.
			break
		}
		phi[k][k] = num / den
		for j := 1; j < k; j++ {
			phi[k][j] = phi[k-1][j] - phi[k][k]*phi[k-1][k-j]
		}
		pacf[k] = phi[k][k]
	}

	return pacf, nil
}
