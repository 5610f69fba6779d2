// Package analysis computes statistics of foraging sessions, such as
// the autocorrelation of reward probabilities and summaries of an
// agent's choices.
package analysis

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrConstant is returned when a statistic is undefined because the
// data does not vary
var ErrConstant = errors.New("data has zero variance")

// AutoCorr returns the autocorrelation of data at every non-negative
// lag. The autocorrelation at lag k is
//
//	sum_t (x_t - mean)(x_{t+k} - mean) / (n * var)
//
// where var is the population variance of data, so that the
// autocorrelation at lag 0 is 1.
func AutoCorr(data []float64) ([]float64, error) {
	n := len(data)
	if n == 0 {
		return nil, fmt.Errorf("autoCorr: empty data")
	}

	mean, variance := stat.PopMeanVariance(data, nil)
	if variance == 0 {
		return nil, fmt.Errorf("autoCorr: %w", ErrConstant)
	}

	centred := make([]float64, n)
	copy(centred, data)
	floats.AddConst(-mean, centred)

	acorr := make([]float64, n)
	for lag := range acorr {
		acorr[lag] = floats.Dot(centred[:n-lag], centred[lag:])
	}
	floats.Scale(1/(variance*float64(n)), acorr)

	return acorr, nil
}
