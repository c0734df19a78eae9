package portfolio

import (
	"fmt"

	"github.com/aristath/riskserver/pkg/formulas"
)

// defaultReferencePrice is used when the caller supplies return statistics
// without prices. Terminal returns are price-relative, so the value itself
// never affects the simulated distribution.
const defaultReferencePrice = 100.0

// NewFromParameters builds a Portfolio from parallel arrays of expected
// returns and volatilities (both annualized). correlation may be nil for
// uncorrelated assets.
func NewFromParameters(
	names []string,
	weights []float64,
	expectedReturns []float64,
	volatilities []float64,
	correlation [][]float64,
) (*Portfolio, error) {
	if len(weights) != len(names) || len(expectedReturns) != len(names) || len(volatilities) != len(names) {
		return nil, &ValidationError{
			Field: "assets",
			Reason: fmt.Sprintf("parameter arrays must match asset count %d (weights=%d, returns=%d, volatilities=%d)",
				len(names), len(weights), len(expectedReturns), len(volatilities)),
		}
	}

	assets := make([]AssetParameters, len(names))
	for i, name := range names {
		assets[i] = AssetParameters{
			Symbol:         name,
			CurrentPrice:   defaultReferencePrice,
			ExpectedReturn: expectedReturns[i],
			Volatility:     volatilities[i],
			Weight:         weights[i],
		}
	}

	return New(assets, correlation)
}

// NewFromHistory builds a Portfolio from a historical returns matrix of
// shape observations x assets, assumed daily. Expected return and
// volatility are the per-asset mean and standard deviation of the observed
// returns, annualized (x252 and xsqrt(252)). When correlation is nil the
// sample Pearson correlation of the same matrix is used.
func NewFromHistory(
	names []string,
	weights []float64,
	returnsMatrix [][]float64,
	correlation [][]float64,
) (*Portfolio, error) {
	numAssets := len(names)
	if numAssets == 0 {
		return nil, &ValidationError{Field: "assets", Reason: "portfolio must contain at least one asset"}
	}
	if len(returnsMatrix) == 0 {
		return nil, &ValidationError{Field: "historical_returns", Reason: "returns matrix must contain at least one observation"}
	}
	for i, row := range returnsMatrix {
		if len(row) != numAssets {
			return nil, &ValidationError{
				Field:  "historical_returns",
				Reason: fmt.Sprintf("observation %d has %d entries, expected %d", i, len(row), numAssets),
			}
		}
	}

	// Column-major view of the observations for the per-asset statistics.
	columns := make([][]float64, numAssets)
	for a := 0; a < numAssets; a++ {
		col := make([]float64, len(returnsMatrix))
		for obs, row := range returnsMatrix {
			col[obs] = row[a]
		}
		columns[a] = col
	}

	expectedReturns := make([]float64, numAssets)
	volatilities := make([]float64, numAssets)
	for a, col := range columns {
		expectedReturns[a] = formulas.AnnualizedReturn(formulas.Mean(col))
		volatilities[a] = formulas.AnnualizedVolatility(formulas.PopStdDev(col))
	}

	if correlation == nil {
		correlation = sampleCorrelation(columns)
	}

	return NewFromParameters(names, weights, expectedReturns, volatilities, correlation)
}

// sampleCorrelation computes the pairwise Pearson correlation of the asset
// return columns. Zero-variance columns correlate 0 with everything (and 1
// with themselves) rather than producing NaN entries.
func sampleCorrelation(columns [][]float64) [][]float64 {
	n := len(columns)
	corr := make([][]float64, n)
	for i := range corr {
		corr[i] = make([]float64, n)
		corr[i][i] = 1.0
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			c := formulas.Correlation(columns[i], columns[j])
			if isNaN(c) {
				c = 0
			}
			corr[i][j] = c
			corr[j][i] = c
		}
	}

	return corr
}

func isNaN(f float64) bool { return f != f }
