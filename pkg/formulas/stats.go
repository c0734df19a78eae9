// Package formulas provides the scalar statistics shared by the portfolio
// factories and the risk metrics engine.
package formulas

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear is the annualization base for daily return series.
const TradingDaysPerYear = 252.0

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// PopStdDev calculates the population standard deviation (N denominator).
// Simulated distributions are complete populations, not samples.
func PopStdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	m := stat.Mean(data, nil)
	return math.Sqrt(stat.MomentAbout(2, data, m, nil))
}

// Skewness calculates the population skewness (third standardized moment).
func Skewness(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	m := stat.Mean(data, nil)
	m2 := stat.MomentAbout(2, data, m, nil)
	if m2 == 0 {
		return 0
	}
	m3 := stat.MomentAbout(3, data, m, nil)
	return m3 / math.Pow(m2, 1.5)
}

// ExcessKurtosis calculates the population excess kurtosis (fourth
// standardized moment minus 3, so a normal distribution scores 0).
func ExcessKurtosis(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	m := stat.Mean(data, nil)
	m2 := stat.MomentAbout(2, data, m, nil)
	if m2 == 0 {
		return 0
	}
	m4 := stat.MomentAbout(4, data, m, nil)
	return m4/(m2*m2) - 3
}

// Percentile returns the p-th percentile (p in [0,100]) of data using
// linear interpolation between order statistics.
func Percentile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return 0
	}
	if len(data) == 1 {
		return data[0]
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := lo + 1
	frac := rank - float64(lo)

	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Correlation calculates the Pearson correlation coefficient between two datasets
func Correlation(x, y []float64) float64 {
	if len(x) == 0 || len(y) == 0 || len(x) != len(y) {
		return 0
	}
	return stat.Correlation(x, y, nil)
}

// AnnualizedReturn scales a mean daily return to an annual figure.
func AnnualizedReturn(meanDailyReturn float64) float64 {
	return meanDailyReturn * TradingDaysPerYear
}

// AnnualizedVolatility scales a daily return volatility to an annual figure.
func AnnualizedVolatility(dailyVolatility float64) float64 {
	return dailyVolatility * math.Sqrt(TradingDaysPerYear)
}
