package montecarlo

import (
	"github.com/aristath/riskserver/pkg/formulas"
)

// computeRiskMetrics derives the per-confidence-level VaR/CVaR estimates and
// the summary statistics from a simulated portfolio-return vector. Each
// confidence level is treated independently.
func computeRiskMetrics(portfolioReturns []float64, confidenceLevels []float64) *Result {
	result := &Result{
		VaR:              make(map[float64]float64, len(confidenceLevels)),
		CVaR:             make(map[float64]float64, len(confidenceLevels)),
		Percentiles:      make(map[float64]float64, len(confidenceLevels)),
		PortfolioReturns: portfolioReturns,
	}

	for _, cl := range confidenceLevels {
		// Loss-positive convention: VaR is the negated tail percentile.
		percentile := (1 - cl) * 100
		varValue := -formulas.Percentile(portfolioReturns, percentile)
		result.VaR[cl] = varValue
		result.Percentiles[cl] = percentile

		// Expected shortfall: mean of the tail at or beyond the VaR
		// threshold. With very few paths the tail can be empty; CVaR then
		// falls back to VaR rather than being undefined.
		var tailSum float64
		tailCount := 0
		for _, r := range portfolioReturns {
			if r <= -varValue {
				tailSum += r
				tailCount++
			}
		}
		if tailCount > 0 {
			result.CVaR[cl] = -(tailSum / float64(tailCount))
		} else {
			result.CVaR[cl] = varValue
		}
	}

	result.Stats = Statistics{
		MeanReturn:     formulas.Mean(portfolioReturns),
		StdReturn:      formulas.PopStdDev(portfolioReturns),
		Skewness:       formulas.Skewness(portfolioReturns),
		Kurtosis:       formulas.ExcessKurtosis(portfolioReturns),
		MinReturn:      minOf(portfolioReturns),
		MaxReturn:      maxOf(portfolioReturns),
		NumSimulations: len(portfolioReturns),
	}

	return result
}

func minOf(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	m := data[0]
	for _, v := range data[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	m := data[0]
	for _, v := range data[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
