package montecarlo

// Statistics summarizes a simulated portfolio-return distribution.
type Statistics struct {
	MeanReturn     float64 `json:"mean_return"`
	StdReturn      float64 `json:"std_return"`
	Skewness       float64 `json:"skewness"`
	Kurtosis       float64 `json:"kurtosis"`
	MinReturn      float64 `json:"min_return"`
	MaxReturn      float64 `json:"max_return"`
	NumSimulations int     `json:"num_simulations"`
}

// Result holds the output of one VaR calculation. It is produced fresh per
// calculation and must be treated as immutable by callers.
type Result struct {
	// VaR maps confidence level to the loss-positive VaR estimate.
	VaR map[float64]float64

	// CVaR maps confidence level to the expected shortfall beyond VaR.
	CVaR map[float64]float64

	// Percentiles maps confidence level to the source percentile
	// ((1-c)*100) the VaR estimate was read from.
	Percentiles map[float64]float64

	// PortfolioReturns is the raw simulated portfolio-return sample set.
	PortfolioReturns []float64

	// Stats are descriptive statistics of PortfolioReturns.
	Stats Statistics
}
