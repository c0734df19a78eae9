package montecarlo

// Aggregate combines per-asset per-path terminal returns into a single
// portfolio-return observation per path: the weighted sum along the asset
// axis. assetReturns is indexed [asset][path]; weights were validated at
// portfolio construction, so none happens here.
func Aggregate(assetReturns [][]float64, weights []float64) []float64 {
	if len(assetReturns) == 0 {
		return nil
	}

	numPaths := len(assetReturns[0])
	portfolioReturns := make([]float64, numPaths)

	for a, returns := range assetReturns {
		w := weights[a]
		for i, r := range returns {
			portfolioReturns[i] += w * r
		}
	}

	return portfolioReturns
}
