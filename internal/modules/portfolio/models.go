// Package portfolio defines the validated portfolio model consumed by the
// Monte Carlo risk engine: per-asset simulation parameters plus the
// cross-asset correlation structure.
package portfolio

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	// WeightSumTolerance is the allowed deviation of the portfolio weight sum from 1.0.
	WeightSumTolerance = 1e-5

	// matrixTolerance bounds the symmetry/diagonal/eigenvalue checks on the
	// correlation matrix. Empirically estimated matrices sit right at the
	// PSD boundary, so the eigenvalue check permits values down to -matrixTolerance.
	matrixTolerance = 1e-8
)

// AssetParameters holds the simulation inputs for a single asset.
type AssetParameters struct {
	Symbol         string  // Asset identifier
	CurrentPrice   float64 // Reference price at the start of the horizon
	ExpectedReturn float64 // Annualized expected return (mu)
	Volatility     float64 // Annualized volatility (sigma)
	Weight         float64 // Portfolio weight in [0, 1]
}

// ValidationError reports a portfolio invariant violation. Field names the
// invariant that failed; Reason carries the offending value so the API layer
// can build a user-facing message.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("portfolio validation failed: %s: %s", e.Field, e.Reason)
}

// Portfolio is a validated, read-only container of asset parameters and the
// correlation matrix between them. Construct via New, NewFromParameters or
// NewFromHistory; direct construction skips validation.
type Portfolio struct {
	assets      []AssetParameters
	correlation *mat.SymDense
}

// New builds a Portfolio from explicit asset parameters and an optional
// correlation matrix. A nil matrix means uncorrelated assets (identity).
func New(assets []AssetParameters, correlation [][]float64) (*Portfolio, error) {
	if len(assets) == 0 {
		return nil, &ValidationError{Field: "assets", Reason: "portfolio must contain at least one asset"}
	}

	for _, a := range assets {
		if a.Volatility < 0 {
			return nil, &ValidationError{
				Field:  "volatility",
				Reason: fmt.Sprintf("must be non-negative for %s, got %v", a.Symbol, a.Volatility),
			}
		}
		if a.Weight < 0 || a.Weight > 1 {
			return nil, &ValidationError{
				Field:  "weight",
				Reason: fmt.Sprintf("must be between 0 and 1 for %s, got %v", a.Symbol, a.Weight),
			}
		}
	}

	totalWeight := 0.0
	for _, a := range assets {
		totalWeight += a.Weight
	}
	if math.Abs(totalWeight-1.0) > WeightSumTolerance {
		return nil, &ValidationError{
			Field:  "weights",
			Reason: fmt.Sprintf("must sum to 1.0, got %v", totalWeight),
		}
	}

	var corr *mat.SymDense
	if correlation == nil {
		corr = identityCorrelation(len(assets))
	} else {
		var err error
		corr, err = validateCorrelation(correlation, len(assets))
		if err != nil {
			return nil, err
		}
	}

	owned := make([]AssetParameters, len(assets))
	copy(owned, assets)

	return &Portfolio{assets: owned, correlation: corr}, nil
}

// NumAssets returns the number of assets in the portfolio.
func (p *Portfolio) NumAssets() int {
	return len(p.assets)
}

// Assets returns a copy of the asset parameters, preserving order.
func (p *Portfolio) Assets() []AssetParameters {
	out := make([]AssetParameters, len(p.assets))
	copy(out, p.assets)
	return out
}

// Asset returns the parameters of the i-th asset.
func (p *Portfolio) Asset(i int) AssetParameters {
	return p.assets[i]
}

// Weights returns the portfolio weight vector in asset order.
func (p *Portfolio) Weights() []float64 {
	w := make([]float64, len(p.assets))
	for i, a := range p.assets {
		w[i] = a.Weight
	}
	return w
}

// Correlation returns the correlation matrix. Callers must not modify it.
func (p *Portfolio) Correlation() *mat.SymDense {
	return p.correlation
}

// WithAssets returns a new Portfolio sharing this portfolio's correlation
// matrix but carrying the given asset parameters. Used by the scenario
// runner to apply stress modifiers without touching the base model; the
// replacement assets go through the same parameter validation as New.
func (p *Portfolio) WithAssets(assets []AssetParameters) (*Portfolio, error) {
	if len(assets) != len(p.assets) {
		return nil, &ValidationError{
			Field:  "assets",
			Reason: fmt.Sprintf("asset count %d does not match portfolio size %d", len(assets), len(p.assets)),
		}
	}

	for _, a := range assets {
		if a.Volatility < 0 {
			return nil, &ValidationError{
				Field:  "volatility",
				Reason: fmt.Sprintf("must be non-negative for %s, got %v", a.Symbol, a.Volatility),
			}
		}
	}

	owned := make([]AssetParameters, len(assets))
	copy(owned, assets)

	return &Portfolio{assets: owned, correlation: p.correlation}, nil
}

// identityCorrelation builds an n-by-n identity matrix (uncorrelated assets).
func identityCorrelation(n int) *mat.SymDense {
	m := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		m.SetSym(i, i, 1.0)
	}
	return m
}

// validateCorrelation checks shape, symmetry, unit diagonal and positive
// semi-definiteness of a raw correlation matrix and converts it to SymDense.
func validateCorrelation(corr [][]float64, numAssets int) (*mat.SymDense, error) {
	if len(corr) != numAssets {
		return nil, &ValidationError{
			Field:  "correlation_matrix",
			Reason: fmt.Sprintf("dimension %d does not match number of assets %d", len(corr), numAssets),
		}
	}
	for i, row := range corr {
		if len(row) != numAssets {
			return nil, &ValidationError{
				Field:  "correlation_matrix",
				Reason: fmt.Sprintf("row %d has %d entries, expected %d", i, len(row), numAssets),
			}
		}
	}

	for i := 0; i < numAssets; i++ {
		if math.Abs(corr[i][i]-1.0) > matrixTolerance {
			return nil, &ValidationError{
				Field:  "correlation_matrix",
				Reason: fmt.Sprintf("diagonal entry (%d,%d) must be 1.0, got %v", i, i, corr[i][i]),
			}
		}
		for j := i + 1; j < numAssets; j++ {
			if math.Abs(corr[i][j]-corr[j][i]) > matrixTolerance {
				return nil, &ValidationError{
					Field:  "correlation_matrix",
					Reason: fmt.Sprintf("must be symmetric: entries (%d,%d)=%v and (%d,%d)=%v differ", i, j, corr[i][j], j, i, corr[j][i]),
				}
			}
		}
	}

	sym := mat.NewSymDense(numAssets, nil)
	for i := 0; i < numAssets; i++ {
		for j := i; j < numAssets; j++ {
			sym.SetSym(i, j, corr[i][j])
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(sym, false) {
		return nil, &ValidationError{
			Field:  "correlation_matrix",
			Reason: "eigenvalue decomposition failed",
		}
	}
	for _, v := range eig.Values(nil) {
		if v < -matrixTolerance {
			return nil, &ValidationError{
				Field:  "correlation_matrix",
				Reason: fmt.Sprintf("must be positive semi-definite, found eigenvalue %v", v),
			}
		}
	}

	return sym, nil
}
