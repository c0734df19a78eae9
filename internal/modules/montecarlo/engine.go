package montecarlo

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/aristath/riskserver/internal/modules/portfolio"
)

// Engine runs Monte Carlo VaR calculations over one portfolio model. The
// model is never mutated: Calculate is pure with respect to it, and stress
// scenarios operate on per-scenario copies. An Engine is safe for concurrent
// use because every calculation carries its own random source.
type Engine struct {
	portfolio *portfolio.Portfolio
	transform *correlationTransform
	process   Process
	log       zerolog.Logger
}

// NewEngine creates an engine for the given portfolio and stochastic
// process. The correlating transform is derived once here; the regularizing
// spectral fallback (if taken) is logged but never fails.
func NewEngine(p *portfolio.Portfolio, process Process, log zerolog.Logger) *Engine {
	transform := newCorrelationTransform(p.Correlation())

	e := &Engine{
		portfolio: p,
		transform: transform,
		process:   process,
		log:       log.With().Str("component", "montecarlo").Logger(),
	}

	if transform.spectral {
		e.log.Warn().
			Int("num_assets", p.NumAssets()).
			Msg("Cholesky decomposition failed, regularized correlation matrix via eigenvalue clipping")
	}

	return e
}

// Calculate simulates the portfolio-return distribution under the engine's
// process and derives VaR, CVaR and summary statistics for each configured
// confidence level.
func (e *Engine) Calculate(cfg SimulationConfig) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := resolveSeed(cfg.Seed)

	e.log.Info().
		Int("num_simulations", cfg.NumSimulations).
		Int("time_horizon", cfg.TimeHorizon).
		Str("process", e.process.Name()).
		Msg("Starting simulation")

	portfolioReturns := e.simulatePortfolioReturns(cfg, seed)
	result := computeRiskMetrics(portfolioReturns, cfg.ConfidenceLevels)

	e.log.Info().
		Int("confidence_levels", len(cfg.ConfidenceLevels)).
		Msg("VaR calculation completed")

	return result, nil
}

// simulatePortfolioReturns generates cfg.NumSimulations terminal
// portfolio-return observations. Draws are generated and consumed one
// time-step slab (assets x simulations) at a time, so peak memory is
// independent of the horizon length.
func (e *Engine) simulatePortfolioReturns(cfg SimulationConfig, seed uint64) []float64 {
	numAssets := e.portfolio.NumAssets()
	dt := 1.0 / float64(cfg.TimeHorizon)

	normal := distuv.Normal{
		Mu:    0,
		Sigma: 1,
		Src:   rand.NewPCG(seed, seed),
	}

	states := make([]ProcessState, numAssets)
	for i := 0; i < numAssets; i++ {
		states[i] = e.process.NewState(e.portfolio.Asset(i), cfg.NumSimulations)
	}

	stepDraws := make([][]float64, numAssets)
	for a := range stepDraws {
		stepDraws[a] = make([]float64, cfg.NumSimulations)
	}
	z := make([]float64, numAssets)
	scratch := make([]float64, numAssets)

	for t := 0; t < cfg.TimeHorizon; t++ {
		for sim := 0; sim < cfg.NumSimulations; sim++ {
			// Independent draws for this step's cross-asset vector, then
			// mixed through the correlation transform.
			for a := 0; a < numAssets; a++ {
				z[a] = normal.Rand()
			}
			e.transform.Apply(z, scratch)
			for a := 0; a < numAssets; a++ {
				stepDraws[a][sim] = z[a]
			}
		}
		for a, state := range states {
			state.Step(stepDraws[a], dt)
		}
	}

	assetReturns := make([][]float64, numAssets)
	for a, state := range states {
		assetReturns[a] = state.TerminalReturns()
	}

	return Aggregate(assetReturns, e.portfolio.Weights())
}

// resolveSeed turns an optional configured seed into the seed actually used.
// A nil seed draws entropy from the OS so independent unseeded calculations
// never share a stream.
func resolveSeed(seed *uint64) uint64 {
	if seed != nil {
		return *seed
	}
	var b [8]byte
	if _, err := crand.Read(b[:]); err == nil {
		return binary.LittleEndian.Uint64(b[:])
	}
	return uint64(time.Now().UnixNano())
}
