package montecarlo

import (
	"fmt"
	"hash/fnv"
	"sync"
)

// Known scenario modifier keys. Unknown keys are ignored, keeping the
// modifier set open for callers.
const (
	ModifierVolatilityMultiplier = "volatility_multiplier"
	ModifierReturnShift          = "return_shift"
)

// Scenario maps modifier keys to their values, e.g.
// {"volatility_multiplier": 2.0, "return_shift": -0.10}.
type Scenario map[string]float64

// StressTest evaluates every scenario against the base portfolio and returns
// the per-scenario results keyed by scenario name.
//
// Each scenario is applied to its own copy of the portfolio, so the base
// model is never modified and scenario effects cannot leak into one another.
// Scenarios run concurrently; when the base config carries a seed, each
// scenario derives its own seed from the base seed and the scenario name, so
// results are deterministic and independent of scheduling order.
func (e *Engine) StressTest(scenarios map[string]Scenario, cfg SimulationConfig) (map[string]*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	results := make(map[string]*Result, len(scenarios))

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)

	for name, modifiers := range scenarios {
		wg.Add(1)
		go func(name string, modifiers Scenario) {
			defer wg.Done()

			e.log.Info().Str("scenario", name).Msg("Running stress test scenario")

			result, err := e.runScenario(name, modifiers, cfg)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("scenario %q: %w", name, err)
				}
				return
			}
			results[name] = result
		}(name, modifiers)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// runScenario applies the modifiers to a copy of the base portfolio's asset
// parameters and runs a full calculation on the stressed copy.
func (e *Engine) runScenario(name string, modifiers Scenario, cfg SimulationConfig) (*Result, error) {
	assets := e.portfolio.Assets()
	for i := range assets {
		if m, ok := modifiers[ModifierVolatilityMultiplier]; ok {
			assets[i].Volatility *= m
		}
		if shift, ok := modifiers[ModifierReturnShift]; ok {
			assets[i].ExpectedReturn += shift
		}
	}

	stressed, err := e.portfolio.WithAssets(assets)
	if err != nil {
		return nil, err
	}

	scenarioCfg := cfg
	if cfg.Seed != nil {
		derived := *cfg.Seed ^ hashScenarioName(name)
		scenarioCfg.Seed = &derived
	}

	// Stress modifiers leave the correlation structure untouched, so the
	// base transform is shared.
	scenarioEngine := &Engine{
		portfolio: stressed,
		transform: e.transform,
		process:   e.process,
		log:       e.log.With().Str("scenario", name).Logger(),
	}

	return scenarioEngine.Calculate(scenarioCfg)
}

func hashScenarioName(name string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return h.Sum64()
}
