// Package montecarlo implements the Monte Carlo simulation kernel: correlated
// stochastic-process path generation, VaR/CVaR estimation, and stress-test
// scenario evaluation over a validated portfolio model.
package montecarlo

import "fmt"

// Default simulation parameters, matching the service's documented behavior.
const (
	DefaultNumSimulations = 10000
	DefaultTimeHorizon    = 252 // Trading days (1 year)
)

// DefaultConfidenceLevels returns the standard confidence level set.
func DefaultConfidenceLevels() []float64 {
	return []float64{0.95, 0.99, 0.999}
}

// SimulationConfig parameterizes one VaR calculation.
type SimulationConfig struct {
	NumSimulations   int       // Number of simulated paths
	TimeHorizon      int       // Discrete steps in the horizon
	ConfidenceLevels []float64 // Each strictly in (0, 1)
	Seed             *uint64   // Optional deterministic seed; nil draws a random one
}

// DefaultConfig returns a SimulationConfig with the standard parameters and
// no seed.
func DefaultConfig() SimulationConfig {
	return SimulationConfig{
		NumSimulations:   DefaultNumSimulations,
		TimeHorizon:      DefaultTimeHorizon,
		ConfidenceLevels: DefaultConfidenceLevels(),
	}
}

// ConfigurationError reports an invalid SimulationConfig field.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid simulation config: %s: %s", e.Field, e.Reason)
}

// Validate checks the configuration invariants. Empty confidence levels are
// replaced by the defaults, mirroring the construction-time defaulting of
// DefaultConfig; everything else must be explicitly valid.
func (c *SimulationConfig) Validate() error {
	if c.NumSimulations <= 0 {
		return &ConfigurationError{
			Field:  "num_simulations",
			Reason: fmt.Sprintf("must be positive, got %d", c.NumSimulations),
		}
	}
	if c.TimeHorizon <= 0 {
		return &ConfigurationError{
			Field:  "time_horizon",
			Reason: fmt.Sprintf("must be positive, got %d", c.TimeHorizon),
		}
	}
	if len(c.ConfidenceLevels) == 0 {
		c.ConfidenceLevels = DefaultConfidenceLevels()
	}
	for _, cl := range c.ConfidenceLevels {
		if cl <= 0 || cl >= 1 {
			return &ConfigurationError{
				Field:  "confidence_levels",
				Reason: fmt.Sprintf("level %v must be strictly between 0 and 1", cl),
			}
		}
	}
	return nil
}
