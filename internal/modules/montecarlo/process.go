package montecarlo

import (
	"fmt"
	"math"

	"github.com/aristath/riskserver/internal/modules/portfolio"
)

// Process names accepted by ProcessByName.
const (
	ProcessGBM           = "gbm"
	ProcessMeanReversion = "mean_reversion"
)

// DefaultMeanReversionSpeed is the fixed reversion speed (theta) of the
// Ornstein-Uhlenbeck process. Kept constant to preserve established numeric
// behavior; set MeanReversion.Theta explicitly to override.
const DefaultMeanReversionSpeed = 0.5

// UnsupportedProcessError reports a requested stochastic process variant
// that has no implementation.
type UnsupportedProcessError struct {
	Process string
}

func (e *UnsupportedProcessError) Error() string {
	return fmt.Sprintf("stochastic process %q is not implemented", e.Process)
}

// Process is a stochastic-process variant the path simulator can drive.
// The variant set is closed: adding a process means adding a type here and
// registering it in ProcessByName.
type Process interface {
	// Name returns the wire identifier of the process.
	Name() string

	// NewState allocates the per-asset simulation state for numSims paths.
	NewState(asset portfolio.AssetParameters, numSims int) ProcessState
}

// ProcessState accumulates one asset's paths step by step. Step receives the
// correlated standard-normal draw for each simulation at one time step;
// TerminalReturns is called once, after all horizon steps.
type ProcessState interface {
	Step(draws []float64, dt float64)
	TerminalReturns() []float64
}

// ProcessByName resolves a process identifier. An empty name selects GBM.
// Unknown or unimplemented variants (e.g. jump diffusion) return
// UnsupportedProcessError rather than silently defaulting.
func ProcessByName(name string) (Process, error) {
	switch name {
	case "", ProcessGBM:
		return GBM{}, nil
	case ProcessMeanReversion:
		return MeanReversion{Theta: DefaultMeanReversionSpeed}, nil
	default:
		return nil, &UnsupportedProcessError{Process: name}
	}
}

// GBM simulates geometric Brownian motion. Terminal returns depend only on
// the cumulative Brownian increment, so only the running sum of scaled draws
// is stored per path and the terminal value is computed in closed form:
// S_T = S_0 * exp((mu - sigma^2/2)*T + sigma*W_T).
type GBM struct{}

// Name implements Process.
func (GBM) Name() string { return ProcessGBM }

// NewState implements Process.
func (GBM) NewState(asset portfolio.AssetParameters, numSims int) ProcessState {
	return &gbmState{
		asset:      asset,
		cumulative: make([]float64, numSims),
	}
}

type gbmState struct {
	asset      portfolio.AssetParameters
	cumulative []float64 // Running W_t per simulation
	steps      int
	dt         float64
}

func (s *gbmState) Step(draws []float64, dt float64) {
	sqrtDt := math.Sqrt(dt)
	for i, z := range draws {
		s.cumulative[i] += z * sqrtDt
	}
	s.steps++
	s.dt = dt
}

func (s *gbmState) TerminalReturns() []float64 {
	drift := s.asset.ExpectedReturn - 0.5*s.asset.Volatility*s.asset.Volatility
	elapsed := float64(s.steps) * s.dt

	returns := make([]float64, len(s.cumulative))
	for i, w := range s.cumulative {
		finalPrice := s.asset.CurrentPrice * math.Exp(drift*elapsed+s.asset.Volatility*w)
		returns[i] = (finalPrice - s.asset.CurrentPrice) / s.asset.CurrentPrice
	}
	return returns
}

// MeanReversion simulates an Ornstein-Uhlenbeck process on log price,
// reverting towards log(reference price) + mu at speed Theta. Unlike GBM
// the interior path matters, so every step updates the log price:
// dX = Theta*(log(S_0) + mu - X)*dt + sigma*dW.
type MeanReversion struct {
	Theta float64 // Reversion speed; DefaultMeanReversionSpeed when built via ProcessByName
}

// Name implements Process.
func (MeanReversion) Name() string { return ProcessMeanReversion }

// NewState implements Process.
func (m MeanReversion) NewState(asset portfolio.AssetParameters, numSims int) ProcessState {
	logPrices := make([]float64, numSims)
	logStart := math.Log(asset.CurrentPrice)
	for i := range logPrices {
		logPrices[i] = logStart
	}
	return &meanReversionState{
		asset:     asset,
		theta:     m.Theta,
		logPrices: logPrices,
	}
}

type meanReversionState struct {
	asset     portfolio.AssetParameters
	theta     float64
	logPrices []float64
}

func (s *meanReversionState) Step(draws []float64, dt float64) {
	logMean := math.Log(s.asset.CurrentPrice) + s.asset.ExpectedReturn
	sqrtDt := math.Sqrt(dt)

	for i, z := range draws {
		s.logPrices[i] += s.theta*(logMean-s.logPrices[i])*dt + s.asset.Volatility*z*sqrtDt
	}
}

func (s *meanReversionState) TerminalReturns() []float64 {
	returns := make([]float64, len(s.logPrices))
	for i, lp := range s.logPrices {
		price := math.Exp(lp)
		returns[i] = (price - s.asset.CurrentPrice) / s.asset.CurrentPrice
	}
	return returns
}
