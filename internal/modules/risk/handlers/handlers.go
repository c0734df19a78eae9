// Package handlers provides the HTTP surface of the Monte Carlo risk engine.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/riskserver/internal/config"
	"github.com/aristath/riskserver/internal/modules/montecarlo"
	"github.com/aristath/riskserver/internal/modules/portfolio"
)

// reportingPortfolioValue scales fractional VaR/CVaR into dollar figures in
// API responses, assuming a $1M portfolio.
const reportingPortfolioValue = 1_000_000.0

// Handler handles Monte Carlo VaR HTTP requests
type Handler struct {
	cfg *config.Config
	log zerolog.Logger
}

// NewHandler creates a new Monte Carlo VaR handler
func NewHandler(cfg *config.Config, log zerolog.Logger) *Handler {
	return &Handler{
		cfg: cfg,
		log: log.With().Str("handler", "risk").Logger(),
	}
}

// monteCarloRequest is the calculation request body. The portfolio can be
// described either by a historical returns matrix (observations x assets)
// or by explicit expected returns and volatilities.
type monteCarloRequest struct {
	Assets            []string    `json:"assets"`
	Weights           []float64   `json:"weights"`
	HistoricalReturns [][]float64 `json:"historical_returns,omitempty"`
	ExpectedReturns   []float64   `json:"expected_returns,omitempty"`
	Volatilities      []float64   `json:"volatilities,omitempty"`
	CorrelationMatrix [][]float64 `json:"correlation_matrix,omitempty"`
	ConfidenceLevels  []float64   `json:"confidence_levels,omitempty"`
	NumSimulations    int         `json:"num_simulations,omitempty"`
	TimeHorizon       int         `json:"time_horizon,omitempty"`
	Seed              *uint64     `json:"seed,omitempty"`
	Process           string      `json:"process,omitempty"`
}

// stressTestRequest extends the calculation request with named scenarios.
type stressTestRequest struct {
	monteCarloRequest
	Scenarios map[string]map[string]float64 `json:"scenarios"`
}

type varResult struct {
	ConfidenceLevel float64 `json:"confidence_level"`
	VaRValue        float64 `json:"var_value"`
	CVaRValue       float64 `json:"cvar_value"`
	Percentile      float64 `json:"percentile"`
	VaRDollar       float64 `json:"var_dollar"`
	CVaRDollar      float64 `json:"cvar_dollar"`
}

// HandleCalculateVaR handles POST /api/risk/monte-carlo/var
func (h *Handler) HandleCalculateVaR(w http.ResponseWriter, r *http.Request) {
	var req monteCarloRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	engine, cfg, status, err := h.buildCalculation(&req)
	if err != nil {
		h.log.Warn().Err(err).Msg("Rejected VaR calculation request")
		h.writeError(w, status, err.Error())
		return
	}

	result, err := engine.Calculate(cfg)
	if err != nil {
		h.handleEngineError(w, err)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"calculation_id":       uuid.NewString(),
			"calculation_date":     time.Now().Format(time.RFC3339),
			"method":               "monte_carlo",
			"assets":               req.Assets,
			"weights":              req.Weights,
			"var_results":          buildVaRResults(result),
			"portfolio_statistics": result.Stats,
			"simulation_parameters": map[string]interface{}{
				"num_simulations": cfg.NumSimulations,
				"time_horizon":    cfg.TimeHorizon,
				"process":         processName(req.Process),
			},
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleStressTest handles POST /api/risk/monte-carlo/stress-test
func (h *Handler) HandleStressTest(w http.ResponseWriter, r *http.Request) {
	var req stressTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if len(req.Scenarios) == 0 {
		h.writeError(w, http.StatusBadRequest, "at least one scenario is required")
		return
	}

	engine, cfg, status, err := h.buildCalculation(&req.monteCarloRequest)
	if err != nil {
		h.log.Warn().Err(err).Msg("Rejected stress test request")
		h.writeError(w, status, err.Error())
		return
	}

	scenarios := make(map[string]montecarlo.Scenario, len(req.Scenarios))
	for name, modifiers := range req.Scenarios {
		scenarios[name] = montecarlo.Scenario(modifiers)
	}

	results, err := engine.StressTest(scenarios, cfg)
	if err != nil {
		h.handleEngineError(w, err)
		return
	}

	scenarioResults := make(map[string]interface{}, len(results))
	for name, result := range results {
		scenarioResults[name] = map[string]interface{}{
			"var_results":          buildVaRResults(result),
			"portfolio_statistics": result.Stats,
		}
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"calculation_id":   uuid.NewString(),
			"calculation_date": time.Now().Format(time.RFC3339),
			"method":           "monte_carlo_stress_test",
			"assets":           req.Assets,
			"weights":          req.Weights,
			"scenarios":        scenarioResults,
			"simulation_parameters": map[string]interface{}{
				"num_simulations": cfg.NumSimulations,
				"time_horizon":    cfg.TimeHorizon,
				"process":         processName(req.Process),
			},
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleListProcesses handles GET /api/risk/monte-carlo/processes
func (h *Handler) HandleListProcesses(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"data": map[string]interface{}{
			"processes": []string{montecarlo.ProcessGBM, montecarlo.ProcessMeanReversion},
			"default":   montecarlo.ProcessGBM,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

// buildCalculation validates the request shape, constructs the portfolio
// model and the simulation config, and wires the engine. Returns the HTTP
// status to use when err is non-nil.
func (h *Handler) buildCalculation(req *monteCarloRequest) (*montecarlo.Engine, montecarlo.SimulationConfig, int, error) {
	var zero montecarlo.SimulationConfig

	if len(req.Assets) == 0 {
		return nil, zero, http.StatusBadRequest, fmt.Errorf("assets list must not be empty")
	}
	if len(req.Weights) != len(req.Assets) {
		return nil, zero, http.StatusBadRequest,
			fmt.Errorf("number of weights (%d) must match number of assets (%d)", len(req.Weights), len(req.Assets))
	}
	if req.NumSimulations > h.cfg.MaxSimulations {
		return nil, zero, http.StatusBadRequest,
			fmt.Errorf("num_simulations %d exceeds the maximum of %d", req.NumSimulations, h.cfg.MaxSimulations)
	}

	process, err := montecarlo.ProcessByName(req.Process)
	if err != nil {
		return nil, zero, http.StatusBadRequest, err
	}

	model, err := h.buildPortfolio(req)
	if err != nil {
		var validationErr *portfolio.ValidationError
		if errors.As(err, &validationErr) {
			return nil, zero, http.StatusBadRequest, err
		}
		return nil, zero, http.StatusInternalServerError, err
	}

	cfg := montecarlo.SimulationConfig{
		NumSimulations:   req.NumSimulations,
		TimeHorizon:      req.TimeHorizon,
		ConfidenceLevels: req.ConfidenceLevels,
		Seed:             req.Seed,
	}
	if cfg.NumSimulations == 0 {
		cfg.NumSimulations = h.cfg.DefaultSimulations
	}
	if cfg.TimeHorizon == 0 {
		cfg.TimeHorizon = h.cfg.DefaultTimeHorizon
	}
	if err := cfg.Validate(); err != nil {
		return nil, zero, http.StatusBadRequest, err
	}

	return montecarlo.NewEngine(model, process, h.log), cfg, http.StatusOK, nil
}

// buildPortfolio selects the factory matching the request shape. The model
// re-validates every invariant itself; the checks here only cover the
// dimensional consistency the factories cannot see.
func (h *Handler) buildPortfolio(req *monteCarloRequest) (*portfolio.Portfolio, error) {
	if len(req.HistoricalReturns) > 0 {
		for i, row := range req.HistoricalReturns {
			if len(row) != len(req.Assets) {
				return nil, &portfolio.ValidationError{
					Field:  "historical_returns",
					Reason: fmt.Sprintf("observation %d has %d columns, expected %d", i, len(row), len(req.Assets)),
				}
			}
		}
		return portfolio.NewFromHistory(req.Assets, req.Weights, req.HistoricalReturns, req.CorrelationMatrix)
	}

	if len(req.ExpectedReturns) > 0 || len(req.Volatilities) > 0 {
		return portfolio.NewFromParameters(req.Assets, req.Weights, req.ExpectedReturns, req.Volatilities, req.CorrelationMatrix)
	}

	return nil, &portfolio.ValidationError{
		Field:  "request",
		Reason: "either historical_returns or expected_returns and volatilities must be provided",
	}
}

// handleEngineError maps engine error kinds to HTTP statuses.
func (h *Handler) handleEngineError(w http.ResponseWriter, err error) {
	var (
		configErr     *montecarlo.ConfigurationError
		processErr    *montecarlo.UnsupportedProcessError
		validationErr *portfolio.ValidationError
	)

	switch {
	case errors.As(err, &configErr), errors.As(err, &processErr), errors.As(err, &validationErr):
		h.log.Warn().Err(err).Msg("VaR calculation rejected")
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Msg("VaR calculation failed")
		h.writeError(w, http.StatusInternalServerError, "VaR calculation failed")
	}
}

// buildVaRResults flattens a result into the per-confidence-level response
// list, ordered by ascending confidence level.
func buildVaRResults(result *montecarlo.Result) []varResult {
	levels := make([]float64, 0, len(result.VaR))
	for cl := range result.VaR {
		levels = append(levels, cl)
	}
	sort.Float64s(levels)

	out := make([]varResult, 0, len(levels))
	for _, cl := range levels {
		out = append(out, varResult{
			ConfidenceLevel: cl,
			VaRValue:        result.VaR[cl],
			CVaRValue:       result.CVaR[cl],
			Percentile:      result.Percentiles[cl],
			VaRDollar:       result.VaR[cl] * reportingPortfolioValue,
			CVaRDollar:      result.CVaR[cl] * reportingPortfolioValue,
		})
	}
	return out
}

func processName(name string) string {
	if name == "" {
		return montecarlo.ProcessGBM
	}
	return name
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, detail string) {
	h.writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"detail": detail,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}
