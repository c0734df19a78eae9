package montecarlo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulationConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     SimulationConfig
		wantErr string
	}{
		{
			name: "valid config",
			cfg: SimulationConfig{
				NumSimulations:   1000,
				TimeHorizon:      252,
				ConfidenceLevels: []float64{0.95, 0.99},
			},
		},
		{
			name: "zero simulations",
			cfg: SimulationConfig{
				NumSimulations: 0,
				TimeHorizon:    252,
			},
			wantErr: "num_simulations",
		},
		{
			name: "negative simulations",
			cfg: SimulationConfig{
				NumSimulations: -5,
				TimeHorizon:    252,
			},
			wantErr: "num_simulations",
		},
		{
			name: "zero horizon",
			cfg: SimulationConfig{
				NumSimulations: 1000,
				TimeHorizon:    0,
			},
			wantErr: "time_horizon",
		},
		{
			name: "confidence level at zero",
			cfg: SimulationConfig{
				NumSimulations:   1000,
				TimeHorizon:      252,
				ConfidenceLevels: []float64{0.0},
			},
			wantErr: "confidence_levels",
		},
		{
			name: "confidence level at one",
			cfg: SimulationConfig{
				NumSimulations:   1000,
				TimeHorizon:      252,
				ConfidenceLevels: []float64{1.0},
			},
			wantErr: "confidence_levels",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantErr, cfgErr.Field)
		})
	}
}

func TestSimulationConfig_Validate_DefaultsEmptyConfidenceLevels(t *testing.T) {
	cfg := SimulationConfig{
		NumSimulations: 1000,
		TimeHorizon:    252,
	}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultConfidenceLevels(), cfg.ConfidenceLevels)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultNumSimulations, cfg.NumSimulations)
	assert.Equal(t, DefaultTimeHorizon, cfg.TimeHorizon)
	assert.Equal(t, []float64{0.95, 0.99, 0.999}, cfg.ConfidenceLevels)
	assert.Nil(t, cfg.Seed)
}
