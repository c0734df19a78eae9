package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAssets() []AssetParameters {
	return []AssetParameters{
		{Symbol: "AAA", CurrentPrice: 100, ExpectedReturn: 0.08, Volatility: 0.25, Weight: 0.6},
		{Symbol: "BBB", CurrentPrice: 50, ExpectedReturn: 0.05, Volatility: 0.15, Weight: 0.4},
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name      string
		assets    []AssetParameters
		wantField string
	}{
		{
			name:      "empty portfolio",
			assets:    nil,
			wantField: "assets",
		},
		{
			name: "negative volatility",
			assets: []AssetParameters{
				{Symbol: "AAA", CurrentPrice: 100, Volatility: -0.1, Weight: 1.0},
			},
			wantField: "volatility",
		},
		{
			name: "weight above one",
			assets: []AssetParameters{
				{Symbol: "AAA", CurrentPrice: 100, Volatility: 0.2, Weight: 1.5},
			},
			wantField: "weight",
		},
		{
			name: "negative weight",
			assets: []AssetParameters{
				{Symbol: "AAA", CurrentPrice: 100, Volatility: 0.2, Weight: -0.5},
				{Symbol: "BBB", CurrentPrice: 100, Volatility: 0.2, Weight: 1.5},
			},
			wantField: "weight",
		},
		{
			name: "weights do not sum to one",
			assets: []AssetParameters{
				{Symbol: "AAA", CurrentPrice: 100, Volatility: 0.2, Weight: 0.5},
				{Symbol: "BBB", CurrentPrice: 100, Volatility: 0.2, Weight: 0.4},
			},
			wantField: "weights",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.assets, nil)
			require.Error(t, err)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.wantField, validationErr.Field)
		})
	}
}

func TestNew_WeightSumTolerance(t *testing.T) {
	assets := validAssets()
	assets[0].Weight = 0.6 + 0.5*WeightSumTolerance

	p, err := New(assets, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, p.NumAssets())
}

func TestNew_NilCorrelationDefaultsToIdentity(t *testing.T) {
	p, err := New(validAssets(), nil)
	require.NoError(t, err)

	corr := p.Correlation()
	require.Equal(t, 2, corr.SymmetricDim())
	assert.Equal(t, 1.0, corr.At(0, 0))
	assert.Equal(t, 1.0, corr.At(1, 1))
	assert.Equal(t, 0.0, corr.At(0, 1))
}

func TestNew_CorrelationValidation(t *testing.T) {
	tests := []struct {
		name string
		corr [][]float64
	}{
		{
			name: "wrong dimension",
			corr: [][]float64{{1.0}},
		},
		{
			name: "ragged row",
			corr: [][]float64{{1.0, 0.5}, {0.5}},
		},
		{
			name: "diagonal not one",
			corr: [][]float64{{1.0, 0.5}, {0.5, 0.9}},
		},
		{
			name: "asymmetric",
			corr: [][]float64{{1.0, 0.5}, {0.2, 1.0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(validAssets(), tt.corr)
			require.Error(t, err)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, "correlation_matrix", validationErr.Field)
		})
	}
}

func TestNew_CorrelationMustBePSD(t *testing.T) {
	assets := []AssetParameters{
		{Symbol: "AAA", CurrentPrice: 100, Volatility: 0.2, Weight: 0.4},
		{Symbol: "BBB", CurrentPrice: 100, Volatility: 0.2, Weight: 0.3},
		{Symbol: "CCC", CurrentPrice: 100, Volatility: 0.2, Weight: 0.3},
	}

	// Infeasible pairwise correlations: A and C cannot both correlate 0.9
	// with B while anti-correlating -0.9 with each other.
	infeasible := [][]float64{
		{1.0, 0.9, -0.9},
		{0.9, 1.0, 0.9},
		{-0.9, 0.9, 1.0},
	}

	_, err := New(assets, infeasible)
	require.Error(t, err)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "correlation_matrix", validationErr.Field)
	assert.Contains(t, validationErr.Reason, "positive semi-definite")
}

func TestPortfolio_AssetsReturnsCopy(t *testing.T) {
	p, err := New(validAssets(), nil)
	require.NoError(t, err)

	assets := p.Assets()
	assets[0].Volatility = 99.0

	assert.Equal(t, 0.25, p.Asset(0).Volatility)
}

func TestPortfolio_Weights(t *testing.T) {
	p, err := New(validAssets(), nil)
	require.NoError(t, err)

	assert.Equal(t, []float64{0.6, 0.4}, p.Weights())
}

func TestPortfolio_WithAssets(t *testing.T) {
	p, err := New(validAssets(), [][]float64{{1.0, 0.3}, {0.3, 1.0}})
	require.NoError(t, err)

	stressed := p.Assets()
	stressed[0].Volatility *= 2
	stressed[1].ExpectedReturn -= 0.10

	copied, err := p.WithAssets(stressed)
	require.NoError(t, err)

	// The copy carries the modified parameters and shares the correlation.
	assert.Equal(t, 0.50, copied.Asset(0).Volatility)
	assert.Equal(t, -0.05, copied.Asset(1).ExpectedReturn)
	assert.Same(t, p.Correlation(), copied.Correlation())

	// The base model is untouched.
	assert.Equal(t, 0.25, p.Asset(0).Volatility)
	assert.Equal(t, 0.05, p.Asset(1).ExpectedReturn)
}

func TestPortfolio_WithAssets_Validation(t *testing.T) {
	p, err := New(validAssets(), nil)
	require.NoError(t, err)

	_, err = p.WithAssets(validAssets()[:1])
	require.Error(t, err)

	bad := p.Assets()
	bad[0].Volatility = -0.5
	_, err = p.WithAssets(bad)
	require.Error(t, err)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "volatility", validationErr.Field)
}
