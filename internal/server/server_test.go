package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/riskserver/internal/config"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	return New(Config{
		Port: 8000,
		Log:  zerolog.Nop(),
		Config: &config.Config{
			Port:                  8000,
			LogLevel:              "info",
			DevMode:               true,
			MaxSimulations:        100000,
			DefaultSimulations:    1000,
			DefaultTimeHorizon:    50,
			ShutdownTimeoutSecs:   10,
			RequestTimeoutSeconds: 60,
		},
		DevMode: true,
	})
}

func TestHandleHealth(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, "riskserver", data["service"])

	metadata := body["metadata"].(map[string]interface{})
	assert.NotEmpty(t, metadata["timestamp"])
}

func TestRiskRoutesMounted(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/risk/monte-carlo/processes", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownRouteReturns404(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
