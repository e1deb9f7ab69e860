package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/retail-insights/internal/config"
	"github.com/aristath/retail-insights/internal/di"
)

func TestSystemHandlers_HandleHealth(t *testing.T) {
	t.Run("healthy when artifacts are loaded", func(t *testing.T) {
		s := newTestServer(t, &config.RateLimitConfig{})

		w := httptest.NewRecorder()
		s.systemHandlers.HandleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "healthy", resp.Status)
	})

	t.Run("degraded on an empty container", func(t *testing.T) {
		h := NewSystemHandlers(&di.Container{}, zerolog.Nop())

		w := httptest.NewRecorder()
		h.HandleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "degraded")
	})
}

func TestSystemHandlers_HandleSystemStatus(t *testing.T) {
	s := newTestServer(t, &config.RateLimitConfig{})

	w := httptest.NewRecorder()
	s.systemHandlers.HandleSystemStatus(w, httptest.NewRequest(http.MethodGet, "/api/system/status", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp SystemStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	require.NotNil(t, resp.Model)
	assert.Equal(t, "linear", resp.Model.Kind)
	require.NotNil(t, resp.Dataset)
	assert.Equal(t, 6, resp.Dataset.Rows)
	assert.Equal(t, 3, resp.Dataset.Categories)
	assert.Equal(t, 2, resp.ElasticityCount)
	assert.NotNil(t, resp.AnalyticsDB)
	assert.GreaterOrEqual(t, resp.MemoryPercent, 0.0)
}

func TestSystemHandlers_StatusDegradedWithoutArtifacts(t *testing.T) {
	h := NewSystemHandlers(&di.Container{}, zerolog.Nop())

	w := httptest.NewRecorder()
	h.HandleSystemStatus(w, httptest.NewRequest(http.MethodGet, "/api/system/status", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp SystemStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Nil(t, resp.Model)
	assert.Nil(t, resp.Dataset)
}

func TestSystemHandlers_HealthDegradedWhenDatabaseClosed(t *testing.T) {
	s := newTestServer(t, &config.RateLimitConfig{})
	require.NoError(t, s.container.AnalyticsDB.Close())

	w := httptest.NewRecorder()
	s.systemHandlers.HandleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
