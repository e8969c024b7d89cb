package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_HealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// No database configured: the service must report unhealthy.
	handler := NewHealthHandler(nil, nil)

	router := gin.New()
	router.GET("/health", handler.HealthCheck)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "unhealthy", response.Status)
	assert.Equal(t, "unhealthy: not configured", response.Services["database"])
	assert.Equal(t, "disabled", response.Services["redis"])
	assert.NotEmpty(t, response.Uptime)
	assert.Greater(t, response.System.Goroutines, 0)
}

func TestHealthHandler_ReadinessCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewHealthHandler(nil, nil)

	router := gin.New()
	router.GET("/ready", handler.ReadinessCheck)

	req := httptest.NewRequest("GET", "/ready", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "database not configured")
}

func TestHealthHandler_LivenessCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewHealthHandler(nil, nil)

	router := gin.New()
	router.GET("/live", handler.LivenessCheck)

	req := httptest.NewRequest("GET", "/live", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alive")
}

func TestCollectSystemStats(t *testing.T) {
	stats := collectSystemStats()
	assert.Greater(t, stats.Goroutines, 0)
	assert.GreaterOrEqual(t, stats.MemoryUsedPct, 0.0)
	assert.LessOrEqual(t, stats.MemoryUsedPct, 100.0)
}
