package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/drawlytics/powerball-edge/internal/config"
	"github.com/drawlytics/powerball-edge/internal/models"
	"github.com/drawlytics/powerball-edge/internal/services"
)

type stubRepo struct {
	drawings []models.Drawing
}

func (s *stubRepo) Snapshot(_ context.Context, limit int) ([]models.Drawing, error) {
	if limit > 0 && limit < len(s.drawings) {
		return s.drawings[:limit], nil
	}
	return s.drawings, nil
}

func (s *stubRepo) Summary(_ context.Context) (models.DrawSummary, error) {
	return models.DrawSummary{TotalDrawings: len(s.drawings)}, nil
}

func newTestRouter(t *testing.T, drawings []models.Drawing) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	hash, err := bcrypt.GenerateFromPassword([]byte("test-admin-key"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:    "test-secret",
			AdminKeyHash: string(hash),
			TokenTTL:     "1h",
		},
		Analysis: config.AnalysisConfig{
			LookbackDays:  []int{30, 90, 365},
			PatternLength: 3,
			Simulations:   100,
			TrendPeriod:   3,
		},
	}

	analyzer := services.NewAnalyzer(cfg.Analysis, services.NewResampler(42), logger)
	predictor := services.NewPredictor(analyzer, 42, logger)

	router := gin.New()
	SetupRoutes(router, Dependencies{
		Repo:      &stubRepo{drawings: drawings},
		Analyzer:  analyzer,
		Predictor: predictor,
		Config:    cfg,
		Logger:    logger,
	})
	return router
}

func syntheticHistory(count int) []models.Drawing {
	generated := services.NewSyntheticGenerator().Generate(count)
	drawings := make([]models.Drawing, len(generated))
	for i, d := range generated {
		drawings[len(generated)-1-i] = d
	}
	return drawings
}

func TestSetupRoutes_PublicEndpoints(t *testing.T) {
	router := newTestRouter(t, syntheticHistory(80))

	t.Run("liveness", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/live", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("status", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/status", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total_drawings":80`)
	})

	t.Run("drawings", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/drawings?limit=5", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"count":5`)
	})

	t.Run("analysis", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/analysis?format=json", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "monte_carlo_results")
	})

	t.Run("predictions", func(t *testing.T) {
		body := bytes.NewReader([]byte(`{"tickets": 2, "strategy": "portfolio"}`))
		req := httptest.NewRequest("POST", "/api/v1/predictions", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"predictions"`)
	})
}

func TestSetupRoutes_EmptyStore(t *testing.T) {
	router := newTestRouter(t, nil)

	t.Run("analysis yields 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/analysis", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error": "no data available"}`, w.Body.String())
	})

	t.Run("predictions yield 404", func(t *testing.T) {
		body := bytes.NewReader([]byte(`{"tickets": 1}`))
		req := httptest.NewRequest("POST", "/api/v1/predictions", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("status still answers", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/status", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestSetupRoutes_AdminAuth(t *testing.T) {
	router := newTestRouter(t, syntheticHistory(10))

	t.Run("sync requires credentials", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/admin/sync", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token exchange", func(t *testing.T) {
		body := bytes.NewReader([]byte(`{"api_key": "test-admin-key"}`))
		req := httptest.NewRequest("POST", "/api/v1/auth/token", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"token"`)
	})

	t.Run("token exchange rejects bad key", func(t *testing.T) {
		body := bytes.NewReader([]byte(`{"api_key": "nope"}`))
		req := httptest.NewRequest("POST", "/api/v1/auth/token", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
