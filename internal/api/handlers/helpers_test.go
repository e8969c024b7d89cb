package handlers

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/drawlytics/powerball-edge/internal/config"
	"github.com/drawlytics/powerball-edge/internal/models"
	"github.com/drawlytics/powerball-edge/internal/services"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testAnalysisConfig() config.AnalysisConfig {
	return config.AnalysisConfig{
		LookbackDays:  []int{30, 90, 365},
		PatternLength: 3,
		Simulations:   100,
		TrendPeriod:   3,
	}
}

func newTestAnalyzer() *services.Analyzer {
	return services.NewAnalyzer(testAnalysisConfig(), services.NewResampler(42), testLogger())
}

func newTestPredictor() *services.Predictor {
	return services.NewPredictor(newTestAnalyzer(), 42, testLogger())
}

// stubRepo is an in-memory DrawProvider for handler tests.
type stubRepo struct {
	drawings []models.Drawing
	err      error
}

func (s *stubRepo) Snapshot(_ context.Context, limit int) ([]models.Drawing, error) {
	if s.err != nil {
		return nil, s.err
	}
	if limit > 0 && limit < len(s.drawings) {
		return s.drawings[:limit], nil
	}
	return s.drawings, nil
}

func (s *stubRepo) Summary(_ context.Context) (models.DrawSummary, error) {
	if s.err != nil {
		return models.DrawSummary{}, s.err
	}
	summary := models.DrawSummary{TotalDrawings: len(s.drawings)}
	if len(s.drawings) > 0 {
		latest := s.drawings[0].DrawDate
		earliest := s.drawings[len(s.drawings)-1].DrawDate
		summary.LatestDate = &latest
		summary.EarliestDate = &earliest
	}
	return summary, nil
}

// testSnapshot builds a deterministic most-recent-first history.
func testSnapshot(count int) []models.Drawing {
	generated := services.NewSyntheticGenerator().Generate(count)
	drawings := make([]models.Drawing, len(generated))
	for i, d := range generated {
		drawings[len(generated)-1-i] = d
	}
	return drawings
}

type stubSyncInfo struct {
	lastSync *time.Time
	err      error
}

func (s *stubSyncInfo) LastSyncTime(context.Context) (*time.Time, error) {
	return s.lastSync, s.err
}

type stubSyncer struct {
	result   *models.IngestResult
	err      error
	fullRuns int
	incrRuns int
}

func (s *stubSyncer) SyncDrawings(context.Context) (*models.IngestResult, error) {
	s.fullRuns++
	return s.result, s.err
}

func (s *stubSyncer) SyncNewDrawings(context.Context) (*models.IngestResult, error) {
	s.incrRuns++
	return s.result, s.err
}
