package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/drawlytics/powerball-edge/internal/services"
)

// AnalysisHandler recomputes statistical analysis from the current snapshot
// on every request. Results are never cached.
type AnalysisHandler struct {
	repo     DrawProvider
	analyzer *services.Analyzer
	logger   *logrus.Logger
}

func NewAnalysisHandler(repo DrawProvider, analyzer *services.Analyzer, logger *logrus.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		repo:     repo,
		analyzer: analyzer,
		logger:   logger,
	}
}

// GetAnalysis runs the aggregators over the full stored history. The format
// parameter selects how much of the envelope is returned: summary trims to
// the headline sections, detailed adds patterns and positions, json returns
// everything including Monte Carlo results.
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	format := c.DefaultQuery("format", "summary")
	if format != "summary" && format != "detailed" && format != "json" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of summary, detailed, json"})
		return
	}

	snapshot, err := h.repo.Snapshot(c.Request.Context(), 0)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load drawings for analysis")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load drawings"})
		return
	}

	analysis, err := h.analyzer.ComprehensiveAnalysis(snapshot)
	if err != nil {
		if errors.Is(err, services.ErrNoData) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no data available"})
			return
		}
		h.logger.WithError(err).Error("Analysis failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
		return
	}

	switch format {
	case "summary":
		c.JSON(http.StatusOK, gin.H{
			"data_summary":       analysis.DataSummary,
			"frequency_analysis": analysis.FrequencyAnalysis,
			"gap_analysis":       analysis.GapAnalysis,
			"exclusive_groups":   analysis.ExclusiveGroups,
		})
	case "detailed":
		response := gin.H{
			"data_summary":           analysis.DataSummary,
			"frequency_analysis":     analysis.FrequencyAnalysis,
			"gap_analysis":           analysis.GapAnalysis,
			"exclusive_groups":       analysis.ExclusiveGroups,
			"sequential_patterns":    analysis.SequentialPatterns,
			"position_probabilities": analysis.PositionProbabilities,
		}
		if analysis.SumTrend != nil {
			response["sum_trend"] = analysis.SumTrend
		}
		c.JSON(http.StatusOK, response)
	default:
		c.JSON(http.StatusOK, analysis)
	}
}
