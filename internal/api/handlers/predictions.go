package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/drawlytics/powerball-edge/internal/models"
	"github.com/drawlytics/powerball-edge/internal/services"
)

// PredictionsHandler generates prediction batches on demand.
type PredictionsHandler struct {
	repo      DrawProvider
	predictor *services.Predictor
	notifier  *services.NotifierService
	logger    *logrus.Logger
}

func NewPredictionsHandler(repo DrawProvider, predictor *services.Predictor, notifier *services.NotifierService, logger *logrus.Logger) *PredictionsHandler {
	return &PredictionsHandler{
		repo:      repo,
		predictor: predictor,
		notifier:  notifier,
		logger:    logger,
	}
}

// GeneratePredictions produces a fresh batch of tickets from the current
// snapshot. Unknown strategies fall back to balanced rather than erroring.
func (h *PredictionsHandler) GeneratePredictions(c *gin.Context) {
	var req models.PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	strategy := models.StrategyBalanced
	if req.Strategy != "" {
		var known bool
		strategy, known = models.ParseStrategy(req.Strategy)
		if !known {
			h.logger.WithField("strategy", req.Strategy).Warn("Unknown strategy requested, using balanced")
		}
	}

	snapshot, err := h.repo.Snapshot(c.Request.Context(), 0)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load drawings for predictions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load drawings"})
		return
	}

	response, err := h.predictor.GeneratePredictions(snapshot, req.Tickets, strategy)
	if err != nil {
		if errors.Is(err, services.ErrNoData) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no data available"})
			return
		}
		h.logger.WithError(err).Error("Prediction generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "prediction generation failed"})
		return
	}

	if h.notifier != nil && h.notifier.Enabled() {
		go func(batch *models.PredictionResponse) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := h.notifier.SendPredictionDigest(ctx, batch); err != nil {
				h.logger.WithError(err).Warn("Failed to send prediction digest")
			}
		}(response)
	}

	c.JSON(http.StatusOK, response)
}
