package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/drawlytics/powerball-edge/internal/models"
)

// DrawProvider is the slice of the draw repository the read handlers need.
type DrawProvider interface {
	Snapshot(ctx context.Context, limit int) ([]models.Drawing, error)
	Summary(ctx context.Context) (models.DrawSummary, error)
}

// SyncInfoProvider reports ingestion metadata for the status endpoint.
type SyncInfoProvider interface {
	LastSyncTime(ctx context.Context) (*time.Time, error)
}

// DrawingsHandler serves the stored drawing history and the status summary.
type DrawingsHandler struct {
	repo     DrawProvider
	syncInfo SyncInfoProvider
	logger   *logrus.Logger
}

type DrawingsResponse struct {
	Drawings []models.Drawing `json:"drawings"`
	Count    int              `json:"count"`
}

type StatusResponse struct {
	Status        string            `json:"status"`
	TotalDrawings int               `json:"total_drawings"`
	DateRange     map[string]string `json:"date_range"`
	DataQuality   float64           `json:"data_quality"`
	LastSync      *time.Time        `json:"last_sync,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
}

func NewDrawingsHandler(repo DrawProvider, syncInfo SyncInfoProvider, logger *logrus.Logger) *DrawingsHandler {
	return &DrawingsHandler{
		repo:     repo,
		syncInfo: syncInfo,
		logger:   logger,
	}
}

// GetDrawings returns the most recent stored drawings, newest first.
func (h *DrawingsHandler) GetDrawings(c *gin.Context) {
	limitParam := c.DefaultQuery("limit", "10")
	limit, err := strconv.Atoi(limitParam)
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
		return
	}

	drawings, err := h.repo.Snapshot(c.Request.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load drawings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load drawings"})
		return
	}

	c.JSON(http.StatusOK, DrawingsResponse{
		Drawings: drawings,
		Count:    len(drawings),
	})
}

// GetStatus returns the data summary with a coarse quality score. The
// quality ratio saturates at 200 drawings.
func (h *DrawingsHandler) GetStatus(c *gin.Context) {
	summary, err := h.repo.Summary(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load draw summary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load draw summary"})
		return
	}

	quality := float64(summary.TotalDrawings) / 200.0
	if quality > 1 {
		quality = 1
	}

	response := StatusResponse{
		Status:        "ok",
		TotalDrawings: summary.TotalDrawings,
		DateRange:     summary.DateRange(),
		DataQuality:   quality,
		Timestamp:     time.Now(),
	}

	if h.syncInfo != nil {
		if lastSync, err := h.syncInfo.LastSyncTime(c.Request.Context()); err == nil {
			response.LastSync = lastSync
		}
	}

	c.JSON(http.StatusOK, response)
}
