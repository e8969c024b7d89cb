package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/drawlytics/powerball-edge/internal/models"
)

// Syncer triggers drawing ingestion runs.
type Syncer interface {
	SyncDrawings(ctx context.Context) (*models.IngestResult, error)
	SyncNewDrawings(ctx context.Context) (*models.IngestResult, error)
}

// AdminHandler exposes operator-only maintenance endpoints.
type AdminHandler struct {
	collector Syncer
	logger    *logrus.Logger
}

type SyncRequest struct {
	// Mode selects "incremental" (default, only drawings newer than the
	// stored latest) or "full" (re-fetch the configured initial window).
	Mode string `json:"mode"`
}

func NewAdminHandler(collector Syncer, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		collector: collector,
		logger:    logger,
	}
}

// TriggerSync runs an ingestion pass and returns the provenance-tagged
// result, so operators can see whether the feed answered or the synthetic
// fallback kicked in.
func (h *AdminHandler) TriggerSync(c *gin.Context) {
	var req SyncRequest
	// Body is optional; an empty body means incremental.
	_ = c.ShouldBindJSON(&req)

	if req.Mode != "" && req.Mode != "incremental" && req.Mode != "full" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be incremental or full"})
		return
	}

	var (
		result *models.IngestResult
		err    error
	)
	if req.Mode == "full" {
		result, err = h.collector.SyncDrawings(c.Request.Context())
	} else {
		result, err = h.collector.SyncNewDrawings(c.Request.Context())
	}
	if err != nil {
		h.logger.WithError(err).Error("Manual sync failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sync failed"})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"source":   result.Source,
		"inserted": result.Inserted,
	}).Info("Manual sync completed")

	c.JSON(http.StatusOK, gin.H{
		"message": "sync completed",
		"result":  result,
	})
}
