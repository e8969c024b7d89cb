package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/drawlytics/powerball-edge/internal/config"
	"github.com/drawlytics/powerball-edge/internal/database"
	"github.com/drawlytics/powerball-edge/internal/models"
	"github.com/drawlytics/powerball-edge/pkg/lottofeed"
)

// Redis keys for ingestion-side metadata. Analysis never reads these;
// caching stops at the feed boundary.
const (
	cacheKeyLastSync   = "lottofeed:last_sync"
	cacheKeyLastResult = "lottofeed:last_result"
)

// FeedClient is the upstream feed surface the collector depends on.
type FeedClient interface {
	FetchRecentDrawings(ctx context.Context, limit int) (*lottofeed.FetchResult, error)
	FetchDrawingsSince(ctx context.Context, since time.Time) (*lottofeed.FetchResult, error)
}

// DrawStore is the repository surface the collector depends on.
type DrawStore interface {
	InsertDrawings(ctx context.Context, drawings []models.Drawing) (int, error)
	Summary(ctx context.Context) (models.DrawSummary, error)
	LatestDrawDate(ctx context.Context) (*time.Time, error)
}

// CollectorService ingests drawings from the upstream feed into the store,
// falling back to the deterministic synthetic generator when the feed is
// unreachable.
type CollectorService struct {
	feed       FeedClient
	store      DrawStore
	redis      *database.RedisClient
	feedConfig config.FeedConfig
	logger     *logrus.Logger

	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	mu         sync.Mutex
	errorCount int
	running    bool
}

// NewCollectorService creates a collector. The redis client is optional;
// passing nil disables sync metadata caching.
func NewCollectorService(feed FeedClient, store DrawStore, redis *database.RedisClient, feedConfig config.FeedConfig, logger *logrus.Logger) *CollectorService {
	return &CollectorService{
		feed:       feed,
		store:      store,
		redis:      redis,
		feedConfig: feedConfig,
		logger:     logger,
	}
}

// SyncDrawings performs a full ingestion run: fetch up to the initial load
// limit from the feed, or generate synthetic history when the feed fails.
// The returned result carries the provenance tag so callers can tell live
// data from the fallback.
func (c *CollectorService) SyncDrawings(ctx context.Context) (*models.IngestResult, error) {
	result, err := c.feed.FetchRecentDrawings(ctx, c.feedConfig.InitialLoadLimit)
	if err != nil {
		c.logger.WithError(err).Warn("Feed fetch failed, generating synthetic drawings")
		return c.ingestSynthetic(ctx)
	}
	if result.Skipped > 0 {
		c.logger.WithField("skipped", result.Skipped).Warn("Skipped malformed feed rows")
	}
	return c.ingest(ctx, feedToDrawings(result.Drawings), models.DrawSourceLive)
}

// SyncNewDrawings performs an incremental run: only drawings newer than the
// latest stored draw date. An empty store triggers a full initial load.
func (c *CollectorService) SyncNewDrawings(ctx context.Context) (*models.IngestResult, error) {
	latest, err := c.store.LatestDrawDate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to determine latest draw date: %w", err)
	}
	if latest == nil {
		c.logger.Info("No existing drawings, performing initial load")
		return c.SyncDrawings(ctx)
	}

	result, err := c.feed.FetchDrawingsSince(ctx, *latest)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch new drawings: %w", err)
	}
	return c.ingest(ctx, feedToDrawings(result.Drawings), models.DrawSourceLive)
}

func (c *CollectorService) ingestSynthetic(ctx context.Context) (*models.IngestResult, error) {
	drawings := NewSyntheticGenerator().Generate(c.feedConfig.InitialLoadLimit)
	return c.ingest(ctx, drawings, models.DrawSourceSynthetic)
}

func (c *CollectorService) ingest(ctx context.Context, drawings []models.Drawing, source models.DrawSource) (*models.IngestResult, error) {
	inserted, err := c.store.InsertDrawings(ctx, drawings)
	if err != nil {
		return nil, fmt.Errorf("failed to store drawings: %w", err)
	}

	summary, err := c.store.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read store summary: %w", err)
	}

	result := &models.IngestResult{
		Source:        source,
		Fetched:       len(drawings),
		Inserted:      inserted,
		TotalDrawings: summary.TotalDrawings,
	}

	c.logger.WithFields(logrus.Fields{
		"source":   result.Source,
		"fetched":  result.Fetched,
		"inserted": result.Inserted,
		"total":    result.TotalDrawings,
	}).Info("Ingestion run completed")

	c.cacheResult(ctx, result)
	return result, nil
}

// cacheResult records last-sync metadata in redis. Redis being down never
// fails an ingestion run.
func (c *CollectorService) cacheResult(ctx context.Context, result *models.IngestResult) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Set(ctx, cacheKeyLastSync, time.Now().UTC().Format(time.RFC3339), c.feedConfig.CacheTTL); err != nil {
		c.logger.WithError(err).Warn("Failed to cache last sync time")
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, cacheKeyLastResult, string(payload), c.feedConfig.CacheTTL); err != nil {
		c.logger.WithError(err).Warn("Failed to cache last sync result")
	}
}

// LastSyncTime reads the cached last-sync timestamp, if redis holds one.
func (c *CollectorService) LastSyncTime(ctx context.Context) (*time.Time, error) {
	if c.redis == nil {
		return nil, nil
	}
	raw, err := c.redis.Get(ctx, cacheKeyLastSync)
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cached sync time: %w", err)
	}
	return &ts, nil
}

// Start launches the periodic background sync worker. A stopped collector
// can be started again.
func (c *CollectorService) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return fmt.Errorf("collector already running")
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.errorCount = 0
	c.running = true

	c.wg.Add(1)
	go c.runWorker()

	c.logger.WithField("interval", c.feedConfig.SyncInterval).Info("Started drawing collector worker")
	return nil
}

// Stop gracefully stops the background worker. Stopping a collector that is
// not running is a no-op.
func (c *CollectorService) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	cancel := c.cancel
	c.mu.Unlock()

	cancel()
	c.wg.Wait()

	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
	c.logger.Info("Drawing collector stopped")
}

// runWorker runs the periodic sync loop until the context is cancelled or
// the error budget is exhausted.
func (c *CollectorService) runWorker() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.feedConfig.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			c.logger.Info("Collector worker stopping due to context cancellation")
			return
		case <-ticker.C:
			if _, err := c.SyncNewDrawings(c.ctx); err != nil {
				c.errorCount++
				c.logger.WithError(err).WithField("error_count", c.errorCount).Error("Periodic sync failed")
				if c.errorCount >= c.feedConfig.MaxErrors {
					c.logger.WithField("max_errors", c.feedConfig.MaxErrors).Error("Collector exceeded max errors, stopping")
					return
				}
			} else {
				c.errorCount = 0
			}
		}
	}
}

// feedToDrawings converts parsed feed rows into store drawings tagged live.
func feedToDrawings(rows []lottofeed.Drawing) []models.Drawing {
	drawings := make([]models.Drawing, 0, len(rows))
	for _, row := range rows {
		drawing := models.Drawing{
			DrawDate:   row.DrawDate,
			WhiteBalls: row.WhiteBalls,
			PowerBall:  row.PowerBall,
			Source:     models.DrawSourceLive,
		}
		sort.Ints(drawing.WhiteBalls[:])
		drawings = append(drawings, drawing)
	}
	return drawings
}
