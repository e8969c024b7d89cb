package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/drawlytics/powerball-edge/internal/models"
)

// DatabasePool defines the interface for database pool operations.
// This interface allows for both real pool and mock pool implementations.
type DatabasePool interface {
	// QueryRow executes a query that is expected to return at most one row.
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	// Exec executes a query without returning any rows.
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	// Query executes a query that returns rows.
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// DrawRepository handles database operations for historical drawings.
type DrawRepository struct {
	pool DatabasePool
}

// NewDrawRepository creates a new draw repository.
//
// Parameters:
//
//	pool: The database connection pool.
//
// Returns:
//
//	*DrawRepository: The initialized repository.
func NewDrawRepository(pool DatabasePool) *DrawRepository {
	return &DrawRepository{
		pool: pool,
	}
}

// EnsureSchema creates the drawings table if it does not exist yet.
func (r *DrawRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS drawings (
			id BIGSERIAL PRIMARY KEY,
			draw_date DATE NOT NULL UNIQUE,
			ball1 INTEGER NOT NULL,
			ball2 INTEGER NOT NULL,
			ball3 INTEGER NOT NULL,
			ball4 INTEGER NOT NULL,
			ball5 INTEGER NOT NULL,
			powerball INTEGER NOT NULL,
			multiplier INTEGER,
			jackpot_amount NUMERIC,
			source TEXT NOT NULL DEFAULT 'live',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create drawings table: %w", err)
	}
	return nil
}

// InsertDrawings stores drawings, skipping any draw_date already present.
// Returns the number of rows actually inserted, so repeated ingestion of the
// same history is a no-op.
func (r *DrawRepository) InsertDrawings(ctx context.Context, drawings []models.Drawing) (int, error) {
	inserted := 0
	for _, drawing := range drawings {
		if err := drawing.Validate(); err != nil {
			return inserted, fmt.Errorf("invalid drawing for %s: %w", drawing.DrawDate.Format("2006-01-02"), err)
		}

		tag, err := r.pool.Exec(ctx, `
			INSERT INTO drawings (draw_date, ball1, ball2, ball3, ball4, ball5, powerball, multiplier, jackpot_amount, source)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (draw_date) DO NOTHING`,
			drawing.DrawDate, drawing.WhiteBalls[0], drawing.WhiteBalls[1], drawing.WhiteBalls[2],
			drawing.WhiteBalls[3], drawing.WhiteBalls[4], drawing.PowerBall,
			drawing.Multiplier, drawing.JackpotAmount, drawing.Source)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert drawing for %s: %w", drawing.DrawDate.Format("2006-01-02"), err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// Snapshot returns stored drawings ordered most recent first. A limit of 0
// returns the full history.
func (r *DrawRepository) Snapshot(ctx context.Context, limit int) ([]models.Drawing, error) {
	query := `
		SELECT id, draw_date, ball1, ball2, ball3, ball4, ball5, powerball, multiplier, jackpot_amount, source, created_at
		FROM drawings
		ORDER BY draw_date DESC`
	var (
		rows pgx.Rows
		err  error
	)
	if limit > 0 {
		rows, err = r.pool.Query(ctx, query+" LIMIT $1", limit)
	} else {
		rows, err = r.pool.Query(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query drawings: %w", err)
	}
	defer rows.Close()

	var drawings []models.Drawing
	for rows.Next() {
		var d models.Drawing
		if err := rows.Scan(&d.ID, &d.DrawDate,
			&d.WhiteBalls[0], &d.WhiteBalls[1], &d.WhiteBalls[2], &d.WhiteBalls[3], &d.WhiteBalls[4],
			&d.PowerBall, &d.Multiplier, &d.JackpotAmount, &d.Source, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan drawing: %w", err)
		}
		drawings = append(drawings, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read drawings: %w", err)
	}
	return drawings, nil
}

// Summary returns the total row count and the stored date range.
func (r *DrawRepository) Summary(ctx context.Context) (models.DrawSummary, error) {
	var summary models.DrawSummary
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*), MIN(draw_date), MAX(draw_date) FROM drawings").
		Scan(&summary.TotalDrawings, &summary.EarliestDate, &summary.LatestDate)
	if err != nil {
		return models.DrawSummary{}, fmt.Errorf("failed to query draw summary: %w", err)
	}
	return summary, nil
}

// LatestDrawDate returns the most recent stored draw date, or nil when the
// store is empty.
func (r *DrawRepository) LatestDrawDate(ctx context.Context) (*time.Time, error) {
	var latest *time.Time
	err := r.pool.QueryRow(ctx, "SELECT MAX(draw_date) FROM drawings").Scan(&latest)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest draw date: %w", err)
	}
	return latest, nil
}
