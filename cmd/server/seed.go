package main

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/drawlytics/powerball-edge/internal/config"
	"github.com/drawlytics/powerball-edge/internal/database"
	"github.com/drawlytics/powerball-edge/internal/services"
)

const defaultSeedCount = 200

// runSeed provisions the schema and inserts a deterministic synthetic
// history for local development: `server seed [count]`.
func runSeed(args []string) {
	count, err := parseSeedCount(args)
	if err != nil {
		log.Fatalf("Invalid seed arguments: %v", err)
	}

	if err := seedDrawings(count); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}

func parseSeedCount(args []string) (int, error) {
	if len(args) == 0 {
		return defaultSeedCount, nil
	}
	parsed, err := strconv.Atoi(args[0])
	if err != nil || parsed < 1 {
		return 0, fmt.Errorf("seed count must be a positive integer, got %q", args[0])
	}
	return parsed, nil
}

func seedDrawings(count int) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to db: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	repo := database.NewDrawRepository(db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to provision schema: %w", err)
	}

	drawings := services.NewSyntheticGenerator().Generate(count)
	inserted, err := repo.InsertDrawings(ctx, drawings)
	if err != nil {
		return fmt.Errorf("failed to insert drawings: %w", err)
	}

	summary, err := repo.Summary(ctx)
	if err != nil {
		return fmt.Errorf("failed to read summary: %w", err)
	}

	fmt.Printf("Seeded %d synthetic drawings (%d new), store now holds %d\n",
		count, inserted, summary.TotalDrawings)
	return nil
}
