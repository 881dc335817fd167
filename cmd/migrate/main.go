package main

import (
	"context"
	"flag"
	"log"

	"github.com/ruixianxue/trading-simulator/pkg/config"
	"github.com/ruixianxue/trading-simulator/pkg/migration"
	"github.com/ruixianxue/trading-simulator/pkg/postgresql"
)

func main() {
	var (
		direction = flag.String("direction", "up", "Migration direction: up or down")
		steps     = flag.Int("steps", 0, "Number of steps to migrate (0 = all)")
		dir       = flag.String("dir", "internal/infrastructure/postgresql/migrations", "Migration directory")
	)
	flag.Parse()

	ctx := context.Background()

	cfg := &config.Config{}
	if err := config.Load(cfg); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgresql.NewClient(ctx, cfg.PostgreSQL)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()

	runner := migration.NewRunner(pgClient, migration.Config{
		MigrationDir: *dir,
	})

	if err := runner.EnsureMigrationTable(ctx); err != nil {
		log.Fatalf("Failed to create migration table: %v", err)
	}

	switch *direction {
	case "up":
		if err := runner.MigrateUp(ctx, *steps); err != nil {
			log.Fatalf("Failed to migrate up: %v", err)
		}
	case "down":
		if err := runner.MigrateDown(ctx, *steps); err != nil {
			log.Fatalf("Failed to migrate down: %v", err)
		}
	default:
		log.Fatalf("Invalid direction: %s. Use 'up' or 'down'", *direction)
	}

	log.Printf("Migration %s completed successfully", *direction)
}
