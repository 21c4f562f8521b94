package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"water-route-service/internal/adapters/repositories"
	"water-route-service/internal/adapters/repositories/postgres"
	"water-route-service/internal/config"
	"water-route-service/internal/platform/db"
)

// dbtool creates the schema and loads the seed file into Postgres.
func main() {
	if !config.LoadDotEnv() {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	sqlDB, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	gdb, err := db.OpenGorm(sqlDB)
	if err != nil {
		log.Fatal(err)
	}

	logger.Info("initializing database schema")
	if err := postgres.Migrate(ctx, gdb); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	logger.Info("schema ready")

	logger.Info("seeding database", slog.String("path", cfg.SeedPath))
	if err := repositories.SeedFromJSON(ctx, postgres.NewRepository(gdb), cfg.SeedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	logger.Info("seeding complete")
}
