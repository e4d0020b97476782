// migrate applies migrations/*.sql to DATABASE_URL, recording each file in
// schema_migrations.
//
// Usage: go run ./cmd/migrate [-dir migrations]
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"erp-sync/internal/db"
	"erp-sync/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	dir := flag.String("dir", "migrations", "directory holding NNN_description.sql files")
	flag.Parse()

	_ = godotenv.Load()
	if err := logger.Setup(logger.DefaultConfig()); err != nil {
		log.Fatalf("logger: %v", err)
	}
	logMain := logger.WithComponent("migrate")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := db.NewPool(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		logMain.Fatal().Err(err).Msg("connect")
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, *dir, logMain); err != nil {
		logMain.Error().Err(err).Msg("migration failed")
		pool.Close()
		os.Exit(1)
	}
	logMain.Info().Msg("all migrations processed")
}
