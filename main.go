// @title ExamDrill API
// @version 1.0
// @description Self-hosted exam study server with spaced-repetition review scheduling.

// @host localhost:8080
// @BasePath /api

package main

import (
	"flag"
	"log"

	"examdrill_backend/internal/app"
	"examdrill_backend/internal/config"
	"examdrill_backend/pkg/logger"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run database migration and exit")
	migrate := flag.Bool("migrate", false, "force database migration on startup")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *migrateOnly {
		log.Println("Database migration completed, exiting")
		return
	}

	application.Run()
}
