package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/trafficlab/speeds-backend-go/internal/api"
	"github.com/trafficlab/speeds-backend-go/internal/config"
	"github.com/trafficlab/speeds-backend-go/internal/database"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	migrations := database.NewMigrationManager(db, cfg.MigrationsPath)
	if err := migrations.RunMigrations(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	svc := api.NewServices(db, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Materialize once at startup so the latest view serves data
	// immediately; afterwards the view only moves on refresh.
	if err := svc.Latest.Refresh(ctx); err != nil {
		log.Printf("Startup refresh failed: %v", err)
	}

	if cfg.RefreshInterval > 0 {
		log.Printf("Periodic refresh enabled every %v", cfg.RefreshInterval)
		go svc.Latest.RunPeriodic(ctx, cfg.RefreshInterval)
	} else {
		log.Println("Periodic refresh disabled; refresh via POST /api/v1/latest/refresh")
	}

	router := api.SetupRouter(cfg, svc)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
