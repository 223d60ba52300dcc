package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"branakids/navigation/internal/config"
	"branakids/navigation/internal/container"

	log "github.com/sirupsen/logrus"
)

func main() {
	log.Info("Starting Brana Kids navigation service...")

	// Load configuration using viper
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Info("Configuration loaded successfully")

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Invalid log level %q: %v", cfg.Log.Level, err)
	}
	log.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize container with all dependencies
	app, err := container.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		app.Close()
		log.Fatalf("Application exited with error: %v", err)
	}

	log.Info("Application finished successfully")
}
