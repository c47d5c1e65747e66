package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"lexlabel/internal/config"
	"lexlabel/internal/decisions"
	"lexlabel/internal/http"
	"lexlabel/internal/review"
	"lexlabel/internal/storage"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Create repository instances
	batchRepo := storage.NewBatchRepo(db)
	recordRepo := storage.NewRecordRepo(db)

	// Index the decision corpus
	index, err := decisions.NewIndex(cfg.DecisionsDir)
	if err != nil {
		log.Fatalf("Failed to index decisions directory: %v", err)
	}
	slog.Info("Decision corpus indexed", "dir", cfg.DecisionsDir, "decisions", index.Len())

	ctx := context.Background()
	if cfg.WatchDecisions {
		if err := index.Watch(ctx); err != nil {
			log.Fatalf("Failed to watch decisions directory: %v", err)
		}
		slog.Info("Watching decisions directory for changes")
	}

	// Create review service
	reviewService := review.NewService(batchRepo, recordRepo, cfg.AutosavePath)

	// Create router with dependencies
	deps := &http.Deps{
		Review:    reviewService,
		Decisions: index,
		DB:        db,
	}
	router, err := http.NewRouter(deps)
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
