package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	DBPath         string
	DecisionsDir   string
	AutosavePath   string
	APIPort        string
	LogLevel       slog.Level
	LogFormat      string
	WatchDecisions bool
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root (where go.mod is)
	_ = godotenv.Load() // Try current directory

	// Try to find project root by looking for a .env file
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		DBPath:       getEnv("DB_PATH", "./data/lexlabel.db"),
		DecisionsDir: getEnv("DECISIONS_DIR", ""),
		AutosavePath: getEnv("AUTOSAVE_PATH", "./data/annotations_autosave.csv"),
		APIPort:      getEnv("API_PORT", "8090"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	watch, err := strconv.ParseBool(getEnv("WATCH_DECISIONS", "true"))
	if err != nil {
		return nil, fmt.Errorf("WATCH_DECISIONS must be a boolean: %w", err)
	}
	cfg.WatchDecisions = watch

	// Validate required fields
	if cfg.DecisionsDir == "" {
		return nil, fmt.Errorf("DECISIONS_DIR is required")
	}

	// Create ./data directory if it doesn't exist (for DB and autosave files)
	for _, p := range []string{cfg.DBPath, cfg.AutosavePath} {
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return cfg, nil
}

// parseLogLevel maps a level name to its slog level.
func parseLogLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error: got %q", name)
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
