// Package cli provides common initialization utilities shared by the
// binaries under cmd/.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"exptrk/internal/config"
	"exptrk/internal/log"
	"exptrk/internal/storage"
)

// SetupLogger initializes structured logging with default settings and
// installs it as the process default.
func SetupLogger(component string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Component = component
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenRepository opens the SQLite repository at the given path, running
// migrations first. Exits the process on failure.
func OpenRepository(logger *log.Logger, dbPath string) *storage.Repository {
	repo, err := storage.Open(dbPath)
	if err != nil {
		logger.Error("Failed to open repository", log.FieldError, err, "path", dbPath)
		os.Exit(1)
	}
	return repo
}
