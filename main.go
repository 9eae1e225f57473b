package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"invo/cmd"
	"invo/internal/config"
	"invo/internal/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger with configuration
	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Execute CLI commands
	cmd.Execute(cfg)

	os.Exit(0)
}
