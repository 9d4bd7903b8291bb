package seedtool

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/xkazm04/nenet/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "seed_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the seed tool.
func ShowHelp() {
	os.Stdout.WriteString(`Nenet Seed Tool
===============

A concurrent tool for seeding and exercising the nenet ranked list engine.
It creates items and lists, applies randomized rank mutations and votes,
snapshots every list, and verifies the ranking invariants through the API.

Usage:
  go run cmd/seed/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -items int
        Number of catalog items to create (default 200)
  -lists int
        Number of ranked lists to create (default 20)
  -mutations int
        Number of randomized rank mutations to apply (default 500)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for the run summary (default: seed_summary_TIMESTAMP.json)
  -log string
        Log file for run output (default: seed_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Seed with default settings
  go run cmd/seed/main.go

  # Seed a bigger catalog with more churn
  go run cmd/seed/main.go -items 1000 -lists 50 -mutations 5000

  # Seed against a different instance with verbose output
  go run cmd/seed/main.go -url http://localhost:8080 -verbose
`)
}
