package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/xkazm04/nenet/internal/seedtool"
)

// Default configuration constants.
const (
	defaultNumItems     = 200
	defaultNumLists     = 20
	defaultNumMutations = 500
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultTimeout      = 30 * time.Second
	defaultRunTimeout   = 10 * time.Minute
)

func main() {
	var (
		baseURL      = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numItems     = flag.Int("items", defaultNumItems, "Number of catalog items to create")
		numLists     = flag.Int("lists", defaultNumLists, "Number of ranked lists to create")
		numMutations = flag.Int("mutations", defaultNumMutations, "Number of randomized rank mutations to apply")
		workers      = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout      = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile   = flag.String("output", "", "Output file for the run summary (default: seed_summary_TIMESTAMP.json)")
		logFile      = flag.String("log", "", "Log file for run output (default: seed_log_TIMESTAMP.log)")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seedtool.ShowHelp()
		return
	}

	// Setup logging
	if err := seedtool.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	// Create run configuration
	config := &seedtool.Config{
		BaseURL:      *baseURL,
		NumItems:     *numItems,
		NumLists:     *numLists,
		NumMutations: *numMutations,
		Workers:      *workers,
		Timeout:      *timeout,
		OutputFile:   *outputFile,
		LogFile:      *logFile,
		Verbose:      *verbose,
	}

	// Run the seed pass
	if err := seedtool.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Seed run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
