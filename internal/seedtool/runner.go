package seedtool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xkazm04/nenet/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete seed and verification pass.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting nenet seed run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("items", config.NumItems),
		logger.Int("lists", config.NumLists),
		logger.Int("mutations", config.NumMutations),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate and create the catalog
	items := generateItems(ctx, config)
	itemsByCategory, err := submitItems(ctx, config, items, stats)
	if err != nil {
		return fmt.Errorf("item creation failed: %w", err)
	}

	// Step 3: Generate and create the lists
	lists, err := submitLists(ctx, config, generateLists(ctx, config), stats)
	if err != nil {
		return fmt.Errorf("list creation failed: %w", err)
	}

	// Step 4: Fill the lists
	if err := populateLists(ctx, config, lists, itemsByCategory, stats); err != nil {
		return fmt.Errorf("list population failed: %w", err)
	}

	// Step 5: Apply randomized mutations and votes
	users := userPool(config.NumLists * 5)
	if err := mutateLists(ctx, config, lists, users, stats); err != nil {
		return fmt.Errorf("mutation pass failed: %w", err)
	}

	// Step 6: Compact and snapshot every list
	if err := snapshotLists(ctx, config, lists, stats); err != nil {
		return fmt.Errorf("snapshot pass failed: %w", err)
	}

	// Step 7: Let the recompute pipeline settle
	logger.Get().Info(ctx, "waiting for statistics recomputes to settle")
	time.Sleep(RecomputeSettleDelay)

	// Step 8: Verify invariants through the API
	if err := verifyResults(ctx, config, lists, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 9: Save the run summary
	if err := saveRunSummary(ctx, config, stats); err != nil {
		logger.Get().Warn(ctx, "failed to save run summary", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	if stats.VerificationErrors > 0 {
		return fmt.Errorf("seed run found %d verification errors", stats.VerificationErrors)
	}

	logger.Get().Info(ctx, "seed run completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveRunSummary writes the run statistics to a JSON file.
func saveRunSummary(ctx context.Context, config *Config, stats *Stats) error {
	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "seed_summary_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	summary := map[string]interface{}{
		"base_url":            config.BaseURL,
		"items_created":       stats.ItemsCreated,
		"lists_created":       stats.ListsCreated,
		"members_added":       stats.MembersAdded,
		"members_rejected":    stats.MembersRejected,
		"rank_moves":          stats.RankMoves,
		"members_removed":     stats.MembersRemoved,
		"votes_cast":          stats.VotesCast,
		"mutations_failed":    stats.MutationsFailed,
		"lists_compacted":     stats.ListsCompacted,
		"snapshots_created":   stats.SnapshotsCreated,
		"lists_verified":      stats.ListsVerified,
		"verification_errors": stats.VerificationErrors,
		"started_at":          stats.StartTime.UTC().Format(time.RFC3339),
	}

	jsonData, err := marshalJSON(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	if err := os.WriteFile(filename, append(jsonData, '\n'), logFilePermission); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	logger.Get().Info(ctx, "run summary saved", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var verifiedRate, mutationsPerSecond float64

	totalLists := stats.ListsVerified + stats.VerificationErrors
	if totalLists > 0 {
		verifiedRate = float64(stats.ListsVerified) / float64(totalLists) * PercentageMultiplier
	}

	totalMutations := stats.RankMoves + stats.MembersRemoved + stats.VotesCast
	if stats.Duration > 0 {
		mutationsPerSecond = float64(totalMutations) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("itemsCreated", stats.ItemsCreated),
		logger.Int("listsCreated", stats.ListsCreated),
		logger.Int("membersAdded", stats.MembersAdded),
		logger.Int("membersRejected", stats.MembersRejected),
		logger.Int("rankMoves", stats.RankMoves),
		logger.Int("membersRemoved", stats.MembersRemoved),
		logger.Int("votesCast", stats.VotesCast),
		logger.Int("mutationsFailed", stats.MutationsFailed),
		logger.Int("listsCompacted", stats.ListsCompacted),
		logger.Int("snapshotsCreated", stats.SnapshotsCreated),
		logger.Int("listsVerified", stats.ListsVerified),
		logger.Int("verificationErrors", stats.VerificationErrors),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("verifiedRate", verifiedRate),
		logger.Float64("mutationsPerSecond", mutationsPerSecond))
}
