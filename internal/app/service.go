// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	jobqueue "github.com/xkazm04/nenet/internal/adapters/mq/queue"
	workerpool "github.com/xkazm04/nenet/internal/adapters/mq/worker"
	repository "github.com/xkazm04/nenet/internal/adapters/repository"
	"github.com/xkazm04/nenet/internal/domain/coalesce"
	"github.com/xkazm04/nenet/internal/domain/model"
	"github.com/xkazm04/nenet/internal/domain/stats"
	"github.com/xkazm04/nenet/internal/domain/trend"
	"github.com/xkazm04/nenet/internal/validation"
	"github.com/xkazm04/nenet/pkg/logger"
	"github.com/xkazm04/nenet/pkg/metrics"
)

// Default service configuration.
const (
	defaultQueueCapacity     = 10000
	defaultCoalescerSize     = 50000
	defaultTrendingWindow    = 7 * 24 * time.Hour
	defaultTrendingInterval  = 5 * time.Minute
	defaultTrendingFeedLimit = 50
	defaultShutdownTimeout   = 30 * time.Second
)

// ErrInvalidYearRange rejects items whose era bounds are reversed.
var ErrInvalidYearRange = validation.ErrYearRange

// Service implements the API dependencies for the ranked list engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	coalescer  coalesce.Coalescer
	jobQueue   jobqueue.Queue
	workerPool *workerpool.Pool

	// Trending cache, replaced wholesale on every refresh.
	trendingFeed atomic.Pointer[model.TrendingFeed]

	// Configuration
	dbPath            string
	workerCount       int
	queueCapacity     int
	coalescerSize     int
	trendingWindow    time.Duration
	trendingInterval  time.Duration
	trendingFeedLimit int

	// State
	started       bool
	stopCh        chan struct{}
	refresherDone chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDBPath sets the SQLite database file path.
func WithDBPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dbPath = path
		}
	}
}

// WithWorkerCount sets the number of recompute worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueCapacity sets the maximum size of the recompute queue.
func WithQueueCapacity(capacity int) Option {
	return func(s *Service) {
		if capacity > 0 {
			s.queueCapacity = capacity
		}
	}
}

// WithCoalescerSize sets the size of the pending-recompute set.
func WithCoalescerSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.coalescerSize = size
		}
	}
}

// WithTrendingWindow sets the recent-vote window for trending.
func WithTrendingWindow(window time.Duration) Option {
	return func(s *Service) {
		if window > 0 {
			s.trendingWindow = window
		}
	}
}

// WithTrendingInterval sets the background refresh cadence.
func WithTrendingInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.trendingInterval = interval
		}
	}
}

// WithTrendingFeedLimit caps the number of entries kept per refresh.
func WithTrendingFeedLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.trendingFeedLimit = limit
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dbPath:            "nenet.db",
		workerCount:       runtime.NumCPU() * 2,
		queueCapacity:     defaultQueueCapacity,
		coalescerSize:     defaultCoalescerSize,
		trendingWindow:    defaultTrendingWindow,
		trendingInterval:  defaultTrendingInterval,
		trendingFeedLimit: defaultTrendingFeedLimit,
		stopCh:            make(chan struct{}),
		refresherDone:     make(chan struct{}),
		logger:            nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting ranked list service...")

	store, err := repository.New(s.dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	s.store = store

	s.coalescer = coalesce.NewInMemoryCoalescer(
		coalesce.WithMaxSize(s.coalescerSize),
	)
	s.jobQueue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueCapacity),
	)

	// Workers read ranks and write statistics through the same store the
	// mutations go through.
	s.workerPool = workerpool.NewPool(s.workerCount, s.jobQueue, s.store, s.store, s.coalescer)
	s.workerPool.Start(ctx)

	// Warm the trending cache so the first read never sees nil.
	if _, err := s.RefreshTrending(ctx, s.trendingWindow); err != nil {
		s.logger.Warn(ctx, "initial trending refresh failed", logger.Error(err))
	}
	go s.runTrendingRefresher(ctx)

	s.started = true
	s.logger.Info(ctx, "ranked list service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueCapacity", s.queueCapacity),
		logger.Int("coalescerSize", s.coalescerSize),
		logger.Duration("trendingInterval", s.trendingInterval),
	)

	return nil
}

// Stop gracefully shuts down the service. The recompute queue is closed
// and drained before the store closes.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping ranked list service...")

	// Signal the trending refresher to stop
	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}
	select {
	case <-s.refresherDone:
	case <-time.After(defaultShutdownTimeout):
		s.logger.Warn(ctx, "trending refresher shutdown timed out")
	}

	// Shut down the worker pool; this closes the queue and drains it
	if s.workerPool != nil {
		_ = s.workerPool.Shutdown(ctx)
	}

	// Close the store last so draining workers can still write
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error(ctx, "error closing store", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(ctx, "ranked list service stopped")
}

// CreateItem validates and stores a new catalog item.
func (s *Service) CreateItem(ctx context.Context, item *model.Item) error {
	if verrs := validation.Struct(item); verrs != nil {
		return fmt.Errorf("invalid item: %w", verrs)
	}
	if !item.YearRangeValid() {
		return ErrInvalidYearRange
	}
	return s.store.CreateItem(ctx, item)
}

// GetItem returns one catalog item.
func (s *Service) GetItem(ctx context.Context, id uuid.UUID) (model.Item, error) {
	return s.store.GetItem(ctx, id)
}

// ListItems returns catalog items filtered by category and subcategory.
func (s *Service) ListItems(ctx context.Context, category, subcategory string, limit int) ([]model.Item, error) {
	return s.store.ListItems(ctx, category, subcategory, limit)
}

// DeleteItem removes an item together with its memberships, votes,
// accolades and statistics. Ranks of other members are untouched, so no
// recomputes are scheduled.
func (s *Service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteItem(ctx, id)
}

// RecordView bumps an item's lifetime view counter.
func (s *Service) RecordView(ctx context.Context, id uuid.UUID) error {
	return s.store.IncrementViewCount(ctx, id)
}

// RecordSelection bumps an item's lifetime selection counter.
func (s *Service) RecordSelection(ctx context.Context, id uuid.UUID) error {
	return s.store.IncrementSelectionCount(ctx, id)
}

// AddAccolade validates and attaches an accolade to an item.
func (s *Service) AddAccolade(ctx context.Context, accolade *model.Accolade) error {
	if verrs := validation.Struct(accolade); verrs != nil {
		return fmt.Errorf("invalid accolade: %w", verrs)
	}
	return s.store.AddAccolade(ctx, accolade)
}

// ListAccolades returns an item's accolades, oldest first.
func (s *Service) ListAccolades(ctx context.Context, itemID uuid.UUID) ([]model.Accolade, error) {
	return s.store.ListAccolades(ctx, itemID)
}

// CreateList validates and stores a new ranked list.
func (s *Service) CreateList(ctx context.Context, list *model.List) error {
	if verrs := validation.Struct(list); verrs != nil {
		return fmt.Errorf("invalid list: %w", verrs)
	}
	return s.store.CreateList(ctx, list)
}

// GetList returns one list header.
func (s *Service) GetList(ctx context.Context, id uuid.UUID) (model.List, error) {
	return s.store.GetList(ctx, id)
}

// ListLists returns list headers filtered by category and owner.
func (s *Service) ListLists(ctx context.Context, category string, ownerID *uuid.UUID, limit int) ([]model.List, error) {
	return s.store.ListLists(ctx, category, ownerID, limit)
}

// DeleteList removes a list and everything hanging off it. Former
// members lose an appearance, so their statistics are recomputed.
func (s *Service) DeleteList(ctx context.Context, id uuid.UUID) error {
	members, err := s.store.ListMembers(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteList(ctx, id); err != nil {
		return err
	}
	for i := range members {
		s.scheduleRecompute(ctx, members[i].Item.ID)
	}
	return nil
}

// AddMember inserts an item into a list at the desired rank and
// schedules statistics recomputes for every member the insert shifted.
func (s *Service) AddMember(ctx context.Context, listID, itemID uuid.UUID, rank int) (model.Membership, error) {
	m, err := s.store.AddMember(ctx, listID, itemID, rank)
	if err != nil {
		return model.Membership{}, err
	}
	s.recomputeListFrom(ctx, listID, m.Rank)
	return m, nil
}

// UpdateRank moves a member to a new rank and schedules recomputes for
// the members whose positions changed.
func (s *Service) UpdateRank(ctx context.Context, listID, itemID uuid.UUID, newRank int) (model.Membership, error) {
	m, err := s.store.UpdateRank(ctx, listID, itemID, newRank)
	if err != nil {
		return model.Membership{}, err
	}
	s.recomputeListFrom(ctx, listID, m.Rank)
	return m, nil
}

// RemoveMember removes an item from a list. Remaining ranks are
// untouched, so only the removed item is recomputed.
func (s *Service) RemoveMember(ctx context.Context, listID, itemID uuid.UUID) error {
	if err := s.store.RemoveMember(ctx, listID, itemID); err != nil {
		return err
	}
	s.scheduleRecompute(ctx, itemID)
	return nil
}

// ListMembers returns a list's members in rank order.
func (s *Service) ListMembers(ctx context.Context, listID uuid.UUID) ([]model.Member, error) {
	return s.store.ListMembers(ctx, listID)
}

// CompactRanks renumbers a list to dense ranks and schedules recomputes
// for all members when anything moved.
func (s *Service) CompactRanks(ctx context.Context, listID uuid.UUID) (int, error) {
	changed, err := s.store.CompactRanks(ctx, listID)
	if err != nil {
		return 0, err
	}
	if changed > 0 {
		s.recomputeListFrom(ctx, listID, 1)
	}
	return changed, nil
}

// CreateSnapshot captures the list's current state as the next version.
func (s *Service) CreateSnapshot(ctx context.Context, listID uuid.UUID, authorID *uuid.UUID, description string) (model.ListVersion, error) {
	return s.store.CreateSnapshot(ctx, listID, authorID, description)
}

// GetVersion returns one stored snapshot including its payload.
func (s *Service) GetVersion(ctx context.Context, listID uuid.UUID, version int) (model.ListVersion, error) {
	return s.store.GetVersion(ctx, listID, version)
}

// ListVersions returns snapshot metadata, newest first.
func (s *Service) ListVersions(ctx context.Context, listID uuid.UUID) ([]model.ListVersion, error) {
	return s.store.ListVersions(ctx, listID)
}

// CastVote validates and stores a vote, replacing the user's previous
// vote on the same member.
func (s *Service) CastVote(ctx context.Context, vote *model.Vote) error {
	if verrs := validation.Struct(vote); verrs != nil {
		return fmt.Errorf("invalid vote: %w", verrs)
	}
	return s.store.CastVote(ctx, vote)
}

// RemoveVote deletes a user's vote.
func (s *Service) RemoveVote(ctx context.Context, userID, listID, itemID uuid.UUID) error {
	return s.store.RemoveVote(ctx, userID, listID, itemID)
}

// RecomputeStatistics synchronously rebuilds and stores the statistics
// row for one item from its current memberships.
func (s *Service) RecomputeStatistics(ctx context.Context, itemID uuid.UUID) (model.ItemStatistics, error) {
	start := time.Now()

	ranks, err := s.store.ItemRanks(ctx, itemID)
	if err != nil {
		return model.ItemStatistics{}, err
	}

	summary := stats.Summarize(ranks)
	row := model.ItemStatistics{
		ItemID:           itemID,
		TotalAppearances: summary.TotalAppearances,
		AverageRank:      summary.AverageRank,
		BestRank:         summary.BestRank,
		WorstRank:        summary.WorstRank,
		RankVariance:     summary.RankVariance,
		Top10Count:       summary.Top10Count,
		Top3Count:        summary.Top3Count,
		FirstPlaceCount:  summary.FirstPlaceCount,
		LastCalculated:   time.Now().UTC(),
	}
	if err := s.store.UpsertStatistics(ctx, &row); err != nil {
		return model.ItemStatistics{}, err
	}

	metrics.RecordStatsRecompute()
	metrics.RecordStatsRecomputeLatency(float64(time.Since(start).Milliseconds()))
	return row, nil
}

// GetStatistics returns the stored statistics row for an item. A row
// that was never computed is built on demand.
func (s *Service) GetStatistics(ctx context.Context, itemID uuid.UUID) (model.ItemStatistics, error) {
	row, err := s.store.GetStatistics(ctx, itemID)
	if errors.Is(err, repository.ErrStatisticsNotFound) {
		return s.RecomputeStatistics(ctx, itemID)
	}
	return row, err
}

// RefreshTrending rebuilds the trending feed from vote and membership
// aggregates and replaces the cached feed wholesale. A non-positive
// window falls back to the configured default.
func (s *Service) RefreshTrending(ctx context.Context, window time.Duration) (model.TrendingFeed, error) {
	start := time.Now()

	if window <= 0 {
		window = s.trendingWindow
	}

	items, err := s.store.TrendingAggregates(ctx, window)
	if err != nil {
		metrics.RecordErrorByComponent("trending", "refresh_error")
		return model.TrendingFeed{}, fmt.Errorf("trending aggregates: %w", err)
	}

	trend.Order(items)
	items = trend.Truncate(items, s.trendingFeedLimit)

	feed := model.TrendingFeed{
		Items:       items,
		Window:      window,
		GeneratedAt: time.Now().UTC(),
	}
	s.trendingFeed.Store(&feed)

	metrics.RecordTrendingRefresh()
	metrics.RecordTrendingRefreshDuration(float64(time.Since(start).Milliseconds()))
	metrics.UpdateTrendingFeedSize(len(items))
	metrics.UpdateTrendingLastRefreshUnix(feed.GeneratedAt.Unix())
	return feed, nil
}

// Trending returns the cached feed, truncated to limit entries. Reads
// never block a refresh.
func (s *Service) Trending(ctx context.Context, limit int) model.TrendingFeed {
	cached := s.trendingFeed.Load()
	if cached == nil {
		return model.TrendingFeed{Items: []model.TrendingItem{}}
	}
	feed := *cached
	feed.Items = trend.Truncate(cached.Items, limit)
	return feed
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	out := map[string]interface{}{
		"started":           s.started,
		"workerCount":       s.workerCount,
		"queueCapacity":     s.queueCapacity,
		"coalescerSize":     s.coalescerSize,
		"trendingWindow":    s.trendingWindow.String(),
		"trendingInterval":  s.trendingInterval.String(),
		"trendingFeedLimit": s.trendingFeedLimit,
	}

	if s.started {
		out["queueLength"] = s.jobQueue.Len(ctx)
		out["pendingRecomputes"] = s.coalescer.Size()

		if counts, err := s.store.Counts(ctx); err == nil {
			out["items"] = counts.Items
			out["lists"] = counts.Lists
			out["memberships"] = counts.Memberships
			out["votes"] = counts.Votes
			out["versions"] = counts.Versions

			// Update gauges while we have fresh totals
			metrics.UpdateTotalItems(counts.Items)
			metrics.UpdateTotalLists(counts.Lists)
		}

		if feed := s.trendingFeed.Load(); feed != nil {
			out["trendingGeneratedAt"] = feed.GeneratedAt
			out["trendingEntries"] = len(feed.Items)
		}
	}

	return out
}

// scheduleRecompute queues a statistics recompute for one item unless a
// job for it is already pending.
func (s *Service) scheduleRecompute(ctx context.Context, itemID uuid.UUID) {
	if s.coalescer.MarkPending(ctx, itemID) {
		metrics.RecordStatsCoalesced()
		return
	}

	job := jobqueue.Job{ItemID: itemID, EnqueuedAt: time.Now()}
	if !s.jobQueue.Enqueue(ctx, job) {
		// Let the next mutation try again; the row stays stale until then.
		s.coalescer.Release(ctx, itemID)
		s.logger.Warn(ctx, "recompute queue full, job dropped",
			logger.String("item_id", itemID.String()),
		)
	}
}

// recomputeListFrom schedules recomputes for every member of the list
// currently ranked at or below fromRank. Mutations shift only that
// range, so members above it kept their ranks.
func (s *Service) recomputeListFrom(ctx context.Context, listID uuid.UUID, fromRank int) {
	members, err := s.store.ListMembers(ctx, listID)
	if err != nil {
		s.logger.Error(ctx, "reading members for recompute failed",
			logger.String("list_id", listID.String()),
			logger.Error(err),
		)
		return
	}
	for i := range members {
		if members[i].Rank >= fromRank {
			s.scheduleRecompute(ctx, members[i].Item.ID)
		}
	}
}

// runTrendingRefresher rebuilds the trending feed on the configured
// cadence until the service stops.
func (s *Service) runTrendingRefresher(ctx context.Context) {
	defer close(s.refresherDone)

	ticker := time.NewTicker(s.trendingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			if _, err := s.RefreshTrending(ctx, s.trendingWindow); err != nil {
				s.logger.Error(ctx, "trending refresh failed", logger.Error(err))
			}
		}
	}
}
