// Package worker drains the recompute queue and keeps per-item
// statistics current.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xkazm04/nenet/internal/adapters/mq/queue"
	"github.com/xkazm04/nenet/internal/adapters/repository"
	"github.com/xkazm04/nenet/internal/domain/model"
	"github.com/xkazm04/nenet/internal/domain/stats"
	"github.com/xkazm04/nenet/pkg/logger"
	"github.com/xkazm04/nenet/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Job abstracts what workers read off the queue.
type Job = queue.Job

// RankSource reads an item's current ranks across every list that
// contains it.
type RankSource interface {
	ItemRanks(ctx context.Context, itemID uuid.UUID) ([]int, error)
}

// StatsSink stores a freshly computed statistics row.
type StatsSink interface {
	UpsertStatistics(ctx context.Context, stats *model.ItemStatistics) error
}

// Releaser clears an item's pending recompute marker so later mutations
// can schedule a fresh job.
type Releaser interface {
	Release(ctx context.Context, id uuid.UUID)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker recomputes item statistics from queued jobs.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// StatsWorker implements Worker for statistics recompute jobs.
type StatsWorker struct {
	queue   Queue
	ranks   RankSource
	sink    StatsSink
	release Releaser
	name    string

	// Shutdown control
	stopOnce sync.Once
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewStatsWorker creates a new worker with configuration options.
func NewStatsWorker(queue Queue, ranks RankSource, sink StatsSink, release Releaser, opts ...Option) *StatsWorker {
	w := &StatsWorker{
		queue:    queue,
		ranks:    ranks,
		sink:     sink,
		release:  release,
		name:     "worker", // default name
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"), // will be updated by options
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	// Set up logger with worker name if not already set
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *StatsWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	jobChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "recompute failed",
					logger.String("item_id", job.ItemID.String()),
					logger.Error(err),
				)
			}
		}
	}
}

// signalStop closes the shutdown channel exactly once.
func (w *StatsWorker) signalStop() {
	w.stopOnce.Do(func() {
		close(w.shutdown)
	})
}

// Shutdown gracefully stops the worker.
func (w *StatsWorker) Shutdown(ctx context.Context) error {
	w.signalStop()

	// Wait for worker to finish or context to timeout
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob recomputes and stores the statistics row for one item.
//
// The pending marker is released before the ranks are read, so a
// mutation that lands mid-recompute schedules a fresh job instead of
// being swallowed. A job for an item deleted while queued is skipped.
func (w *StatsWorker) processJob(ctx context.Context, job Job) error {
	// Track overall processing latency
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordWorkerProcessingLatency(float64(latency))
	}()

	w.release.Release(ctx, job.ItemID)

	ranks, err := w.ranks.ItemRanks(ctx, job.ItemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			w.logger.Debug(ctx, "skipping recompute for deleted item",
				logger.String("item_id", job.ItemID.String()))
			return nil
		}
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "ranks_read_error")
		return fmt.Errorf("read ranks for item %s: %w", job.ItemID, err)
	}

	summary := stats.Summarize(ranks)
	row := model.ItemStatistics{
		ItemID:           job.ItemID,
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

	if err := w.sink.UpsertStatistics(ctx, &row); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "stats_write_error")
		return fmt.Errorf("store statistics for item %s: %w", job.ItemID, err)
	}

	metrics.RecordStatsRecompute()
	metrics.RecordStatsRecomputeLatency(float64(time.Since(start).Milliseconds()))
	return nil
}

// Pool manages multiple workers draining one queue.
type Pool struct {
	workers []*StatsWorker
	queue   Queue

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, ranks RankSource, sink StatsSink, release Releaser) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers: make([]*StatsWorker, workerCount),
		queue:   queue,
		logger:  logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewStatsWorker(
			queue,
			ranks,
			sink,
			release,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	// Initialize worker metrics
	metrics.UpdateWorkerActiveCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Stop stops all workers without draining the queue.
func (p *Pool) Stop() {
	for _, worker := range p.workers {
		worker.signalStop()
	}

	// Wait for all workers to finish
	for _, worker := range p.workers {
		select {
		case <-worker.done:
			// Worker finished
		case <-time.After(workerShutdownTimeout):
			// Worker timeout
		}
	}

	metrics.UpdateWorkerActiveCount(0)
}

// Shutdown closes the queue and waits for the workers to drain the
// remaining jobs.
func (p *Pool) Shutdown(ctx context.Context) error {
	// First close the queue to stop new jobs
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	// Wait for all workers to finish or context to timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	metrics.UpdateWorkerActiveCount(0)
	return nil
}
