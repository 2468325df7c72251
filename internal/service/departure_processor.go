package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/vogiaan1904/seatqueue/config"
	"github.com/vogiaan1904/seatqueue/pkg/logger"
)

type DepartureProcessor interface {
	Start(ctx context.Context) error
	Stop() error
	ProcessDue(ctx context.Context) (int, error)
	GetStatus() ProcessorStatus
}

// DepartureSource hands out departures whose serving time has elapsed, each at most once.
type DepartureSource interface {
	PopDue(ctx context.Context, now time.Time, limit int) ([]int64, error)
	Pending(ctx context.Context) (int64, error)
}

type departureProcessor struct {
	src    DepartureSource
	svc    WaitlistService
	logger logger.Logger

	interval  time.Duration
	batchSize int

	mu        sync.RWMutex
	isRunning bool
	startedAt time.Time
	sched     gocron.Scheduler

	lastProcessed time.Time
	totalDeparted int64
	errorCount    int64
	pending       int64
}

func NewDepartureProcessor(
	src DepartureSource,
	svc WaitlistService,
	logger logger.Logger,
	cfg config.WaitlistConfig,
) DepartureProcessor {
	return &departureProcessor{
		src:       src,
		svc:       svc,
		logger:    logger,
		interval:  cfg.DeparturePollInterval,
		batchSize: cfg.DepartureBatchSize,
	}
}

func (dp *departureProcessor) Start(ctx context.Context) error {
	dp.mu.Lock()
	defer dp.mu.Unlock()

	if dp.isRunning {
		return ErrProcessorRunning
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(dp.interval),
		gocron.NewTask(func() {
			dp.tick(ctx)
		}),
		gocron.WithName("waitlist-departures"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("failed to schedule departure job: %w", err)
	}

	sched.Start()

	dp.sched = sched
	dp.isRunning = true
	dp.startedAt = time.Now()

	dp.logger.Info(ctx, "Departure processor started",
		"interval", dp.interval,
		"batch_size", dp.batchSize,
	)
	return nil
}

func (dp *departureProcessor) Stop() error {
	dp.mu.Lock()
	if !dp.isRunning {
		dp.mu.Unlock()
		return ErrProcessorNotRunning
	}
	sched := dp.sched
	dp.isRunning = false
	dp.sched = nil
	dp.mu.Unlock()

	// Shutdown waits for a running tick, which takes dp.mu itself.
	if err := sched.Shutdown(); err != nil {
		dp.logger.Warn(context.Background(), "Departure scheduler shutdown failed", "error", err)
	}

	dp.logger.Info(context.Background(), "Departure processor stopped")
	return nil
}

func (dp *departureProcessor) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	if _, err := dp.ProcessDue(ctx); err != nil {
		dp.logger.Error(ctx, "Failed to process due departures", "error", err)
	}
}

// ProcessDue runs Depart for up to one batch of due departures. A failed
// departure is logged and counted; it has already left the queue and is not retried.
func (dp *departureProcessor) ProcessDue(ctx context.Context) (int, error) {
	defer func() {
		dp.mu.Lock()
		dp.lastProcessed = time.Now()
		dp.mu.Unlock()
	}()

	ids, err := dp.src.PopDue(ctx, time.Now(), dp.batchSize)
	if err != nil {
		dp.incrementErrorCount()
		return 0, fmt.Errorf("failed to pop due departures: %w", err)
	}

	dp.refreshPending(ctx)

	departed := 0
	for _, id := range ids {
		if err := dp.svc.Depart(ctx, id); err != nil {
			dp.incrementErrorCount()
			dp.logger.Error(ctx, "Failed to process departure",
				"customer_id", id,
				"error", err,
			)
			continue
		}
		departed++
	}

	if departed > 0 {
		dp.mu.Lock()
		dp.totalDeparted += int64(departed)
		dp.mu.Unlock()

		dp.logger.Debug(ctx, "Departures processed",
			"due", len(ids),
			"departed", departed,
		)
	}

	return departed, nil
}

// refreshPending keeps the last known backlog when the count fails.
func (dp *departureProcessor) refreshPending(ctx context.Context) {
	n, err := dp.src.Pending(ctx)
	if err != nil {
		dp.logger.Warn(ctx, "Failed to count pending departures", "error", err)
		return
	}

	dp.mu.Lock()
	dp.pending = n
	dp.mu.Unlock()
}

func (dp *departureProcessor) incrementErrorCount() {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.errorCount++
}

func (dp *departureProcessor) GetStatus() ProcessorStatus {
	dp.mu.RLock()
	defer dp.mu.RUnlock()

	return ProcessorStatus{
		IsRunning:         dp.isRunning,
		StartedAt:         dp.startedAt,
		LastProcessed:     dp.lastProcessed,
		TotalDeparted:     dp.totalDeparted,
		ErrorCount:        dp.errorCount,
		PendingDepartures: dp.pending,
	}
}
