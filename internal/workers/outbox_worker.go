package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/gradlink/alumni/internal/app/models"
	"github.com/gradlink/alumni/internal/pkg/messaging"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const outboxWorkerName = "OutboxCronWorker"

// OutboxStore is the slice of the outbox repository the worker needs
type OutboxStore interface {
	FetchUnprocessed(ctx context.Context, limit, maxRetries int) ([]models.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, cause string) error
}

// OutboxConfig controls the publishing schedule
type OutboxConfig struct {
	Schedule      string
	BatchSize     int
	MaxRetries    int
	RoutingPrefix string
	RunTimeout    time.Duration
}

// OutboxWorker periodically publishes unprocessed outbox events to the broker
type OutboxWorker struct {
	config    OutboxConfig
	store     OutboxStore
	publisher messaging.Publisher
	clock     clock.Clock
	cron      *cron.Cron
	logger    zerolog.Logger
}

// NewOutboxWorker creates an OutboxWorker; Start schedules it
func NewOutboxWorker(config OutboxConfig, store OutboxStore, publisher messaging.Publisher, clk clock.Clock, logger zerolog.Logger) *OutboxWorker {
	if config.Schedule == "" {
		config.Schedule = "@every 30s"
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 5
	}
	if config.RunTimeout <= 0 {
		config.RunTimeout = 25 * time.Second
	}
	if clk == nil {
		clk = clock.New()
	}

	logger = logger.With().Str("component", outboxWorkerName).Logger()
	cronLog := cronLogger{logger: logger}
	return &OutboxWorker{
		config:    config,
		store:     store,
		publisher: publisher,
		clock:     clk,
		cron:      cron.New(cron.WithLogger(cronLog), cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog))),
		logger:    logger,
	}
}

// GetServiceName returns the worker name used in logs
func (w *OutboxWorker) GetServiceName() string {
	return outboxWorkerName
}

// Start registers the job and starts the scheduler in its own goroutine
func (w *OutboxWorker) Start() error {
	_, err := w.cron.AddFunc(w.config.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), w.config.RunTimeout)
		defer cancel()
		if _, _, err := w.ProcessBatch(ctx); err != nil {
			w.logger.Error().Err(err).Msg("Outbox run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("could not schedule %s with %q: %w", outboxWorkerName, w.config.Schedule, err)
	}

	w.cron.Start()
	w.logger.Info().Str("schedule", w.config.Schedule).Msg("Outbox worker started")
	return nil
}

// Stop stops scheduling and waits for a running batch, or for ctx to expire
func (w *OutboxWorker) Stop(ctx context.Context) {
	select {
	case <-w.cron.Stop().Done():
		w.logger.Info().Msg("Outbox worker stopped")
	case <-ctx.Done():
		w.logger.Warn().Msg("Outbox worker stop timed out")
	}
}

// ProcessBatch publishes one batch. A failed publish is recorded on the event and does not stop the batch.
func (w *OutboxWorker) ProcessBatch(ctx context.Context) (published, failed int, err error) {
	events, err := w.store.FetchUnprocessed(ctx, w.config.BatchSize, w.config.MaxRetries)
	if err != nil {
		return 0, 0, fmt.Errorf("could not read events from database: %w", err)
	}

	for _, e := range events {
		if ctx.Err() != nil {
			return published, failed, ctx.Err()
		}

		msg := messaging.Message{
			ID:         e.ID.String(),
			RoutingKey: messaging.RoutingKey(w.config.RoutingPrefix, e.EventType),
			Body:       e.Payload,
			Timestamp:  e.CreatedAt,
		}

		if pubErr := w.publisher.Publish(ctx, msg); pubErr != nil {
			failed++
			w.logger.Warn().Err(pubErr).
				Str("eventId", msg.ID).
				Int("attempt", e.RetryCount+1).
				Msg("Can't publish outbox event")
			if markErr := w.store.MarkFailed(ctx, e.ID, pubErr.Error()); markErr != nil {
				w.logger.Error().Err(markErr).Str("eventId", msg.ID).Msg("Failed to record publish failure")
			}
			continue
		}

		if markErr := w.store.MarkProcessed(ctx, e.ID, w.clock.Now()); markErr != nil {
			// It will be published again on the next run
			w.logger.Error().Err(markErr).Str("eventId", msg.ID).Msg("Failed to mark event processed")
			continue
		}
		published++
	}

	if len(events) > 0 {
		w.logger.Debug().Int("published", published).Int("failed", failed).Msg("Outbox batch done")
	}
	return published, failed, nil
}

// cronLogger adapts zerolog to cron.Logger
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
