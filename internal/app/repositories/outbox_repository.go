package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/gradlink/alumni/internal/app/models"
	"github.com/gradlink/alumni/internal/db"
	"github.com/google/uuid"
)

// OutboxRepository stores domain events until the worker publishes them
type OutboxRepository struct {
	db db.Pool
}

// NewOutboxRepository creates a new OutboxRepository
func NewOutboxRepository(pool db.Pool) *OutboxRepository {
	return &OutboxRepository{db: pool}
}

// Insert writes a pending event. A zero ID is replaced with a fresh UUID.
func (r *OutboxRepository) Insert(ctx context.Context, e *models.OutboxEvent) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO outbox_events (id, aggregate_type, aggregate_id, event_type, payload)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		e.ID, e.AggregateType, e.AggregateID, e.EventType, e.Payload,
	).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting outbox event: %w", err)
	}
	return nil
}

// FetchUnprocessed returns up to limit pending events that still have retries left, oldest first
func (r *OutboxRepository) FetchUnprocessed(ctx context.Context, limit, maxRetries int) ([]models.OutboxEvent, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, aggregate_type, aggregate_id, event_type, payload, processed, retry_count, last_error, created_at, processed_at
		FROM outbox_events
		WHERE processed = FALSE AND retry_count < $1
		ORDER BY created_at ASC
		LIMIT $2`, maxRetries, limit)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	events := []models.OutboxEvent{}
	for rows.Next() {
		var e models.OutboxEvent
		if err := rows.Scan(&e.ID, &e.AggregateType, &e.AggregateID, &e.EventType, &e.Payload,
			&e.Processed, &e.RetryCount, &e.LastError, &e.CreatedAt, &e.ProcessedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// MarkProcessed flags an event as published
func (r *OutboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE outbox_events SET processed = TRUE, processed_at = $1, last_error = NULL WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// MarkFailed records a failed publish attempt
func (r *OutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, cause string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE outbox_events SET retry_count = retry_count + 1, last_error = $1 WHERE id = $2`, cause, id)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}
