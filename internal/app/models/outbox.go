package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Domain event types written to the outbox
const (
	EventConnectionRequested = "connection.requested"
	EventConnectionResponded = "connection.responded"
	EventMentorshipRequested = "mentorship.requested"
	EventMentorshipResponded = "mentorship.responded"
	EventEventRegistered     = "event.registered"
	EventEventUnregistered   = "event.unregistered"
	EventJobApplied          = "job.applied"
	EventMessageSent         = "message.sent"
)

// OutboxEvent is a domain event waiting to be published to the broker
type OutboxEvent struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	AggregateType string          `json:"aggregateType" db:"aggregate_type"`
	AggregateID   int64           `json:"aggregateId" db:"aggregate_id"`
	EventType     string          `json:"eventType" db:"event_type"`
	Payload       json.RawMessage `json:"payload" db:"payload"`
	Processed     bool            `json:"processed" db:"processed"`
	RetryCount    int             `json:"retryCount" db:"retry_count"`
	LastError     *string         `json:"lastError,omitempty" db:"last_error"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	ProcessedAt   *time.Time      `json:"processedAt,omitempty" db:"processed_at"`
}

// Notification is what services emit; the notifier turns it into an OutboxEvent
type Notification struct {
	AggregateType string
	AggregateID   int64
	EventType     string
	RecipientID   int64
	ActorID       int64
	Data          map[string]interface{}
}
