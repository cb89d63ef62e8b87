package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gradlink/alumni/internal/app/models"
	"github.com/rs/zerolog"
)

// Notifier records domain events after a successful write
type Notifier interface {
	Notify(ctx context.Context, n models.Notification)
}

type outboxNotifier struct {
	outbox OutboxWriter
	clock  clock.Clock
	logger zerolog.Logger
}

// NewNotifier creates a Notifier that writes to the outbox
func NewNotifier(outbox OutboxWriter, clk clock.Clock, logger zerolog.Logger) Notifier {
	return &outboxNotifier{
		outbox: outbox,
		clock:  clk,
		logger: logger.With().Str("component", "notifier").Logger(),
	}
}

// notificationPayload is the JSON body published to the broker
type notificationPayload struct {
	EventType     string                 `json:"eventType"`
	AggregateType string                 `json:"aggregateType"`
	AggregateID   int64                  `json:"aggregateId"`
	RecipientID   int64                  `json:"recipientId"`
	ActorID       int64                  `json:"actorId"`
	Data          map[string]interface{} `json:"data,omitempty"`
	OccurredAt    string                 `json:"occurredAt"`
}

// Notify never fails the caller; the write it follows has already committed
func (n *outboxNotifier) Notify(ctx context.Context, note models.Notification) {
	payload, err := json.Marshal(notificationPayload{
		EventType:     note.EventType,
		AggregateType: note.AggregateType,
		AggregateID:   note.AggregateID,
		RecipientID:   note.RecipientID,
		ActorID:       note.ActorID,
		Data:          note.Data,
		OccurredAt:    n.clock.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		n.logger.Error().Err(err).Str("eventType", note.EventType).Msg("Failed to encode notification")
		return
	}

	err = n.outbox.Insert(ctx, &models.OutboxEvent{
		AggregateType: note.AggregateType,
		AggregateID:   note.AggregateID,
		EventType:     note.EventType,
		Payload:       payload,
	})
	if err != nil {
		n.logger.Error().Err(err).
			Str("eventType", note.EventType).
			Int64("aggregateId", note.AggregateID).
			Msg("Failed to enqueue notification")
	}
}
