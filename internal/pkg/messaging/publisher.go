package messaging

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Message is one broker publication
type Message struct {
	ID         string
	RoutingKey string
	Body       []byte
	Timestamp  time.Time
}

// Publisher sends messages to the broker
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// RoutingKey joins the configured prefix and the event type, e.g. "gradlink.event.registered"
func RoutingKey(prefix, eventType string) string {
	prefix = strings.Trim(prefix, ".")
	if prefix == "" {
		return eventType
	}
	return prefix + "." + eventType
}

// LogPublisher writes messages to the log instead of a broker. Used when RabbitMQ is disabled.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a LogPublisher
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With().Str("component", "log_publisher").Logger()}
}

// Publish logs the message
func (p *LogPublisher) Publish(_ context.Context, msg Message) error {
	p.logger.Info().
		Str("id", msg.ID).
		Str("routingKey", msg.RoutingKey).
		RawJSON("body", msg.Body).
		Msg("Domain event")
	return nil
}

// Close is a no-op
func (p *LogPublisher) Close() error { return nil }
