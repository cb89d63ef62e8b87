package messaging

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// RabbitConfig holds the broker settings
type RabbitConfig struct {
	URL      string
	Exchange string
}

// RabbitPublisher publishes persistent JSON messages to a topic exchange
type RabbitPublisher struct {
	config  RabbitConfig
	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.Mutex
	logger  zerolog.Logger
}

// NewRabbitPublisher dials the broker and declares the exchange
func NewRabbitPublisher(config RabbitConfig, logger zerolog.Logger) (*RabbitPublisher, error) {
	p := &RabbitPublisher{
		config: config,
		logger: logger.With().Str("component", "rabbit_publisher").Logger(),
	}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *RabbitPublisher) connect() error {
	conn, err := amqp.Dial(p.config.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(p.config.Exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("failed to declare exchange %s: %w", p.config.Exchange, err)
	}

	p.conn = conn
	p.channel = ch
	p.logger.Info().Str("exchange", p.config.Exchange).Msg("Connected to RabbitMQ")
	return nil
}

// Publish sends msg, reconnecting first if the channel was closed by the broker
func (p *RabbitPublisher) Publish(ctx context.Context, msg Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil || p.channel.IsClosed() {
		p.closeLocked()
		if err := p.connect(); err != nil {
			return err
		}
	}

	err := p.channel.PublishWithContext(ctx,
		p.config.Exchange,
		msg.RoutingKey,
		false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    msg.ID,
			Body:         msg.Body,
			Timestamp:    msg.Timestamp,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", msg.RoutingKey, err)
	}
	return nil
}

// Close closes the channel and connection
func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
	return nil
}

func (p *RabbitPublisher) closeLocked() {
	if p.channel != nil {
		_ = p.channel.Close()
		p.channel = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
