package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Routing keys on the events exchange.
const (
	KeyBillingSubmitted   = "billing.submitted"
	KeyBillingConfirmed   = "billing.confirmed"
	KeyBillingRejected    = "billing.rejected"
	KeyBillingExpired     = "billing.expired"
	KeyVerificationEmail  = "verification.email"
	KeyVerificationPhone  = "verification.phone"
	KeyInventoryLowStock  = "inventory.low_stock"
	defaultConnectRetries = 5
)

// Publisher hands events to the message broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close() error
}

// Channel is the subset of *amqp.Channel used for publishing.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type amqpPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       Channel
	exchange string
	log      *zap.Logger
}

// Connect dials the broker, retrying a fixed number of times.
func Connect(url string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "events.Connect"
	if retries <= 0 {
		retries = defaultConnectRetries
	}

	var conn *amqp.Connection
	var err error
	for range retries {
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("%s: %w", op, err)
}

// NewAMQPPublisher opens a channel on conn and declares a durable topic exchange.
func NewAMQPPublisher(conn *amqp.Connection, exchange string, log *zap.Logger) (Publisher, error) {
	const op = "events.NewAMQPPublisher"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("%s: declare exchange %s: %w", op, exchange, err)
	}

	return &amqpPublisher{conn: conn, ch: ch, exchange: exchange, log: log}, nil
}

// NewChannelPublisher publishes on an already configured channel.
func NewChannelPublisher(ch Channel, exchange string, log *zap.Logger) Publisher {
	return &amqpPublisher{ch: ch, exchange: exchange, log: log}
}

func (p *amqpPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	const op = "events.Publish"

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.Publish(p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("%s: %s: %w", op, routingKey, err)
	}
	p.log.Debug("event published", zap.String("routing_key", routingKey), zap.Int("bytes", len(body)))
	return nil
}

func (p *amqpPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.Close(); err != nil {
		return err
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }
func (NopPublisher) Close() error                               { return nil }
