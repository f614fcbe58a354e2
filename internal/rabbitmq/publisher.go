// Package rabbitmq carries audit events to the broker. When AMQP is not
// configured or unreachable the service keeps running with a logging noop.
package rabbitmq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"collab-service/internal/telemetry"
)

// Publisher publishes audit events.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

const publishTimeout = 5 * time.Second

// NewPublisher connects to RabbitMQ and declares the topic exchange. Any
// failure degrades to a noop publisher instead of blocking startup.
func NewPublisher(amqpURL, exchange string) Publisher {
	if amqpURL == "" {
		log.Printf("audit publisher: amqp not configured, events go to the log")
		return noopPublisher{reason: "amqp url not set"}
	}

	pub, err := dial(amqpURL, exchange)
	if err != nil {
		log.Printf("audit publisher: broker unavailable, events go to the log: %v", err)
		return noopPublisher{reason: err.Error()}
	}

	log.Printf("audit publisher connected exchange=%s", exchange)
	return pub
}

func dial(amqpURL, exchange string) (*brokerPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &brokerPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

type brokerPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func (p *brokerPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		AppId:        "collab-service",
		Body:         body,
	})
	if err != nil {
		log.Printf("audit publish failed routing_key=%s: %v", routingKey, err)
	}
	return err
}

func (p *brokerPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// noopPublisher logs the envelope instead of shipping it.
type noopPublisher struct {
	reason string
}

func (noopPublisher) Publish(_ context.Context, routingKey string, event any) error {
	if envelope, ok := event.(telemetry.AuditEnvelope); ok {
		log.Printf("audit noop routing_key=%s event_type=%s request_id=%s", routingKey, envelope.EventType, envelope.RequestID)
		return nil
	}
	log.Printf("audit noop routing_key=%s", routingKey)
	return nil
}

func (noopPublisher) Close() error { return nil }
