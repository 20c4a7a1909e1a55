package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jobbee/jobboard-api/internal/core/domain"
)

const (
	DefaultExchange             = "jobboard.events"
	RoutingApplicationSubmitted = "application.submitted"
)

// RabbitPublisher publishes events as JSON to a durable topic exchange.
type RabbitPublisher struct {
	conn     *amqp.Connection
	mu       sync.Mutex // amqp channels are not safe for concurrent publishing
	channel  *amqp.Channel
	exchange string
}

// NewRabbitPublisher dials url and declares exchange.
func NewRabbitPublisher(url, exchange string) (*RabbitPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // args
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &RabbitPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, event domain.ApplicationSubmitted) error {
	msg, err := newPublishing(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.channel.PublishWithContext(
		ctx,
		p.exchange,
		RoutingApplicationSubmitted,
		false, // mandatory
		false, // immediate
		msg,
	)
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.Close(); err != nil {
		_ = p.conn.Close()
		return err
	}
	return p.conn.Close()
}

func newPublishing(event domain.ApplicationSubmitted) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("encode event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Timestamp:    event.SubmittedAt,
		Type:         RoutingApplicationSubmitted,
		Body:         body,
	}, nil
}
