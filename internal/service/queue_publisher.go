// Package service holds outbound integrations used by the portal handlers.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/t1112000/seatly-fe/internal/pkg/logger"
	"github.com/t1112000/seatly-fe/internal/queue"
)

// OutcomePublisher announces classified payment returns.
type OutcomePublisher interface {
	PublishBookingResolved(ctx context.Context, ev queue.BookingResolvedEvent) error
}

// AMQPPublisher publishes outcome events to a durable RabbitMQ queue.  Each
// publish dials its own connection.
type AMQPPublisher struct {
	url       string
	queueName string
}

func NewAMQPPublisher(url, queueName string) *AMQPPublisher {
	if queueName == "" {
		queueName = queue.BookingResolvedQueue
	}
	return &AMQPPublisher{url: url, queueName: queueName}
}

// PublishBookingResolved publishes ev as a persistent JSON message.  Errors
// are logged and returned so the caller can choose to ignore them.
func (p *AMQPPublisher) PublishBookingResolved(ctx context.Context, ev queue.BookingResolvedEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		logger.Warn("rabbitmq: dial failed", zap.Error(err))
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Warn("rabbitmq: channel open failed", zap.Error(err))
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		p.queueName, // name
		true,        // durable
		false,       // autoDelete
		false,       // exclusive
		false,       // noWait
		nil,         // args
	); err != nil {
		logger.Warn("rabbitmq: queue declare failed", zap.Error(err))
		return fmt.Errorf("declare queue: %w", err)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    ev.BookingID,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queueName, false, false, pub); err != nil {
		logger.Warn("rabbitmq: publish failed", zap.String("booking_id", ev.BookingID), zap.Error(err))
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// NoopPublisher drops every event.  It is used when the ledger is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishBookingResolved(context.Context, queue.BookingResolvedEvent) error {
	return nil
}

var (
	_ OutcomePublisher = (*AMQPPublisher)(nil)
	_ OutcomePublisher = NoopPublisher{}
)
