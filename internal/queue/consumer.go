package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/t1112000/seatly-fe/internal/model"
	"github.com/t1112000/seatly-fe/internal/pkg/logger"
	"github.com/t1112000/seatly-fe/internal/repository"
)

// OutcomeRecorder stores an observed booking status.
type OutcomeRecorder interface {
	Record(ctx context.Context, rec repository.OutcomeRecord) error
}

// StartOutcomeConsumer connects to the broker at url, declares queueName
// (durable) and records every BookingResolvedEvent through rec.  It runs a
// reconnect loop with exponential backoff and returns only when ctx is done.
// A message that cannot be processed is rejected without requeue so one bad
// payload cannot stall the queue.
func StartOutcomeConsumer(ctx context.Context, url, queueName string, rec OutcomeRecorder) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			logger.Warn("outcome-consumer: dial failed",
				zap.Error(err),
				zap.Duration("retry_in", backoff),
			)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, queueName, rec)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn("outcome-consumer: consume loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, queueName string, rec OutcomeRecorder) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logger.Warn("outcome-consumer: set QoS failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := handleMessage(ctx, rec, d.Body); err != nil {
				logger.Error("outcome-consumer: handle message failed", zap.Error(err))
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// handleMessage records one event.  Events without a status (the lookup
// failed) and observations that contradict the ledger are logged and
// acknowledged; only decode and storage failures are returned.
func handleMessage(ctx context.Context, rec OutcomeRecorder, body []byte) error {
	var ev BookingResolvedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.BookingID == "" {
		return errors.New("event without booking_id")
	}
	if ev.Status == "" {
		logger.Debug("outcome-consumer: lookup failure observed",
			zap.String("booking_id", ev.BookingID),
			zap.String("fetch_error", ev.FetchError),
		)
		return nil
	}

	observedAt := ev.ObservedAt
	if observedAt.IsZero() {
		observedAt = time.Now().UTC()
	}
	err := rec.Record(ctx, repository.OutcomeRecord{
		BookingID:  ev.BookingID,
		Status:     model.BookingStatus(ev.Status),
		Amount:     ev.Amount,
		Provider:   ev.Provider,
		LastSeenAt: observedAt,
	})
	if errors.Is(err, repository.ErrConflict) {
		logger.Warn("outcome-consumer: contradicting observation ignored",
			zap.String("booking_id", ev.BookingID),
			zap.String("status", ev.Status),
			zap.Error(err),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("record %s: %w", ev.BookingID, err)
	}
	return nil
}
