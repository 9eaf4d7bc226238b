package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rajkumarpatel02/car-rental-backend/events"
	"github.com/rajkumarpatel02/car-rental-backend/utils"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// RabbitBus implements Bus on RabbitMQ with durable fanout exchanges.
type RabbitBus struct {
	url string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewRabbitBus creates a bus for the given AMQP URL. The connection is not
// established until the first publish or subscribe.
func NewRabbitBus(url string) *RabbitBus {
	return &RabbitBus{url: url}
}

// channel returns the live connection and the shared publishing channel,
// dialing the broker if needed. Both are captured under the lock so callers
// never read connection state that a concurrent redial or Close replaced.
func (b *RabbitBus) channel() (*amqp.Connection, *amqp.Channel, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ch != nil && !b.ch.IsClosed() {
		return b.conn, b.ch, nil
	}

	conn, err := amqp.Dial(b.url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	b.conn = conn
	b.ch = ch
	return conn, ch, nil
}

func declareFanout(ch *amqp.Channel, exchange string) error {
	if err := ch.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return nil
}

// Publish sends the envelope to a fanout exchange as a persistent JSON message.
func (b *RabbitBus) Publish(ctx context.Context, exchange string, env events.Envelope) error {
	_, ch, err := b.channel()
	if err != nil {
		return err
	}
	if err := declareFanout(ch, exchange); err != nil {
		return err
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	return ch.PublishWithContext(ctx, exchange, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// Subscribe binds a durable named queue to a fanout exchange and dispatches
// deliveries to the handler on a dedicated goroutine. The message is acked
// when the handler returns nil and rejected otherwise; redelivery of
// rejected messages is broker policy, not ours.
func (b *RabbitBus) Subscribe(exchange, queueName string, handler Handler) error {
	conn, _, err := b.channel()
	if err != nil {
		return err
	}

	// Each subscription gets its own channel so a slow consumer cannot
	// block publishes or other subscriptions.
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	if err := declareFanout(ch, exchange); err != nil {
		_ = ch.Close()
		return err
	}
	q, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("declare queue %s: %w", queueName, err)
	}
	if err := ch.QueueBind(q.Name, "", exchange, false, nil); err != nil {
		_ = ch.Close()
		return fmt.Errorf("bind queue %s to %s: %w", queueName, exchange, err)
	}

	deliveries, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("consume %s: %w", queueName, err)
	}

	logger := utils.GetLogger()
	go func() {
		for d := range deliveries {
			var env events.Envelope
			if err := json.Unmarshal(d.Body, &env); err != nil {
				logger.Warn("dropping malformed message",
					zap.String("queue", queueName), zap.Error(err))
				_ = d.Nack(false, false)
				continue
			}

			if err := handler(context.Background(), env); err != nil {
				logger.Error("handler failed, rejecting message",
					zap.String("queue", queueName),
					zap.String("type", env.Type),
					zap.Error(err))
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}()

	logger.Info("subscribed",
		zap.String("exchange", exchange), zap.String("queue", queueName))
	return nil
}

// Ping reports whether the broker connection is alive.
func (b *RabbitBus) Ping(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn == nil || b.conn.IsClosed() {
		return errors.New("rabbitmq connection not established")
	}
	return nil
}

// Close tears down the channel and connection.
func (b *RabbitBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ch != nil {
		_ = b.ch.Close()
		b.ch = nil
	}
	if b.conn != nil {
		err := b.conn.Close()
		b.conn = nil
		return err
	}
	return nil
}
