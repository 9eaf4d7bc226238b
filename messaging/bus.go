// Package messaging provides the fanout message bus the services coordinate
// through, plus the idempotent-consumer wrapper that absorbs duplicate
// deliveries. Delivery is at-least-once: FIFO within one queue, no ordering
// across queues or exchanges.
package messaging

import (
	"context"

	"github.com/rajkumarpatel02/car-rental-backend/events"
)

// Handler processes one delivered envelope. Returning an error rejects the
// message so the broker may redeliver it.
type Handler func(ctx context.Context, env events.Envelope) error

// Bus is the message bus collaborator contract. Implementations establish
// the underlying connection lazily and reuse it.
type Bus interface {
	Publish(ctx context.Context, exchange string, env events.Envelope) error
	Subscribe(exchange, queueName string, handler Handler) error
	Close() error
}
