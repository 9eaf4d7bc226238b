package messaging

import (
	"context"

	"github.com/rajkumarpatel02/car-rental-backend/cache"
	"github.com/rajkumarpatel02/car-rental-backend/events"
	"github.com/rajkumarpatel02/car-rental-backend/utils"

	"go.uber.org/zap"
)

// Dedup wraps handlers with deduplication against the cache store. Delivery
// is at-least-once, so every consumer of saga events goes through here.
type Dedup struct {
	store cache.Store
}

// NewDedup creates a deduplicating wrapper backed by the given cache store.
func NewDedup(store cache.Store) *Dedup {
	return &Dedup{store: store}
}

// Wrap returns a handler that invokes next at most once per logical event
// delivered to the named queue within the dedup window. The marker is
// scoped to the queue: a fanout exchange hands every bound queue its own
// copy of each event, and one consumer's marker must not swallow another
// consumer's first delivery. The marker is written only after next
// succeeds: marking first would permanently swallow a message whose
// processing failed transiently. A delivery after marker expiry is handled
// again, which is the accepted cost of a bounded window.
func (d *Dedup) Wrap(queue string, next Handler) Handler {
	return func(ctx context.Context, env events.Envelope) error {
		key := cache.ProcessedKey(queue, env.LogicalKey())

		seen, err := d.store.Exists(ctx, key)
		if err != nil {
			// Treat a cache outage as a miss: re-processing a message is
			// recoverable, dropping one is not.
			utils.GetLogger().Warn("dedup check failed, processing anyway",
				zap.String("key", key), zap.Error(err))
		} else if seen {
			utils.GetLogger().Debug("skipping duplicate message",
				zap.String("key", key))
			return nil
		}

		if err := next(ctx, env); err != nil {
			return err
		}

		if err := d.store.Set(ctx, key, "1", cache.ProcessedTTL); err != nil {
			utils.GetLogger().Warn("failed to write processed marker",
				zap.String("key", key), zap.Error(err))
		}
		return nil
	}
}
