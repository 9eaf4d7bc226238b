// Package worker hosts the downstream reactors: consumers of terminal saga
// events that trigger side effects. Reactors are idempotent, best-effort
// and never feed errors back into the saga.
package worker

import (
	"context"
	"encoding/json"

	"github.com/rajkumarpatel02/car-rental-backend/cache"
	"github.com/rajkumarpatel02/car-rental-backend/events"
	"github.com/rajkumarpatel02/car-rental-backend/utils"

	"go.uber.org/zap"
)

// NotificationProcessor keeps the notification-facing caches in sync with
// booking and car events.
type NotificationProcessor struct {
	Cache cache.Store
}

// HandleBookingEvent reacts to events on the booking exchange. Errors are
// logged and swallowed: a reactor must never block the saga or starve the
// other reactors of redeliveries.
func (p *NotificationProcessor) HandleBookingEvent(ctx context.Context, env events.Envelope) error {
	logger := utils.GetLogger()

	switch env.Type {
	case events.TypeBookingCreated:
		var data events.BookingCreatedData
		if err := env.Decode(&data); err != nil {
			logger.Warn("notification: undecodable booking.created", zap.Error(err))
			return nil
		}
		logger.Info("notification: booking created", zap.String("bookingId", data.BookingID))

	case events.TypeBookingConfirmed, events.TypeBookingCancelled, events.TypeBookingFailed:
		var data events.BookingStatusData
		if err := env.Decode(&data); err != nil {
			logger.Warn("notification: undecodable booking status event", zap.Error(err))
			return nil
		}
		logger.Info("notification: booking status changed",
			zap.String("bookingId", data.BookingID),
			zap.String("status", data.Status))

		if raw, err := json.Marshal(data); err == nil {
			key := cache.BookingStatusKey(data.BookingID)
			if err := p.Cache.Set(ctx, key, string(raw), cache.BookingTTL); err != nil {
				logger.Warn("notification: failed to cache booking status",
					zap.String("bookingId", data.BookingID), zap.Error(err))
			}
		}

	default:
		// Unknown types are forward-compatible no-ops.
	}
	return nil
}

// HandleCarEvent reacts to events on the car exchange.
func (p *NotificationProcessor) HandleCarEvent(ctx context.Context, env events.Envelope) error {
	logger := utils.GetLogger()

	switch env.Type {
	case events.TypeCarAvailabilityResult:
		var data events.AvailabilityResultData
		if err := env.Decode(&data); err != nil {
			logger.Warn("notification: undecodable availability result", zap.Error(err))
			return nil
		}
		logger.Info("notification: availability result",
			zap.String("bookingId", data.BookingID),
			zap.Bool("isAvailable", data.IsAvailable))

		if raw, err := json.Marshal(data); err == nil {
			key := cache.AvailabilityResultKey(data.BookingID)
			if err := p.Cache.Set(ctx, key, string(raw), cache.UserBookingsTTL); err != nil {
				logger.Warn("notification: failed to cache availability result",
					zap.String("bookingId", data.BookingID), zap.Error(err))
			}
		}

	case events.TypeCarUpdated:
		var data events.CarUpdatedData
		if err := env.Decode(&data); err != nil {
			logger.Warn("notification: undecodable car.updated", zap.Error(err))
			return nil
		}
		if err := p.Cache.Del(ctx, cache.CarKey(data.CarID)); err != nil {
			logger.Warn("notification: failed to clear car cache",
				zap.String("carId", data.CarID), zap.Error(err))
		}

	default:
	}
	return nil
}
