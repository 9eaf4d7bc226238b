package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bookingRepo "github.com/rajkumarpatel02/car-rental-backend/database/repository/booking"
	"github.com/rajkumarpatel02/car-rental-backend/cache"
	"github.com/rajkumarpatel02/car-rental-backend/events"
	"github.com/rajkumarpatel02/car-rental-backend/messaging"
	"github.com/rajkumarpatel02/car-rental-backend/models"
	"github.com/rajkumarpatel02/car-rental-backend/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// DefaultBookingService implements BookingService. The repository is the
// authoritative store; the cache holds read-only shadows with bounded TTLs.
type DefaultBookingService struct {
	Repo  bookingRepo.BookingRepository
	Cache cache.Store
	Bus   messaging.Bus
}

// CreateBooking persists a pending booking, caches its shadow and publishes
// exactly one booking.created event. The saga is asynchronous: the caller
// gets the pending projection back immediately and discovers the outcome
// through the read path.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, userID string, input CreateBookingInput) (*models.Booking, error) {
	if input.CarID == "" {
		return nil, NewValidationError("carId is required")
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, NewValidationError("endDate must be after startDate")
	}
	if input.StartDate.Before(time.Now()) {
		return nil, NewValidationError("startDate cannot be in the past")
	}

	booking := &models.Booking{
		ID:         uuid.New().String(),
		UserID:     userID,
		CarID:      input.CarID,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		TotalPrice: 0,
		Status:     models.BookingStatusPending,
	}
	if err := s.Repo.Create(booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.cacheBooking(ctx, booking)

	env, err := events.NewEnvelope(events.TypeBookingCreated, events.BookingCreatedData{
		BookingID: booking.ID,
		CarID:     booking.CarID,
		StartDate: booking.StartDate,
		EndDate:   booking.EndDate,
		UserID:    booking.UserID,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Bus.Publish(ctx, events.ExchangeBooking, env); err != nil {
		// The booking is persisted; a lost availability request means it
		// stays pending until a retry, which the read path surfaces.
		utils.GetLogger().Error("failed to publish booking.created",
			zap.String("bookingId", booking.ID), zap.Error(err))
	} else {
		utils.GetLogger().Info("booking created and event published",
			zap.String("bookingId", booking.ID))
	}

	return booking, nil
}

// HandleAvailabilityResult advances the saga when the car service answers.
// Duplicate or late deliveries against a terminal booking are discarded.
func (s *DefaultBookingService) HandleAvailabilityResult(ctx context.Context, env events.Envelope) error {
	if env.Type != events.TypeCarAvailabilityResult {
		// Unknown event types are a no-op, never an error.
		return nil
	}

	var result events.AvailabilityResultData
	if err := env.Decode(&result); err != nil {
		utils.GetLogger().Warn("dropping undecodable availability result", zap.Error(err))
		return nil
	}

	logger := utils.GetLogger()
	booking, err := s.Repo.GetByID(result.BookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		logger.Warn("availability result for unknown booking",
			zap.String("bookingId", result.BookingID))
		return nil
	}
	if booking.IsTerminal() {
		logger.Debug("ignoring availability result for terminal booking",
			zap.String("bookingId", booking.ID),
			zap.String("status", booking.Status))
		return nil
	}

	var fields bson.M
	var eventType string
	status := events.BookingStatusData{BookingID: booking.ID, UserID: booking.UserID}

	if result.IsAvailable {
		fields = bson.M{
			"status":      models.BookingStatusConfirmed,
			"total_price": result.TotalPrice,
		}
		eventType = events.TypeBookingConfirmed
		status.Status = models.BookingStatusConfirmed
		status.TotalPrice = result.TotalPrice
	} else {
		fields = bson.M{
			"status":         models.BookingStatusFailed,
			"failure_reason": result.FailureReason,
		}
		eventType = events.TypeBookingFailed
		status.Status = models.BookingStatusFailed
		status.FailureReason = result.FailureReason
	}

	updated, err := s.Repo.UpdateFields(booking.ID, fields)
	if err != nil {
		return err
	}
	if updated == nil {
		return nil
	}

	s.cacheBooking(ctx, updated)
	s.invalidateUserBookings(ctx, updated.UserID)

	statusEnv, err := events.NewEnvelope(eventType, status)
	if err != nil {
		return err
	}
	if err := s.Bus.Publish(ctx, events.ExchangeBooking, statusEnv); err != nil {
		// The state change already happened; a lagging reactor is an
		// accepted, bounded inconsistency.
		logger.Error("failed to publish booking status event",
			zap.String("bookingId", updated.ID),
			zap.String("type", eventType),
			zap.Error(err))
	}

	logger.Info("booking saga advanced",
		zap.String("bookingId", updated.ID),
		zap.String("status", updated.Status))
	return nil
}

// GetUserBookings returns all bookings of a user, cache-aside with a short TTL.
func (s *DefaultBookingService) GetUserBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	key := cache.UserBookingsKey(userID)
	if cached, err := s.Cache.Get(ctx, key); err == nil {
		var bookings []models.Booking
		if err := json.Unmarshal([]byte(cached), &bookings); err == nil {
			return bookings, nil
		}
	}

	bookings, err := s.Repo.GetByUser(userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(bookings); err == nil {
		if err := s.Cache.Set(ctx, key, string(data), cache.UserBookingsTTL); err != nil {
			utils.GetLogger().Warn("failed to cache user bookings",
				zap.String("userId", userID), zap.Error(err))
		}
	}
	return bookings, nil
}

// GetBookingByID returns one booking, cache-aside, with the ownership check
// enforced on every read.
func (s *DefaultBookingService) GetBookingByID(ctx context.Context, bookingID, userID string) (*models.Booking, error) {
	if cached, err := s.Cache.Get(ctx, cache.BookingKey(bookingID)); err == nil {
		var booking models.Booking
		if err := json.Unmarshal([]byte(cached), &booking); err == nil && booking.UserID == userID {
			return &booking, nil
		}
	}

	booking, err := s.Repo.GetByIDAndUser(bookingID, userID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrNotFound
	}

	s.cacheBooking(ctx, booking)
	return booking, nil
}

// CancelBooking moves an in-flight booking to the cancelled terminal state.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, bookingID, userID string) (*models.Booking, error) {
	booking, err := s.Repo.GetByIDAndUser(bookingID, userID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrNotFound
	}
	if !booking.CanTransitionTo(models.BookingStatusCancelled) {
		return nil, NewValidationError(fmt.Sprintf("booking in status %q cannot be cancelled", booking.Status))
	}

	updated, err := s.Repo.UpdateFields(booking.ID, bson.M{"status": models.BookingStatusCancelled})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	s.cacheBooking(ctx, updated)
	s.invalidateUserBookings(ctx, updated.UserID)

	env, err := events.NewEnvelope(events.TypeBookingCancelled, events.BookingStatusData{
		BookingID: updated.ID,
		UserID:    updated.UserID,
		Status:    updated.Status,
	})
	if err == nil {
		if err := s.Bus.Publish(ctx, events.ExchangeBooking, env); err != nil {
			utils.GetLogger().Error("failed to publish booking.cancelled",
				zap.String("bookingId", updated.ID), zap.Error(err))
		}
	}
	return updated, nil
}

// cacheBooking writes the read-only shadow copy. Cache failures degrade to
// store reads and are only logged.
func (s *DefaultBookingService) cacheBooking(ctx context.Context, booking *models.Booking) {
	data, err := json.Marshal(booking)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, cache.BookingKey(booking.ID), string(data), cache.BookingTTL); err != nil {
		utils.GetLogger().Warn("failed to cache booking",
			zap.String("bookingId", booking.ID), zap.Error(err))
	}
}

func (s *DefaultBookingService) invalidateUserBookings(ctx context.Context, userID string) {
	if err := s.Cache.Del(ctx, cache.UserBookingsKey(userID)); err != nil {
		utils.GetLogger().Warn("failed to invalidate user bookings cache",
			zap.String("userId", userID), zap.Error(err))
	}
}
