package car

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/rajkumarpatel02/car-rental-backend/cache"
	"github.com/rajkumarpatel02/car-rental-backend/events"
	"github.com/rajkumarpatel02/car-rental-backend/models"
	"github.com/rajkumarpatel02/car-rental-backend/utils"

	"go.uber.org/zap"
)

// Failure reasons carried in availability results.
const (
	ReasonCarNotFound    = "Car not found"
	ReasonCarUnavailable = "Car is currently not available for booking"
	ReasonInternalError  = "Internal server error checking availability"
)

// availabilityOutcome is the cached shape of a computed availability check.
type availabilityOutcome struct {
	IsAvailable bool               `json:"isAvailable"`
	TotalPrice  float64            `json:"totalPrice,omitempty"`
	Days        int                `json:"days,omitempty"`
	Car         *models.CarSummary `json:"car,omitempty"`
	Reason      string             `json:"reason,omitempty"`
}

// HandleAvailabilityRequest answers a booking.created event. Whatever
// happens internally, exactly one car.availability_result keyed to the
// incoming bookingId goes out: an error path produces a result with
// isAvailable=false rather than silence, because a missing result would
// leave the booking pending forever.
func (s *DefaultCarService) HandleAvailabilityRequest(ctx context.Context, env events.Envelope) error {
	if env.Type != events.TypeBookingCreated {
		// Other booking events fan into this queue too; not ours to handle.
		return nil
	}

	var req events.BookingCreatedData
	if err := env.Decode(&req); err != nil {
		utils.GetLogger().Warn("dropping undecodable availability request", zap.Error(err))
		return nil
	}

	logger := utils.GetLogger()
	logger.Info("availability request received",
		zap.String("bookingId", req.BookingID), zap.String("carId", req.CarID))

	outcome, err := s.cachedAvailability(ctx, req.CarID, req.StartDate, req.EndDate)
	if err != nil {
		logger.Error("availability check failed",
			zap.String("bookingId", req.BookingID), zap.Error(err))
		outcome = availabilityOutcome{IsAvailable: false, Reason: ReasonInternalError}
	}

	result := events.AvailabilityResultData{
		BookingID:     req.BookingID,
		IsAvailable:   outcome.IsAvailable,
		TotalPrice:    outcome.TotalPrice,
		CarData:       outcome.Car,
		FailureReason: outcome.Reason,
	}
	resultEnv, err := events.NewEnvelope(events.TypeCarAvailabilityResult, result)
	if err != nil {
		return err
	}
	if err := s.Bus.Publish(ctx, events.ExchangeCar, resultEnv); err != nil {
		// No result went out; reject so the broker can redeliver the request.
		return fmt.Errorf("failed to publish availability result for booking %s: %w", req.BookingID, err)
	}

	logger.Info("availability result published",
		zap.String("bookingId", req.BookingID),
		zap.Bool("isAvailable", result.IsAvailable))
	return nil
}

// cachedAvailability reuses a prior result for the same (car, date range)
// when present. The cached entry may be stale under concurrent bookings;
// that is an accepted tolerance, not a correctness guarantee.
func (s *DefaultCarService) cachedAvailability(ctx context.Context, carID string, start, end time.Time) (availabilityOutcome, error) {
	dateRange := fmt.Sprintf("%s-%s", start.Format("2006-01-02"), end.Format("2006-01-02"))
	key := cache.AvailabilityKey(carID, dateRange)

	if cached, err := s.Cache.Get(ctx, key); err == nil {
		var outcome availabilityOutcome
		if err := json.Unmarshal([]byte(cached), &outcome); err == nil {
			utils.GetLogger().Debug("returning cached availability",
				zap.String("carId", carID), zap.String("dateRange", dateRange))
			return outcome, nil
		}
	}

	outcome, err := s.checkAvailability(carID, start, end)
	if err != nil {
		return availabilityOutcome{}, err
	}

	if data, err := json.Marshal(outcome); err == nil {
		if err := s.Cache.Set(ctx, key, string(data), cache.AvailabilityTTL); err != nil {
			utils.GetLogger().Warn("failed to cache availability result",
				zap.String("carId", carID), zap.Error(err))
		}
	}
	return outcome, nil
}

// checkAvailability computes availability and price from catalog state.
//
// The IsAvailable flag is a single coarse boolean per car, not a per-date
// ledger. Two concurrent overlapping requests for the same car can both
// read it as true and both get confirmed; nothing here serializes them.
func (s *DefaultCarService) checkAvailability(carID string, start, end time.Time) (availabilityOutcome, error) {
	car, err := s.Repo.GetByID(carID)
	if err != nil {
		return availabilityOutcome{}, err
	}
	if car == nil {
		return availabilityOutcome{IsAvailable: false, Reason: ReasonCarNotFound}, nil
	}
	if !car.IsAvailable {
		return availabilityOutcome{IsAvailable: false, Reason: ReasonCarUnavailable}, nil
	}

	days := rentalDays(start, end)
	summary := car.Summary()
	return availabilityOutcome{
		IsAvailable: true,
		TotalPrice:  float64(days) * car.PricePerDay,
		Days:        days,
		Car:         &summary,
	}, nil
}

// rentalDays counts billable days: partial days round up, minimum one.
func rentalDays(start, end time.Time) int {
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}
