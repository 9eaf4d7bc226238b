package booking

import (
	"context"
	"time"

	"github.com/rajkumarpatel02/car-rental-backend/events"
	"github.com/rajkumarpatel02/car-rental-backend/models"
)

// CreateBookingInput carries the validated request to start a booking saga.
type CreateBookingInput struct {
	CarID     string
	StartDate time.Time
	EndDate   time.Time
}

// BookingService drives the booking side of the availability saga and the
// cached read path.
type BookingService interface {
	CreateBooking(ctx context.Context, userID string, input CreateBookingInput) (*models.Booking, error)
	GetUserBookings(ctx context.Context, userID string) ([]models.Booking, error)
	GetBookingByID(ctx context.Context, bookingID, userID string) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID, userID string) (*models.Booking, error)

	// HandleAvailabilityResult consumes car.availability_result events and
	// advances the saga state machine.
	HandleAvailabilityResult(ctx context.Context, env events.Envelope) error
}
