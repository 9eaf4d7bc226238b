package car

import (
	"context"

	"github.com/rajkumarpatel02/car-rental-backend/events"
	"github.com/rajkumarpatel02/car-rental-backend/models"
)

// CreateCarInput carries a new catalog entry.
type CreateCarInput struct {
	Make        string
	Model       string
	Year        int
	PricePerDay float64
	Image       string
	Features    []string
}

// UpdateCarInput carries a partial catalog update. Nil fields are unchanged.
type UpdateCarInput struct {
	PricePerDay *float64
	IsAvailable *bool
	Image       *string
}

// CarService owns the catalog and answers availability requests from the
// booking saga.
type CarService interface {
	CreateCar(ctx context.Context, input CreateCarInput) (*models.Car, error)
	UpdateCar(ctx context.Context, carID string, input UpdateCarInput) (*models.Car, error)
	GetCarByID(ctx context.Context, carID string) (*models.Car, error)
	ListCars(ctx context.Context) ([]models.Car, error)

	// HandleAvailabilityRequest consumes booking.created events and publishes
	// exactly one car.availability_result per request, success or not.
	HandleAvailabilityRequest(ctx context.Context, env events.Envelope) error
}
