package bookingRepo

import (
	"github.com/rajkumarpatel02/car-rental-backend/models"

	"go.mongodb.org/mongo-driver/bson"
)

// BookingRepository defines persistence operations for bookings.
// Lookups return (nil, nil) when no document matches.
type BookingRepository interface {
	Create(booking *models.Booking) error
	GetByID(id string) (*models.Booking, error)
	GetByIDAndUser(id, userID string) (*models.Booking, error)
	GetByUser(userID string) ([]models.Booking, error)
	// UpdateFields applies a single-document $set and returns the updated
	// booking (return-new semantics). No multi-document transactions.
	UpdateFields(id string, fields bson.M) (*models.Booking, error)
}
