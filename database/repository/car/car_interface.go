package carRepo

import (
	"github.com/rajkumarpatel02/car-rental-backend/models"

	"go.mongodb.org/mongo-driver/bson"
)

// CarRepository defines persistence operations for the car catalog.
// Lookups return (nil, nil) when no document matches.
type CarRepository interface {
	Create(car *models.Car) error
	GetByID(id string) (*models.Car, error)
	GetAll() ([]models.Car, error)
	// UpdateFields applies a single-document $set and returns the updated
	// car (return-new semantics).
	UpdateFields(id string, fields bson.M) (*models.Car, error)
}
