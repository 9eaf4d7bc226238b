package userRepo

import "github.com/rajkumarpatel02/car-rental-backend/models"

// UserRepository defines persistence operations for user accounts.
// Lookups return (nil, nil) when no document matches.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
}
