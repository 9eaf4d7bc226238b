package user

import (
	"context"
	"errors"
	"time"

	userRepo "github.com/rajkumarpatel02/car-rental-backend/database/repository/user"
	"github.com/rajkumarpatel02/car-rental-backend/events"
	"github.com/rajkumarpatel02/car-rental-backend/messaging"
	"github.com/rajkumarpatel02/car-rental-backend/models"
	"github.com/rajkumarpatel02/car-rental-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for a bad email/password combination.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrEmailTaken is returned when registering an already-used email.
var ErrEmailTaken = errors.New("email already registered")

const tokenDuration = 24 * time.Hour

// UserService handles registration and authentication.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (string, *models.User, error)
}

// DefaultUserService implements UserService.
type DefaultUserService struct {
	Repo userRepo.UserRepository
	Bus  messaging.Bus
}

// Register creates an account and publishes user.created so the worker can
// send the welcome email.
func (s *DefaultUserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	existing, err := s.Repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.Repo.Create(user); err != nil {
		return nil, err
	}

	env, err := events.NewEnvelope(events.TypeUserCreated, events.UserCreatedData{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	})
	if err == nil {
		if err := s.Bus.Publish(ctx, events.ExchangeUser, env); err != nil {
			utils.GetLogger().Error("failed to publish user.created",
				zap.String("userId", user.ID), zap.Error(err))
		}
	}
	return user, nil
}

// Authenticate verifies credentials and issues a signed token.
func (s *DefaultUserService) Authenticate(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.Repo.GetByEmail(email)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Email, tokenDuration)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
