package car

import (
	"context"
	"encoding/json"

	"github.com/rajkumarpatel02/car-rental-backend/cache"
	carRepo "github.com/rajkumarpatel02/car-rental-backend/database/repository/car"
	"github.com/rajkumarpatel02/car-rental-backend/events"
	"github.com/rajkumarpatel02/car-rental-backend/messaging"
	"github.com/rajkumarpatel02/car-rental-backend/models"
	"github.com/rajkumarpatel02/car-rental-backend/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// DefaultCarService implements CarService.
type DefaultCarService struct {
	Repo  carRepo.CarRepository
	Cache cache.Store
	Bus   messaging.Bus
}

// CreateCar adds a car to the catalog and announces it on the car exchange.
func (s *DefaultCarService) CreateCar(ctx context.Context, input CreateCarInput) (*models.Car, error) {
	if input.Make == "" || input.Model == "" {
		return nil, NewValidationError("make and model are required")
	}
	if input.PricePerDay <= 0 {
		return nil, NewValidationError("pricePerDay must be positive")
	}

	car := &models.Car{
		ID:          uuid.New().String(),
		Make:        input.Make,
		Model:       input.Model,
		Year:        input.Year,
		PricePerDay: input.PricePerDay,
		IsAvailable: true,
		Image:       input.Image,
		Features:    input.Features,
	}
	if err := s.Repo.Create(car); err != nil {
		return nil, err
	}

	s.publishCarUpdated(ctx, car.ID)
	return car, nil
}

// UpdateCar applies a partial update and invalidates the car shadow.
func (s *DefaultCarService) UpdateCar(ctx context.Context, carID string, input UpdateCarInput) (*models.Car, error) {
	fields := bson.M{}
	if input.PricePerDay != nil {
		if *input.PricePerDay <= 0 {
			return nil, NewValidationError("pricePerDay must be positive")
		}
		fields["price_per_day"] = *input.PricePerDay
	}
	if input.IsAvailable != nil {
		fields["is_available"] = *input.IsAvailable
	}
	if input.Image != nil {
		fields["image"] = *input.Image
	}
	if len(fields) == 0 {
		return nil, NewValidationError("no fields to update")
	}

	car, err := s.Repo.UpdateFields(carID, fields)
	if err != nil {
		return nil, err
	}
	if car == nil {
		return nil, ErrNotFound
	}

	if err := s.Cache.Del(ctx, cache.CarKey(carID)); err != nil {
		utils.GetLogger().Warn("failed to invalidate car cache",
			zap.String("carId", carID), zap.Error(err))
	}
	s.publishCarUpdated(ctx, carID)
	return car, nil
}

// GetCarByID returns one car, cache-aside.
func (s *DefaultCarService) GetCarByID(ctx context.Context, carID string) (*models.Car, error) {
	if cached, err := s.Cache.Get(ctx, cache.CarKey(carID)); err == nil {
		var car models.Car
		if err := json.Unmarshal([]byte(cached), &car); err == nil {
			return &car, nil
		}
	}

	car, err := s.Repo.GetByID(carID)
	if err != nil {
		return nil, err
	}
	if car == nil {
		return nil, ErrNotFound
	}

	if data, err := json.Marshal(car); err == nil {
		if err := s.Cache.Set(ctx, cache.CarKey(carID), string(data), cache.BookingTTL); err != nil {
			utils.GetLogger().Warn("failed to cache car",
				zap.String("carId", carID), zap.Error(err))
		}
	}
	return car, nil
}

// ListCars returns the full catalog.
func (s *DefaultCarService) ListCars(ctx context.Context) ([]models.Car, error) {
	return s.Repo.GetAll()
}

func (s *DefaultCarService) publishCarUpdated(ctx context.Context, carID string) {
	env, err := events.NewEnvelope(events.TypeCarUpdated, events.CarUpdatedData{CarID: carID})
	if err != nil {
		return
	}
	if err := s.Bus.Publish(ctx, events.ExchangeCar, env); err != nil {
		utils.GetLogger().Error("failed to publish car.updated",
			zap.String("carId", carID), zap.Error(err))
	}
}
