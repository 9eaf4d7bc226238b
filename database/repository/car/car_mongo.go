package carRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/rajkumarpatel02/car-rental-backend/database"
	"github.com/rajkumarpatel02/car-rental-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCarRepo implements CarRepository using MongoDB.
type MongoCarRepo struct {
	coll *mongo.Collection
}

// NewMongoCarRepo creates a new instance of CarRepository using MongoDB.
func NewMongoCarRepo() CarRepository {
	coll := database.MongoClient.Database("car_rental").Collection("cars")
	repo := &MongoCarRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoCarRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "is_available", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new car document.
func (r *MongoCarRepo) Create(car *models.Car) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	car.CreatedAt = now
	car.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, car)
	if err != nil {
		return fmt.Errorf("failed to create car: %w", err)
	}
	return nil
}

// GetByID retrieves a car by its unique ID.
func (r *MongoCarRepo) GetByID(id string) (*models.Car, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var car models.Car
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&car); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch car with id %s: %w", id, err)
	}
	return &car, nil
}

// GetAll retrieves the full catalog.
func (r *MongoCarRepo) GetAll() ([]models.Car, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cars: %w", err)
	}
	defer cursor.Close(ctx)

	var cars []models.Car
	for cursor.Next(ctx) {
		var c models.Car
		if err := cursor.Decode(&c); err != nil {
			return nil, fmt.Errorf("failed to decode car: %w", err)
		}
		cars = append(cars, c)
	}
	return cars, nil
}

// UpdateFields applies a $set on a single car document and returns the
// updated document.
func (r *MongoCarRepo) UpdateFields(id string, fields bson.M) (*models.Car, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	fields["updated_at"] = time.Now()
	filter := bson.M{"id": id}
	update := bson.M{"$set": fields}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var car models.Car
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&car); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update car with id %s: %w", id, err)
	}
	return &car, nil
}
